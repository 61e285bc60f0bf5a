package cli_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarprep/sonarprep/internal/adapters/inbound/cli"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/snapshotcache"
)

func TestSnapshotCommand(t *testing.T) {
	srv := newQualityServer(t)
	dir := t.TempDir()

	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"snapshot", dir, "--server", srv.URL, "--project-key", "project1"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "captured 1 plugins, 1 profiles, 1 repositories")

	snap, err := snapshotcache.New().Load(dir)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, srv.URL, snap.ServerURL)
	assert.Equal(t, []string{"csharp"}, snap.Data.InstalledPlugins)

	profile := snap.Data.FindProfile("Sonar way", "cs")
	require.NotNil(t, profile)
	assert.True(t, profile.AppliesTo("project1", ""))
}

func TestSnapshotCommandInvalidate(t *testing.T) {
	srv := newQualityServer(t)
	dir := t.TempDir()

	run := func(args ...string) string {
		cmd := cli.NewRootCmdForTest()
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return buf.String()
	}

	run("snapshot", dir, "--server", srv.URL, "--project-key", "project1")
	require.FileExists(t, filepath.Join(dir, ".sonarprep", "cache", "server.json"))

	output := run("snapshot", dir, "--invalidate")
	assert.Contains(t, output, "snapshot removed")
	assert.NoFileExists(t, filepath.Join(dir, ".sonarprep", "cache", "server.json"))
}
