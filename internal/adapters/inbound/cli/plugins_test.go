package cli_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarprep/sonarprep/internal/adapters/inbound/cli"
)

func TestPluginsCommand(t *testing.T) {
	srv := newQualityServer(t)

	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"plugins", "--server", srv.URL})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Installed Plugins")
	assert.Contains(t, output, "csharp")
}

func TestPluginsCommandJSON(t *testing.T) {
	srv := newQualityServer(t)

	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"plugins", "--server", srv.URL, "--json"})

	require.NoError(t, cmd.Execute())

	var plugins []string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &plugins))
	assert.Equal(t, []string{"csharp"}, plugins)
}

func TestPluginsCommandUnreachableServer(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"plugins", "--server", "http://127.0.0.1:1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing plugins")
}
