package runhistory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/runhistory"
	"github.com/sonarprep/sonarprep/internal/domain"
)

func TestFileHistory_AppendAndLoad(t *testing.T) {
	h := runhistory.New()
	projectPath := t.TempDir()

	first := domain.RunRecord{
		Timestamp:  time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		ProjectKey: "p1",
		ServerURL:  "http://server:9000",
		Rulesets:   []string{"SonarQubeFxCop-cs.ruleset"},
		CommitHash: "abc1234",
	}
	second := domain.RunRecord{
		Timestamp:  time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC),
		ProjectKey: "p1",
		Branch:     "feature-x",
		ServerURL:  "http://server:9000",
	}

	require.NoError(t, h.Append(projectPath, first))
	require.NoError(t, h.Append(projectPath, second))

	records, err := h.Load(projectPath)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p1", records[0].ProjectKey)
	assert.Equal(t, []string{"SonarQubeFxCop-cs.ruleset"}, records[0].Rulesets)
	assert.Equal(t, "feature-x", records[1].Branch, "records keep append order")
}

func TestFileHistory_LoadWithoutHistory(t *testing.T) {
	records, err := runhistory.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, records)
}
