package application_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/configstore"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/memserver"
	"github.com/sonarprep/sonarprep/internal/adapters/outbound/rulesetfile"
	"github.com/sonarprep/sonarprep/internal/application"
	"github.com/sonarprep/sonarprep/internal/domain"
)

func newPreprocessService(data *domain.ServerData) *application.PreprocessService {
	return application.NewPreprocessService(
		memserver.New(data),
		application.NewRulesetService(rulesetfile.New()),
		configstore.New(),
	)
}

func baseOptions(t *testing.T) domain.PreprocessOptions {
	t.Helper()
	root := t.TempDir()
	return domain.PreprocessOptions{
		ProjectKey:     "project1",
		ProjectName:    "Project One",
		ProjectVersion: "1.0",
		ConfigDir:      filepath.Join(root, "conf"),
		OutputDir:      filepath.Join(root, "out"),
		Rulesets:       []domain.RulesetSpec{fixtureSpec()},
	}
}

func TestRun_WritesConfigAndRuleset(t *testing.T) {
	svc := newPreprocessService(serverFixture())
	opts := baseOptions(t)

	result, err := svc.Run(opts)
	require.NoError(t, err)

	assert.FileExists(t, result.ConfigPath)
	assert.Equal(t, filepath.Join(opts.ConfigDir, "AnalysisConfig.xml"), result.ConfigPath)
	require.Len(t, result.Rulesets, 1)
	assert.True(t, result.Rulesets[0].Written)
	assert.FileExists(t, result.Rulesets[0].Path)

	cfg, err := configstore.New().Load(result.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "project1", cfg.SonarProjectKey)
	assert.Equal(t, "Project One", cfg.SonarProjectName)
	assert.Equal(t, "1.0", cfg.SonarProjectVersion)
	assert.Equal(t, opts.ConfigDir, cfg.SonarConfigDir)
	assert.Equal(t, opts.OutputDir, cfg.SonarOutputDir)

	require.NotNil(t, cfg.AnalyzerSettings)
	assert.Equal(t, result.Rulesets[0].Path, cfg.AnalyzerSettings.RulesetPath)
}

func TestRun_ServerSettingsCarryInjectedDefault(t *testing.T) {
	svc := newPreprocessService(serverFixture())

	result, err := svc.Run(baseOptions(t))
	require.NoError(t, err)

	cfg, err := configstore.New().Load(result.ConfigPath)
	require.NoError(t, err)

	value, ok := cfg.ServerSetting(domain.TestProjectPatternKey)
	assert.True(t, ok)
	assert.Equal(t, domain.TestProjectPatternDefault, value)
	assert.Equal(t, result.ServerProperties, len(cfg.ServerSettings))
}

func TestRun_NonApplicablePairsSkipWithoutError(t *testing.T) {
	svc := newPreprocessService(serverFixture())
	opts := baseOptions(t)
	opts.Rulesets = nil // default csharp/vbnet pairs, neither installed

	result, err := svc.Run(opts)
	require.NoError(t, err)

	require.Len(t, result.Rulesets, 2)
	for _, outcome := range result.Rulesets {
		assert.False(t, outcome.Written)
	}
	assert.Empty(t, result.WrittenRulesets())

	cfg, err := configstore.New().Load(result.ConfigPath)
	require.NoError(t, err)
	assert.Nil(t, cfg.AnalyzerSettings, "no written ruleset means no analyzer settings")
}

func TestRun_BranchRecordedAsLocalSetting(t *testing.T) {
	svc := newPreprocessService(serverFixture())
	opts := baseOptions(t)
	opts.ProjectKey = "project3"
	opts.Branch = "aThirdBranch"

	result, err := svc.Run(opts)
	require.NoError(t, err)
	require.Len(t, result.Rulesets, 1)
	assert.True(t, result.Rulesets[0].Written)

	cfg, err := configstore.New().Load(result.ConfigPath)
	require.NoError(t, err)
	value, ok := cfg.LocalSetting(application.BranchPropertyKey)
	assert.True(t, ok)
	assert.Equal(t, "aThirdBranch", value)
}

func TestRun_ExplicitBranchPropertyWins(t *testing.T) {
	svc := newPreprocessService(serverFixture())
	opts := baseOptions(t)
	opts.ProjectKey = "project3"
	opts.Branch = "aThirdBranch"
	opts.LocalProperties = map[string]string{application.BranchPropertyKey: "operator-set"}

	result, err := svc.Run(opts)
	require.NoError(t, err)

	cfg, err := configstore.New().Load(result.ConfigPath)
	require.NoError(t, err)
	value, _ := cfg.LocalSetting(application.BranchPropertyKey)
	assert.Equal(t, "operator-set", value)
}

func TestRun_LocalPropertiesSortedIntoConfig(t *testing.T) {
	svc := newPreprocessService(serverFixture())
	opts := baseOptions(t)
	opts.LocalProperties = map[string]string{
		"sonar.verbose":   "true",
		"sonar.exclusion": "**/gen/**",
	}

	result, err := svc.Run(opts)
	require.NoError(t, err)

	cfg, err := configstore.New().Load(result.ConfigPath)
	require.NoError(t, err)
	require.Len(t, cfg.LocalSettings, 2)
	assert.Equal(t, "sonar.exclusion", cfg.LocalSettings[0].Name)
	assert.Equal(t, "sonar.verbose", cfg.LocalSettings[1].Name)
}

func TestRun_FetchesEmbeddedFiles(t *testing.T) {
	data := serverFixture()
	data.AddEmbeddedFile("pluginAAA", "SonarLint.xml", []byte("<Settings/>"))
	svc := newPreprocessService(data)

	opts := baseOptions(t)
	opts.EmbeddedFiles = []domain.EmbeddedFileRequest{
		{Plugin: "pluginAAA", File: "SonarLint.xml"},
		{Plugin: "pluginAAA", File: "absent.xml"},
	}

	result, err := svc.Run(opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"SonarLint.xml"}, result.FetchedFiles)
	assert.FileExists(t, filepath.Join(opts.ConfigDir, "SonarLint.xml"))
	assert.NoFileExists(t, filepath.Join(opts.ConfigDir, "absent.xml"))
}

func TestRun_CreatesMissingDirectories(t *testing.T) {
	svc := newPreprocessService(serverFixture())
	opts := baseOptions(t)
	opts.ConfigDir = filepath.Join(opts.ConfigDir, "deeply", "nested")

	result, err := svc.Run(opts)
	require.NoError(t, err)

	assert.DirExists(t, opts.ConfigDir)
	assert.DirExists(t, opts.OutputDir)
	assert.FileExists(t, result.ConfigPath)
}

func TestRun_BlankOptionsRejected(t *testing.T) {
	svc := newPreprocessService(serverFixture())

	_, err := svc.Run(domain.PreprocessOptions{ConfigDir: "c", OutputDir: "o"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Run(domain.PreprocessOptions{ProjectKey: "p", OutputDir: "o"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
