package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sonarprep/sonarprep/internal/adapters/outbound/render"
	"github.com/sonarprep/sonarprep/internal/domain"
)

func sampleResult() *domain.PreprocessResult {
	return &domain.PreprocessResult{
		ProjectKey: "my-project",
		Branch:     "main",
		ConfigPath: ".sonarprep/conf/AnalysisConfig.xml",
		Rulesets: []domain.RulesetOutcome{
			{
				Spec:    domain.RulesetSpec{PluginKey: "csharp", Language: "cs", Repository: "fxcop", FileName: "SonarQubeFxCop-cs.ruleset"},
				Written: true,
				Path:    ".sonarprep/conf/SonarQubeFxCop-cs.ruleset",
			},
			{
				Spec:    domain.RulesetSpec{PluginKey: "vbnet", Language: "vbnet", Repository: "fxcop-vbnet", FileName: "SonarQubeFxCop-vbnet.ruleset"},
				Written: false,
			},
		},
		ServerProperties: 12,
		FetchedFiles:     []string{"SonarLint.xml"},
		Timestamp:        time.Date(2016, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderPreprocess_ContainsProjectAndBranch(t *testing.T) {
	output := render.RenderPreprocess(sampleResult())
	assert.Contains(t, output, "my-project")
	assert.Contains(t, output, "main")
}

func TestRenderPreprocess_ShowsWrittenAndSkippedRulesets(t *testing.T) {
	output := render.RenderPreprocess(sampleResult())
	assert.Contains(t, output, "SonarQubeFxCop-cs.ruleset")
	assert.Contains(t, output, "SonarQubeFxCop-vbnet.ruleset")
	assert.Contains(t, output, "skipped")
	assert.Contains(t, output, "●")
	assert.Contains(t, output, "○")
}

func TestRenderPreprocess_ShowsConfigPathAndPropertyCount(t *testing.T) {
	output := render.RenderPreprocess(sampleResult())
	assert.Contains(t, output, ".sonarprep/conf/AnalysisConfig.xml")
	assert.Contains(t, output, "12 server properties")
}

func TestRenderPreprocess_ShowsFetchedFiles(t *testing.T) {
	output := render.RenderPreprocess(sampleResult())
	assert.Contains(t, output, "Fetched Files")
	assert.Contains(t, output, "SonarLint.xml")
}

func TestRenderPreprocess_NoRulesetsConfigured(t *testing.T) {
	output := render.RenderPreprocess(&domain.PreprocessResult{ProjectKey: "p"})
	assert.Contains(t, output, "none configured")
}

func TestRenderProperties_SortsKeysAndShowsValues(t *testing.T) {
	output := render.RenderProperties(map[string]string{
		"sonar.visualstudio.enable":           "false",
		"sonar.cs.msbuild.testProjectPattern": `[^\\]*test[^\\]*`,
	})

	assert.Contains(t, output, "sonar.cs.msbuild.testProjectPattern")
	assert.Contains(t, output, "sonar.visualstudio.enable")
	assert.Contains(t, output, `[^\\]*test[^\\]*`)

	first := strings.Index(output, "sonar.cs.msbuild.testProjectPattern")
	second := strings.Index(output, "sonar.visualstudio.enable")
	assert.True(t, first < second, "keys should be sorted")
}

func TestRenderProperties_HumanizesCamelCaseTail(t *testing.T) {
	output := render.RenderProperties(map[string]string{
		"sonar.cs.msbuild.testProjectPattern": "x",
	})
	assert.Contains(t, output, "Test Project Pattern")
}

func TestRenderProperties_Empty(t *testing.T) {
	output := render.RenderProperties(nil)
	assert.Contains(t, output, "No properties found.")
}

func TestRenderPlugins_SortsAndCounts(t *testing.T) {
	output := render.RenderPlugins([]string{"vbnet", "csharp"})

	assert.Contains(t, output, "(2)")
	assert.True(t, strings.Index(output, "csharp") < strings.Index(output, "vbnet"))
}

func TestRenderPlugins_Empty(t *testing.T) {
	output := render.RenderPlugins(nil)
	assert.Contains(t, output, "No plugins installed.")
}

func TestRenderHistory_ShowsDateHashProjectAndCount(t *testing.T) {
	records := []domain.RunRecord{
		{
			Timestamp:  time.Date(2016, 3, 14, 10, 0, 0, 0, time.UTC),
			ProjectKey: "my-project",
			Branch:     "main",
			Rulesets:   []string{"SonarQubeFxCop-cs.ruleset"},
			CommitHash: "abcdef1234567890",
		},
		{
			Timestamp:  time.Date(2016, 3, 15, 10, 0, 0, 0, time.UTC),
			ProjectKey: "my-project",
		},
	}

	output := render.RenderHistory(records)

	assert.Contains(t, output, "2016-03-14")
	assert.Contains(t, output, "abcdef1")
	assert.NotContains(t, output, "abcdef12", "hash should be shortened to 7 characters")
	assert.Contains(t, output, "my-project @ main")
	assert.Contains(t, output, "1 rulesets")
	assert.Contains(t, output, "0 rulesets")
	assert.Contains(t, output, "·······", "missing hash gets a placeholder")
}

func TestRenderHistory_Empty(t *testing.T) {
	output := render.RenderHistory(nil)
	assert.Contains(t, output, "No run history found.")
}
