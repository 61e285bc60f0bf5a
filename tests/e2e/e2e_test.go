package e2e_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarprep/sonarprep/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "sonarprep-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "sonarprep")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/sonarprep")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

// newQualityServer serves the web-API surface the binary talks to: one
// installed csharp plugin and a default "Sonar way" profile whose fxcop
// rules resolve to the FxCop identifiers CA1000 and CA2100.
func newQualityServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/updatecenter/installed_plugins", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"key":"csharp","name":"C#"}]`))
	})
	mux.HandleFunc("/api/profiles/list", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("language") != "cs" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		if project := r.URL.Query().Get("project"); project != "" && project != "project1" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"name":"Sonar way","language":"cs","default":true}]`))
	})
	mux.HandleFunc("/api/profiles/index", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"Sonar way","rules":[
			{"key":"r1","repo":"fxcop"},
			{"key":"r2","repo":"fxcop","params":[{"key":"CheckId","value":"CA2100"}]}
		]}]`))
	})
	mux.HandleFunc("/api/rules/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rules":[{"key":"fxcop:r1","internalKey":"CA1000"}]}`))
	})
	mux.HandleFunc("/api/properties", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"key":"sonar.exclusions","value":"**/obj/**"}]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// --- Preprocess Tests ---

func TestE2E_Preprocess(t *testing.T) {
	srv := newQualityServer(t)
	dir := t.TempDir()

	out, code := run(t, "preprocess", dir, "--server", srv.URL, "--project-key", "project1")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "sonarprep")
	assert.Contains(t, out, "project1")
	assert.Contains(t, out, "SonarQubeFxCop-cs.ruleset")

	confDir := filepath.Join(dir, ".sonarprep", "conf")
	assert.FileExists(t, filepath.Join(confDir, "AnalysisConfig.xml"))
	assert.FileExists(t, filepath.Join(confDir, "SonarQubeFxCop-cs.ruleset"))

	ruleset, err := os.ReadFile(filepath.Join(confDir, "SonarQubeFxCop-cs.ruleset"))
	require.NoError(t, err)
	assert.Contains(t, string(ruleset), `Id="CA1000"`)
	assert.Contains(t, string(ruleset), `Id="CA2100"`)
}

func TestE2E_PreprocessJSON(t *testing.T) {
	srv := newQualityServer(t)
	dir := t.TempDir()

	out, code := run(t, "preprocess", dir, "--server", srv.URL, "--project-key", "project1", "--json")
	assert.Equal(t, 0, code)

	var result domain.PreprocessResult
	err := json.Unmarshal([]byte(out), &result)
	require.NoError(t, err)
	assert.Equal(t, "project1", result.ProjectKey)
	require.Len(t, result.Rulesets, 2, "one outcome per default analyzer pair")
	assert.True(t, result.Rulesets[0].Written)
	assert.False(t, result.Rulesets[1].Written, "vbnet plugin is not installed")
}

// --- Ruleset Tests ---

func TestE2E_Ruleset(t *testing.T) {
	srv := newQualityServer(t)
	outDir := t.TempDir()

	out, code := run(t, "ruleset", "--server", srv.URL, "--project-key", "project1", "--out-dir", outDir)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "wrote")
	assert.FileExists(t, filepath.Join(outDir, "SonarQubeFxCop-cs.ruleset"))
}

func TestE2E_RulesetSkipsMissingPlugin(t *testing.T) {
	srv := newQualityServer(t)
	outDir := t.TempDir()

	out, code := run(t, "ruleset",
		"--server", srv.URL,
		"--project-key", "project1",
		"--plugin", "vbnet",
		"--language", "vbnet",
		"--repository", "fxcop-vbnet",
		"--file", "SonarQubeFxCop-vbnet.ruleset",
		"--out-dir", outDir)
	assert.Equal(t, 0, code, "a skipped ruleset is a normal run")
	assert.Contains(t, out, "no applicable rules")
	assert.NoFileExists(t, filepath.Join(outDir, "SonarQubeFxCop-vbnet.ruleset"))
}

// --- Query Tests ---

func TestE2E_PluginsJSON(t *testing.T) {
	srv := newQualityServer(t)

	out, code := run(t, "plugins", "--server", srv.URL, "--json")
	assert.Equal(t, 0, code)

	var plugins []string
	require.NoError(t, json.Unmarshal([]byte(out), &plugins))
	assert.Equal(t, []string{"csharp"}, plugins)
}

func TestE2E_Properties(t *testing.T) {
	srv := newQualityServer(t)

	out, code := run(t, "properties", "--server", srv.URL, "--project-key", "project1")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "sonar.exclusions")
	assert.Contains(t, out, "**/obj/**")
}

func TestE2E_UnreachableServer(t *testing.T) {
	out, code := run(t, "plugins", "--server", "http://127.0.0.1:1")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Error")
}

// --- Version Test ---

func TestE2E_Version(t *testing.T) {
	out, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "sonarprep")
}
