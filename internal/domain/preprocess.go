package domain

import "time"

// RulesetSpec names one plugin/language/repository combination a run
// generates a ruleset for.
type RulesetSpec struct {
	PluginKey  string `yaml:"plugin" json:"plugin"`
	Language   string `yaml:"language" json:"language"`
	Repository string `yaml:"repository" json:"repository"`
	FileName   string `yaml:"file" json:"file"`
}

// DefaultRulesetSpecs covers the two analyzers the MSBuild integration
// historically shipped rulesets for.
func DefaultRulesetSpecs() []RulesetSpec {
	return []RulesetSpec{
		{PluginKey: "csharp", Language: "cs", Repository: "fxcop", FileName: "SonarQubeFxCop-cs.ruleset"},
		{PluginKey: "vbnet", Language: "vbnet", Repository: "fxcop-vbnet", FileName: "SonarQubeFxCop-vbnet.ruleset"},
	}
}

// EmbeddedFileRequest names a plugin static file to fetch into the config
// directory.
type EmbeddedFileRequest struct {
	Plugin string `yaml:"plugin" json:"plugin"`
	File   string `yaml:"file" json:"file"`
}

// PreprocessOptions are the resolved inputs of one preprocessing run.
type PreprocessOptions struct {
	ServerURL       string
	ProjectKey      string
	ProjectName     string
	ProjectVersion  string
	Branch          string
	ConfigDir       string
	OutputDir       string
	LocalProperties map[string]string
	Rulesets        []RulesetSpec
	EmbeddedFiles   []EmbeddedFileRequest
}

// RulesetOutcome records what one ruleset spec produced.
type RulesetOutcome struct {
	Spec    RulesetSpec `json:"spec"`
	Written bool        `json:"written"`
	Path    string      `json:"path,omitempty"`
}

// PreprocessResult summarizes one preprocessing run.
type PreprocessResult struct {
	ProjectKey       string           `json:"project_key"`
	Branch           string           `json:"branch,omitempty"`
	ConfigPath       string           `json:"config_path"`
	Rulesets         []RulesetOutcome `json:"rulesets"`
	ServerProperties int              `json:"server_properties"`
	FetchedFiles     []string         `json:"fetched_files,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

// WrittenRulesets lists the file names of the rulesets the run produced.
func (r *PreprocessResult) WrittenRulesets() []string {
	var names []string
	for _, o := range r.Rulesets {
		if o.Written {
			names = append(names, o.Spec.FileName)
		}
	}
	return names
}

// RunRecord is one entry of the local preprocess history.
type RunRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	ProjectKey string    `json:"project_key"`
	Branch     string    `json:"branch,omitempty"`
	ServerURL  string    `json:"server_url"`
	Rulesets   []string  `json:"rulesets,omitempty"`
	CommitHash string    `json:"commit_hash,omitempty"`
}
