package domain

import "fmt"

// ProjectSettings is the operator-facing configuration read from
// sonarprep.yaml at the project root.
type ProjectSettings struct {
	ServerURL      string                `yaml:"server_url" json:"server_url"`
	ProjectKey     string                `yaml:"project_key" json:"project_key"`
	ProjectName    string                `yaml:"project_name" json:"project_name,omitempty"`
	ProjectVersion string                `yaml:"project_version" json:"project_version,omitempty"`
	Branch         string                `yaml:"branch" json:"branch,omitempty"`
	Properties     map[string]string     `yaml:"properties" json:"properties,omitempty"`
	Rulesets       []RulesetSpec         `yaml:"rulesets" json:"rulesets,omitempty"`
	Fetch          []EmbeddedFileRequest `yaml:"fetch" json:"fetch,omitempty"`
}

// Validate rejects incomplete ruleset and fetch entries.
func (s ProjectSettings) Validate() error {
	for i, rs := range s.Rulesets {
		if blank(rs.PluginKey) || blank(rs.Language) || blank(rs.Repository) || blank(rs.FileName) {
			return fmt.Errorf("rulesets[%d]: plugin, language, repository and file are all required", i)
		}
	}
	for i, f := range s.Fetch {
		if blank(f.Plugin) || blank(f.File) {
			return fmt.Errorf("fetch[%d]: plugin and file are required", i)
		}
	}
	return nil
}

// GlobalSettings is the user-wide fallback kept under the XDG config
// home. Only the server address lives there.
type GlobalSettings struct {
	ServerURL string `yaml:"server_url" json:"server_url"`
}
