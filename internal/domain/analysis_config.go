package domain

import "encoding/xml"

// ConfigNamespace is the XML namespace of the analysis configuration
// document. The post-processing side of the MSBuild integration matches
// on it, so it is part of the wire contract.
const ConfigNamespace = "http://www.sonarsource.com/msbuild/integration/2015/1"

// ConfigFileName is the file the preprocessor writes into the config
// directory and the build integration reads back.
const ConfigFileName = "AnalysisConfig.xml"

// AnalysisConfig is the flat record of one analysis run's settings,
// written by the preprocessor and read back by the build integration.
type AnalysisConfig struct {
	XMLName xml.Name `xml:"http://www.sonarsource.com/msbuild/integration/2015/1 AnalysisConfig" json:"-"`

	SonarConfigDir      string `xml:"SonarConfigDir" json:"config_dir"`
	SonarOutputDir      string `xml:"SonarOutputDir" json:"output_dir"`
	SonarProjectKey     string `xml:"SonarProjectKey" json:"project_key"`
	SonarProjectName    string `xml:"SonarProjectName" json:"project_name"`
	SonarProjectVersion string `xml:"SonarProjectVersion" json:"project_version"`

	AdditionalConfig []ConfigSetting `xml:"AdditionalConfig>ConfigSetting" json:"additional_config"`
	ServerSettings   []Property      `xml:"ServerSettings>Property" json:"server_settings"`
	LocalSettings    []Property      `xml:"LocalSettings>Property" json:"local_settings"`

	AnalyzerSettings *AnalyzerSettings `xml:"AnalyzerSettings" json:"analyzer_settings,omitempty"`
}

// Property is one key/value analysis setting.
type Property struct {
	Name  string `xml:"Name,attr" json:"name"`
	Value string `xml:",chardata" json:"value"`
}

// ConfigSetting is a generic named value the preprocessor records for the
// post-processing step.
type ConfigSetting struct {
	ID    string `xml:"Id,attr" json:"id"`
	Value string `xml:"Value,attr" json:"value"`
}

// AnalyzerSettings points the downstream analyzer at the generated
// ruleset and its companion files.
type AnalyzerSettings struct {
	RulesetPath           string   `xml:"RuleSetFilePath" json:"ruleset_path"`
	AnalyzerAssemblyPaths []string `xml:"AnalyzerAssemblyPaths>Path" json:"analyzer_assembly_paths"`
	AdditionalFilePaths   []string `xml:"AdditionalFilePaths>Path" json:"additional_file_paths"`
}

// ServerSetting returns the value of a server-sourced property.
func (c *AnalysisConfig) ServerSetting(name string) (string, bool) {
	return findProperty(c.ServerSettings, name)
}

// LocalSetting returns the value of a locally-sourced property.
func (c *AnalysisConfig) LocalSetting(name string) (string, bool) {
	return findProperty(c.LocalSettings, name)
}

// Setting resolves a property with local settings taking precedence over
// server settings.
func (c *AnalysisConfig) Setting(name string) (string, bool) {
	if v, ok := c.LocalSetting(name); ok {
		return v, true
	}
	return c.ServerSetting(name)
}

// ConfigValue returns an additional-config value by id.
func (c *AnalysisConfig) ConfigValue(id string) (string, bool) {
	for _, s := range c.AdditionalConfig {
		if s.ID == id {
			return s.Value, true
		}
	}
	return "", false
}

// SetConfigValue inserts or replaces an additional-config value.
func (c *AnalysisConfig) SetConfigValue(id, value string) {
	for i := range c.AdditionalConfig {
		if c.AdditionalConfig[i].ID == id {
			c.AdditionalConfig[i].Value = value
			return
		}
	}
	c.AdditionalConfig = append(c.AdditionalConfig, ConfigSetting{ID: id, Value: value})
}

func findProperty(props []Property, name string) (string, bool) {
	for _, p := range props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
