package domain

import "strings"

// Historical default injected into project properties when the server does
// not define the key. The pattern classifies MSBuild projects whose name
// contains "test" as test projects.
const (
	TestProjectPatternKey     = "sonar.cs.msbuild.testProjectPattern"
	TestProjectPatternDefault = `[^\\]*test[^\\]*$`
)

// ProjectID composes the identifier the server uses for a project: the
// bare key, or "key:branch" when a branch is set.
func ProjectID(projectKey, branch string) string {
	if strings.TrimSpace(branch) == "" {
		return projectKey
	}
	return projectKey + ":" + branch
}

// Rule is one analyzer rule. InternalKey is the plugin-internal identifier
// the downstream analyzer consumes instead of the public key when present.
type Rule struct {
	Key         string `json:"key"`
	InternalKey string `json:"internal_key,omitempty"`
}

// Repository owns the rules one plugin contributes for one language.
// Identity is the (Name, Language) pair; rule keys are unique within it.
type Repository struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Rules    []Rule `json:"rules,omitempty"`
}

// AddRule appends a rule and returns the repository for chaining. A key
// already present is ignored.
func (r *Repository) AddRule(key, internalKey string) *Repository {
	if r.FindRule(key) != nil {
		return r
	}
	r.Rules = append(r.Rules, Rule{Key: key, InternalKey: internalKey})
	return r
}

// FindRule returns the rule with the given key, or nil.
func (r *Repository) FindRule(key string) *Rule {
	for i := range r.Rules {
		if r.Rules[i].Key == key {
			return &r.Rules[i]
		}
	}
	return nil
}

// QualityProfile names a set of active rules for one language, plus the
// projects it applies to. A project association is either a bare project
// key or a "key:branch" composite.
type QualityProfile struct {
	Name        string   `json:"name"`
	Language    string   `json:"language"`
	Projects    []string `json:"projects,omitempty"`
	ActiveRules []string `json:"active_rules,omitempty"`
}

// AddProject associates a project and optional branch with the profile.
func (p *QualityProfile) AddProject(projectKey, branch string) *QualityProfile {
	p.Projects = append(p.Projects, ProjectID(projectKey, branch))
	return p
}

// ActivateRule marks a rule key active on the profile. The key may
// reference a rule that exists in no repository; lookups skip those.
func (p *QualityProfile) ActivateRule(ruleKey string) *QualityProfile {
	p.ActiveRules = append(p.ActiveRules, ruleKey)
	return p
}

// AppliesTo reports whether the profile lists the exact project[:branch]
// identifier. A bare association never matches a branched lookup and vice
// versa.
func (p *QualityProfile) AppliesTo(projectKey, branch string) bool {
	id := ProjectID(projectKey, branch)
	for _, proj := range p.Projects {
		if proj == id {
			return true
		}
	}
	return false
}

// ExportedProfile is a pre-rendered profile export payload.
type ExportedProfile struct {
	Profile  string `json:"profile"`
	Language string `json:"language"`
	Format   string `json:"format"`
	Content  string `json:"content"`
}

// EmbeddedFile is a static file shipped by a plugin.
type EmbeddedFile struct {
	Plugin  string `json:"plugin"`
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// ServerData captures everything the preprocessor reads from a quality
// server. It is built once per run, from live responses or a fixture, and
// only read afterwards.
type ServerData struct {
	InstalledPlugins []string          `json:"installed_plugins,omitempty"`
	Repositories     []*Repository     `json:"repositories,omitempty"`
	Profiles         []*QualityProfile `json:"profiles,omitempty"`
	Properties       map[string]string `json:"properties,omitempty"`
	Exports          []ExportedProfile `json:"exports,omitempty"`
	EmbeddedFiles    []EmbeddedFile    `json:"embedded_files,omitempty"`
}

func NewServerData() *ServerData {
	return &ServerData{Properties: map[string]string{}}
}

// AddPlugin records an installed plugin key. Duplicates collapse.
func (d *ServerData) AddPlugin(key string) *ServerData {
	if d.HasPlugin(key) {
		return d
	}
	d.InstalledPlugins = append(d.InstalledPlugins, key)
	return d
}

// HasPlugin reports whether the plugin key is installed.
func (d *ServerData) HasPlugin(key string) bool {
	for _, k := range d.InstalledPlugins {
		if k == key {
			return true
		}
	}
	return false
}

// AddRepository registers a repository and returns it for rule chaining.
// An existing (name, language) repository is returned instead of added
// twice.
func (d *ServerData) AddRepository(name, language string) *Repository {
	if r := d.FindRepository(name, language); r != nil {
		return r
	}
	r := &Repository{Name: name, Language: language}
	d.Repositories = append(d.Repositories, r)
	return r
}

// FindRepository returns the (name, language) repository, or nil.
func (d *ServerData) FindRepository(name, language string) *Repository {
	for _, r := range d.Repositories {
		if r.Name == name && r.Language == language {
			return r
		}
	}
	return nil
}

// AddProfile registers a quality profile, reusing an existing
// (name, language) one.
func (d *ServerData) AddProfile(name, language string) *QualityProfile {
	if p := d.FindProfile(name, language); p != nil {
		return p
	}
	p := &QualityProfile{Name: name, Language: language}
	d.Profiles = append(d.Profiles, p)
	return p
}

// FindProfile returns the (name, language) profile, or nil.
func (d *ServerData) FindProfile(name, language string) *QualityProfile {
	for _, p := range d.Profiles {
		if p.Name == name && p.Language == language {
			return p
		}
	}
	return nil
}

// ProfileFor returns the first profile of the language that lists the
// project[:branch] identifier, in insertion order, or nil.
func (d *ServerData) ProfileFor(projectKey, branch, language string) *QualityProfile {
	for _, p := range d.Profiles {
		if p.Language == language && p.AppliesTo(projectKey, branch) {
			return p
		}
	}
	return nil
}

// SetProperty records a server-side analysis property.
func (d *ServerData) SetProperty(key, value string) *ServerData {
	if d.Properties == nil {
		d.Properties = map[string]string{}
	}
	d.Properties[key] = value
	return d
}

// AddExport stores a rendered profile export.
func (d *ServerData) AddExport(profile, language, format, content string) *ServerData {
	d.Exports = append(d.Exports, ExportedProfile{
		Profile:  profile,
		Language: language,
		Format:   format,
		Content:  content,
	})
	return d
}

// FindExport returns the stored export content for the triple, if any.
func (d *ServerData) FindExport(profile, language, format string) (string, bool) {
	for _, e := range d.Exports {
		if e.Profile == profile && e.Language == language && e.Format == format {
			return e.Content, true
		}
	}
	return "", false
}

// AddEmbeddedFile stores a plugin's static file.
func (d *ServerData) AddEmbeddedFile(plugin, name string, content []byte) *ServerData {
	d.EmbeddedFiles = append(d.EmbeddedFiles, EmbeddedFile{Plugin: plugin, Name: name, Content: content})
	return d
}

// FindEmbeddedFile returns a plugin file's content, if stored.
func (d *ServerData) FindEmbeddedFile(plugin, name string) ([]byte, bool) {
	for _, f := range d.EmbeddedFiles {
		if f.Plugin == plugin && f.Name == name {
			return f.Content, true
		}
	}
	return nil, false
}
