package domain

// Downloader fetches raw payloads from the server. The tolerant variants
// report a not-found response as an explicit outcome instead of an error
// so callers can fall back.
type Downloader interface {
	// Download returns the response body or fails.
	Download(url string) (string, error)
	// DownloadIfExists returns found=false on a not-found response and
	// errors only on other failures.
	DownloadIfExists(url string) (contents string, found bool, err error)
	// DownloadFileIfExists streams the body to filePath. Nothing is
	// written on a not-found response.
	DownloadFileIfExists(url, filePath string) (found bool, err error)
}

// AnalysisServer answers the quality-server queries the preprocessor
// makes. Implementations validate required arguments and fail with
// ErrInvalidArgument before any I/O.
type AnalysisServer interface {
	// QualityProfile resolves the profile for a project, branch and
	// language. found=false means no profile applies; that is not an
	// error.
	QualityProfile(projectKey, branch, language string) (name string, found bool, err error)
	// ActiveRuleKeys lists the identifiers of the profile's active rules
	// in the given repository, in server order.
	ActiveRuleKeys(profileName, language, repository string) ([]string, error)
	// InternalKeys maps "repository:ruleKey" composites to plugin-internal
	// identifiers. Rules without an internal key are absent from the map.
	InternalKeys(repository string) (map[string]string, error)
	// Properties returns project-scoped analysis settings.
	Properties(projectKey, branch string) (map[string]string, error)
	// InstalledPlugins lists installed plugin keys in server order.
	InstalledPlugins() ([]string, error)
	// ProfileExport fetches a rendered profile in the given format.
	ProfileExport(profileName, language, format string) (content string, found bool, err error)
	// DownloadEmbeddedFile saves a plugin's static file into targetDir.
	DownloadEmbeddedFile(pluginKey, fileName, targetDir string) (found bool, err error)
}

// RulesetWriter persists a rule-identifier list in the format the
// downstream analyzer consumes.
type RulesetWriter interface {
	Write(path string, ruleIDs []string) error
}

// ConfigStore saves and loads the analysis configuration document.
type ConfigStore interface {
	Save(cfg *AnalysisConfig, path string) error
	Load(path string) (*AnalysisConfig, error)
}
