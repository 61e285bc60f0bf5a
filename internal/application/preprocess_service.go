package application

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sonarprep/sonarprep/internal/domain"
	"github.com/sonarprep/sonarprep/internal/logging"
)

// BranchPropertyKey is the local setting the analysis branch travels
// under when one is set.
const BranchPropertyKey = "sonar.branch"

// PreprocessService drives one analysis-setup run:
// fetch settings → generate rulesets → fetch embedded files → write config.
type PreprocessService struct {
	server   domain.AnalysisServer
	rulesets *RulesetService
	store    domain.ConfigStore
}

func NewPreprocessService(
	server domain.AnalysisServer,
	rulesets *RulesetService,
	store domain.ConfigStore,
) *PreprocessService {
	return &PreprocessService{
		server:   server,
		rulesets: rulesets,
		store:    store,
	}
}

// Run performs one preprocessing run and reports what it produced.
func (s *PreprocessService) Run(opts domain.PreprocessOptions) (*domain.PreprocessResult, error) {
	if err := domain.RequireNonBlank(
		"projectKey", opts.ProjectKey,
		"configDir", opts.ConfigDir,
		"outputDir", opts.OutputDir,
	); err != nil {
		return nil, err
	}

	// 1. The config and output directories must exist before anything is
	// written into them.
	for _, dir := range []string{opts.ConfigDir, opts.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	// 2. Project-scoped server settings.
	props, err := s.server.Properties(opts.ProjectKey, opts.Branch)
	if err != nil {
		return nil, fmt.Errorf("fetching properties: %w", err)
	}

	// 3. One ruleset per configured analyzer pair. Skipped pairs are part
	// of a normal run, not errors.
	specs := opts.Rulesets
	if len(specs) == 0 {
		specs = domain.DefaultRulesetSpecs()
	}
	outcomes := make([]domain.RulesetOutcome, 0, len(specs))
	for _, spec := range specs {
		path := filepath.Join(opts.ConfigDir, spec.FileName)
		written, err := s.rulesets.Generate(s.server, spec, opts.ProjectKey, opts.Branch, path)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", spec.FileName, err)
		}
		outcome := domain.RulesetOutcome{Spec: spec, Written: written}
		if written {
			outcome.Path = path
		}
		outcomes = append(outcomes, outcome)
	}

	// 4. Optional embedded plugin files. Files the server does not carry
	// are skipped.
	var fetched []string
	for _, req := range opts.EmbeddedFiles {
		found, err := s.server.DownloadEmbeddedFile(req.Plugin, req.File, opts.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("fetching %s/%s: %w", req.Plugin, req.File, err)
		}
		if !found {
			logging.Debug("embedded file not on server", "plugin", req.Plugin, "file", req.File)
			continue
		}
		fetched = append(fetched, req.File)
	}

	// 5. Assemble and save the analysis configuration.
	cfg := buildConfig(opts, props, outcomes)
	configPath := filepath.Join(opts.ConfigDir, domain.ConfigFileName)
	if err := s.store.Save(cfg, configPath); err != nil {
		return nil, fmt.Errorf("saving analysis config: %w", err)
	}

	return &domain.PreprocessResult{
		ProjectKey:       opts.ProjectKey,
		Branch:           opts.Branch,
		ConfigPath:       configPath,
		Rulesets:         outcomes,
		ServerProperties: len(props),
		FetchedFiles:     fetched,
		Timestamp:        time.Now(),
	}, nil
}

// buildConfig maps run options and server state onto the configuration
// document. Settings are written in sorted key order so reruns produce
// identical documents.
func buildConfig(
	opts domain.PreprocessOptions,
	serverProps map[string]string,
	outcomes []domain.RulesetOutcome,
) *domain.AnalysisConfig {
	cfg := &domain.AnalysisConfig{
		SonarConfigDir:      opts.ConfigDir,
		SonarOutputDir:      opts.OutputDir,
		SonarProjectKey:     opts.ProjectKey,
		SonarProjectName:    opts.ProjectName,
		SonarProjectVersion: opts.ProjectVersion,
		AdditionalConfig:    []domain.ConfigSetting{},
		ServerSettings:      make([]domain.Property, 0, len(serverProps)),
		LocalSettings:       make([]domain.Property, 0, len(opts.LocalProperties)+1),
	}

	for _, name := range sortedKeys(serverProps) {
		cfg.ServerSettings = append(cfg.ServerSettings, domain.Property{Name: name, Value: serverProps[name]})
	}

	local := opts.LocalProperties
	if opts.Branch != "" {
		if _, set := local[BranchPropertyKey]; !set {
			withBranch := make(map[string]string, len(local)+1)
			for k, v := range local {
				withBranch[k] = v
			}
			withBranch[BranchPropertyKey] = opts.Branch
			local = withBranch
		}
	}
	for _, name := range sortedKeys(local) {
		cfg.LocalSettings = append(cfg.LocalSettings, domain.Property{Name: name, Value: local[name]})
	}

	// The first written ruleset anchors the analyzer settings. Nothing
	// written leaves the section out entirely.
	for _, outcome := range outcomes {
		if outcome.Written {
			cfg.AnalyzerSettings = &domain.AnalyzerSettings{
				RulesetPath:           outcome.Path,
				AnalyzerAssemblyPaths: []string{},
				AdditionalFilePaths:   []string{},
			}
			break
		}
	}

	return cfg
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
