package application

import (
	"fmt"

	"github.com/sonarprep/sonarprep/internal/domain"
	"github.com/sonarprep/sonarprep/internal/logging"
)

// SnapshotService captures live server state into a ServerData record
// that later runs can generate rulesets from without network access.
type SnapshotService struct{}

func NewSnapshotService() *SnapshotService {
	return &SnapshotService{}
}

// CaptureOptions name what one snapshot covers.
type CaptureOptions struct {
	ProjectKey string
	Branch     string
	Rulesets   []domain.RulesetSpec
}

// Capture queries everything an offline run needs: installed plugins,
// project properties, and per configured analyzer pair the resolved
// profile with its active rules and the repository rule metadata.
func (s *SnapshotService) Capture(server domain.AnalysisServer, opts CaptureOptions) (*domain.ServerData, error) {
	if err := domain.RequireNonBlank("projectKey", opts.ProjectKey); err != nil {
		return nil, err
	}

	specs := opts.Rulesets
	if len(specs) == 0 {
		specs = domain.DefaultRulesetSpecs()
	}

	data := domain.NewServerData()

	// 1. Installed plugins.
	plugins, err := server.InstalledPlugins()
	if err != nil {
		return nil, fmt.Errorf("listing plugins: %w", err)
	}
	for _, p := range plugins {
		data.AddPlugin(p)
	}

	// 2. Project-scoped properties.
	props, err := server.Properties(opts.ProjectKey, opts.Branch)
	if err != nil {
		return nil, fmt.Errorf("fetching properties: %w", err)
	}
	for key, value := range props {
		data.SetProperty(key, value)
	}

	// 3. Per analyzer pair: profile, active rules, rule metadata.
	// Languages without a profile are left out of the snapshot, matching
	// how a live run would skip them.
	for _, spec := range specs {
		name, found, err := server.QualityProfile(opts.ProjectKey, opts.Branch, spec.Language)
		if err != nil {
			return nil, fmt.Errorf("resolving %s profile: %w", spec.Language, err)
		}
		if !found {
			logging.Debug("no profile for language, skipping", "language", spec.Language)
			continue
		}

		keys, err := server.ActiveRuleKeys(name, spec.Language, spec.Repository)
		if err != nil {
			return nil, fmt.Errorf("fetching active rules: %w", err)
		}
		internal, err := server.InternalKeys(spec.Repository)
		if err != nil {
			return nil, fmt.Errorf("fetching internal keys: %w", err)
		}

		profile := data.AddProfile(name, spec.Language)
		profile.AddProject(opts.ProjectKey, opts.Branch)
		repo := data.AddRepository(spec.Repository, spec.Language)
		for _, key := range keys {
			repo.AddRule(key, internal[spec.Repository+":"+key])
			profile.ActivateRule(key)
		}
	}

	return data, nil
}
