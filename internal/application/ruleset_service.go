package application

import (
	"errors"
	"fmt"
	"os"

	"github.com/sonarprep/sonarprep/internal/domain"
	"github.com/sonarprep/sonarprep/internal/logging"
)

// RulesetService generates analyzer ruleset files from server rule data.
//
// Generation is all-or-nothing per ruleset: when any precondition fails
// the output file is removed and no error is reported. Consumers read
// the absence of the file as "this analyzer does not apply".
type RulesetService struct {
	writer domain.RulesetWriter
}

func NewRulesetService(writer domain.RulesetWriter) *RulesetService {
	return &RulesetService{writer: writer}
}

// Generate produces the ruleset for one plugin/language/repository
// combination and reports whether a file was written.
func (s *RulesetService) Generate(
	server domain.AnalysisServer,
	spec domain.RulesetSpec,
	projectKey, branch, outputPath string,
) (bool, error) {
	if err := domain.RequireNonBlank(
		"projectKey", projectKey,
		"outputPath", outputPath,
		"plugin", spec.PluginKey,
		"language", spec.Language,
		"repository", spec.Repository,
	); err != nil {
		return false, err
	}

	// 1. The plugin must be installed on the server.
	plugins, err := server.InstalledPlugins()
	if err != nil {
		return false, fmt.Errorf("listing plugins: %w", err)
	}
	if !containsString(plugins, spec.PluginKey) {
		logging.Debug("plugin not installed, skipping ruleset", "plugin", spec.PluginKey)
		return false, removeStale(outputPath)
	}

	// 2. A quality profile must resolve for the project and language.
	profileName, found, err := server.QualityProfile(projectKey, branch, spec.Language)
	if err != nil {
		return false, fmt.Errorf("resolving quality profile: %w", err)
	}
	if !found {
		logging.Debug("no quality profile, skipping ruleset",
			"project", projectKey, "language", spec.Language)
		return false, removeStale(outputPath)
	}

	// 3. The profile must activate rules in the analyzer repository.
	keys, err := server.ActiveRuleKeys(profileName, spec.Language, spec.Repository)
	if err != nil {
		return false, fmt.Errorf("fetching active rules: %w", err)
	}
	if len(keys) == 0 {
		logging.Debug("no active rules, skipping ruleset",
			"profile", profileName, "repository", spec.Repository)
		return false, removeStale(outputPath)
	}

	// 4. Plugin-internal identifiers replace the server keys where the
	// repository defines them.
	internal, err := server.InternalKeys(spec.Repository)
	if err != nil {
		return false, fmt.Errorf("fetching internal keys: %w", err)
	}
	ids := make([]string, len(keys))
	for i, key := range keys {
		if mapped, ok := internal[spec.Repository+":"+key]; ok {
			ids[i] = mapped
		} else {
			ids[i] = key
		}
	}

	// 5. Write the ruleset file.
	if err := s.writer.Write(outputPath, ids); err != nil {
		return false, fmt.Errorf("writing ruleset: %w", err)
	}

	logging.Debug("wrote ruleset", "path", outputPath, "rules", len(ids))
	return true, nil
}

// removeStale deletes a leftover ruleset from an earlier run so a skipped
// generation never leaves a misleading file behind.
func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale ruleset: %w", err)
	}
	return nil
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
