package memserver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sonarprep/sonarprep/internal/domain"
)

// Server answers AnalysisServer queries from a captured ServerData
// snapshot. It backs offline ruleset generation and fixtures in tests,
// and mirrors the web client's argument contract.
type Server struct {
	data *domain.ServerData
}

func New(data *domain.ServerData) *Server {
	return &Server{data: data}
}

func (s *Server) QualityProfile(projectKey, branch, language string) (string, bool, error) {
	if err := domain.RequireNonBlank("projectKey", projectKey, "language", language); err != nil {
		return "", false, err
	}
	p := s.data.ProfileFor(projectKey, branch, language)
	if p == nil {
		return "", false, nil
	}
	return p.Name, true, nil
}

// ActiveRuleKeys returns the profile's active keys that exist in the
// (repository, language) repository, in activation order. Dangling
// references drop out silently.
func (s *Server) ActiveRuleKeys(profileName, language, repository string) ([]string, error) {
	if err := domain.RequireNonBlank("profileName", profileName, "language", language, "repository", repository); err != nil {
		return nil, err
	}
	profile := s.data.FindProfile(profileName, language)
	if profile == nil {
		return []string{}, nil
	}
	repo := s.data.FindRepository(repository, language)
	if repo == nil {
		return []string{}, nil
	}

	keys := make([]string, 0, len(profile.ActiveRules))
	for _, key := range profile.ActiveRules {
		if repo.FindRule(key) == nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// InternalKeys collects "repository:ruleKey" mappings from every
// repository with the given name. The first occurrence of a composite
// key wins.
func (s *Server) InternalKeys(repository string) (map[string]string, error) {
	if err := domain.RequireNonBlank("repository", repository); err != nil {
		return nil, err
	}
	keys := map[string]string{}
	for _, repo := range s.data.Repositories {
		if repo.Name != repository {
			continue
		}
		for _, rule := range repo.Rules {
			if rule.InternalKey == "" {
				continue
			}
			full := repository + ":" + rule.Key
			if _, ok := keys[full]; !ok {
				keys[full] = rule.InternalKey
			}
		}
	}
	return keys, nil
}

func (s *Server) Properties(projectKey, branch string) (map[string]string, error) {
	if err := domain.RequireNonBlank("projectKey", projectKey); err != nil {
		return nil, err
	}
	props := make(map[string]string, len(s.data.Properties)+1)
	for k, v := range s.data.Properties {
		props[k] = v
	}
	if _, ok := props[domain.TestProjectPatternKey]; !ok {
		props[domain.TestProjectPatternKey] = domain.TestProjectPatternDefault
	}
	return props, nil
}

func (s *Server) InstalledPlugins() ([]string, error) {
	return append([]string(nil), s.data.InstalledPlugins...), nil
}

func (s *Server) ProfileExport(profileName, language, format string) (string, bool, error) {
	if err := domain.RequireNonBlank("profileName", profileName, "language", language, "format", format); err != nil {
		return "", false, err
	}
	content, ok := s.data.FindExport(profileName, language, format)
	return content, ok, nil
}

func (s *Server) DownloadEmbeddedFile(pluginKey, fileName, targetDir string) (bool, error) {
	if err := domain.RequireNonBlank("pluginKey", pluginKey, "fileName", fileName, "targetDir", targetDir); err != nil {
		return false, err
	}
	content, ok := s.data.FindEmbeddedFile(pluginKey, fileName)
	if !ok {
		return false, nil
	}
	if err := os.WriteFile(filepath.Join(targetDir, fileName), content, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", fileName, err)
	}
	return true, nil
}
