package configstore

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/sonarprep/sonarprep/internal/domain"
)

// Store persists AnalysisConfig documents as namespaced XML and
// implements domain.ConfigStore.
type Store struct{}

func New() *Store {
	return &Store{}
}

// Save writes the document at path. Values are literal text; only XML
// escaping applies.
func (s *Store) Save(cfg *domain.AnalysisConfig, path string) error {
	if err := domain.RequireNonBlank("path", path); err != nil {
		return err
	}
	body, err := xml.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering analysis config: %w", err)
	}
	doc := append([]byte(xml.Header), body...)
	if err := os.WriteFile(path, doc, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads a document back. Unknown elements and attributes anywhere
// are ignored so newer writers stay readable. os.Open keeps the file
// shared; concurrent loaders must not block each other.
func (s *Store) Load(path string) (*domain.AnalysisConfig, error) {
	if err := domain.RequireNonBlank("path", path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var cfg domain.AnalysisConfig
	if err := xml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	normalize(&cfg)
	return &cfg, nil
}

// normalize replaces nil collections. A reloaded config never exposes a
// nil list even when the document omitted the section.
func normalize(cfg *domain.AnalysisConfig) {
	if cfg.AdditionalConfig == nil {
		cfg.AdditionalConfig = []domain.ConfigSetting{}
	}
	if cfg.ServerSettings == nil {
		cfg.ServerSettings = []domain.Property{}
	}
	if cfg.LocalSettings == nil {
		cfg.LocalSettings = []domain.Property{}
	}
	if cfg.AnalyzerSettings != nil {
		if cfg.AnalyzerSettings.AnalyzerAssemblyPaths == nil {
			cfg.AnalyzerSettings.AnalyzerAssemblyPaths = []string{}
		}
		if cfg.AnalyzerSettings.AdditionalFilePaths == nil {
			cfg.AnalyzerSettings.AdditionalFilePaths = []string{}
		}
	}
}
