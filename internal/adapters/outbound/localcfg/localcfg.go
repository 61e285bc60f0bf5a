// Package localcfg reads project and user-wide configuration files.
//
// A project keeps its settings in sonarprep.yaml at the repository root.
// The server address can also live in a per-user fallback file under the
// XDG config home, so a machine-wide server needs to be spelled only once.
package localcfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/sonarprep/sonarprep/internal/domain"
	"github.com/sonarprep/sonarprep/internal/logging"
)

const (
	fileName  = "sonarprep.yaml"
	appName   = "sonarprep"
	globalCfg = "config.yaml"
)

// Loader reads sonarprep.yaml files.
type Loader struct{}

// New creates a configuration loader.
func New() *Loader {
	return &Loader{}
}

// Load reads sonarprep.yaml from the project root. A missing file yields
// zero settings, not an error.
func (l *Loader) Load(projectPath string) (domain.ProjectSettings, error) {
	path := filepath.Join(projectPath, fileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("no project settings file", "path", path)
			return domain.ProjectSettings{}, nil
		}
		return domain.ProjectSettings{}, fmt.Errorf("reading %s: %w", fileName, err)
	}

	var settings domain.ProjectSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return domain.ProjectSettings{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	if err := settings.Validate(); err != nil {
		return domain.ProjectSettings{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	logging.Debug("loaded project settings", "path", path)
	return settings, nil
}

// GlobalPath returns the per-user fallback file location.
func GlobalPath() string {
	return filepath.Join(xdg.ConfigHome, appName, globalCfg)
}

// LoadGlobal reads the per-user fallback. A missing file yields zero
// settings, not an error.
func (l *Loader) LoadGlobal() (domain.GlobalSettings, error) {
	path := GlobalPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.GlobalSettings{}, nil
		}
		return domain.GlobalSettings{}, fmt.Errorf("reading global settings: %w", err)
	}

	var settings domain.GlobalSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return domain.GlobalSettings{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return settings, nil
}

// SaveGlobal writes the per-user fallback, creating its directory when
// needed. The file is user-readable only.
func (l *Loader) SaveGlobal(settings domain.GlobalSettings) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding global settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing global settings: %w", err)
	}

	logging.Debug("saved global settings", "path", path)
	return nil
}
