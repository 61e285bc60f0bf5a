package snapshotcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sonarprep/sonarprep/internal/domain"
)

// Snapshot wraps captured server data with its provenance.
type Snapshot struct {
	ServerURL  string             `json:"server_url"`
	CapturedAt time.Time          `json:"captured_at"`
	Data       *domain.ServerData `json:"data"`
}

// Store is a file-based snapshot store under the project directory.
type Store struct{}

// New creates a new file-based snapshot store.
func New() *Store {
	return &Store{}
}

// Load reads the project's snapshot from disk. Returns (nil, nil) if no
// snapshot exists.
func (s *Store) Load(projectPath string) (*Snapshot, error) {
	data, err := os.ReadFile(snapshotPath(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no snapshot is not an error
		}
		return nil, err
	}
	return decode(data)
}

// LoadFile reads a snapshot from an explicit path. A missing file is an
// error here: the caller asked for that exact file.
func (s *Store) LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return decode(data)
}

// Save writes a snapshot to disk, creating directories as needed.
func (s *Store) Save(projectPath string, snap *Snapshot) error {
	if err := os.MkdirAll(cacheDir(projectPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(snapshotPath(projectPath), data, 0644)
}

// Invalidate removes the snapshot file for the given project path.
func (s *Store) Invalidate(projectPath string) error {
	if err := os.Remove(snapshotPath(projectPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func decode(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func cacheDir(projectPath string) string {
	return filepath.Join(projectPath, ".sonarprep", "cache")
}

func snapshotPath(projectPath string) string {
	return filepath.Join(projectPath, ".sonarprep", "cache", "server.json")
}
