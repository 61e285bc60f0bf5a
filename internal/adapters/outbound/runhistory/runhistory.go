package runhistory

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sonarprep/sonarprep/internal/domain"
)

const historyFile = ".sonarprep/history/runs.json"

// FileHistory keeps the preprocess run log as a JSON file under the
// project directory.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Append adds a run record to the project's history.
func (h *FileHistory) Append(projectPath string, rec domain.RunRecord) error {
	records, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	records = append(records, rec)

	fp := filepath.Join(projectPath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fp, data, 0644)
}

// Load returns all recorded runs, oldest first. A project without
// history yields nil.
func (h *FileHistory) Load(projectPath string) ([]domain.RunRecord, error) {
	fp := filepath.Join(projectPath, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []domain.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	return records, nil
}
