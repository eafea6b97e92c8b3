package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/partscan/internal/history"
)

// historyFile is the ledger file name inside the base directory.
const historyFile = "history.json"

// JSONStore persists the ledger as a single JSON document, the direct
// counterpart of a browser localStorage entry.
type JSONStore struct {
	filePath string
	mu       sync.Mutex
}

// NewJSONStore creates a JSON store under baseDir, creating the
// directory if needed.
func NewJSONStore(baseDir string) (*JSONStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	return &JSONStore{filePath: filepath.Join(baseDir, historyFile)}, nil
}

// Load reads the persisted sequence. A missing file is an empty ledger.
func (s *JSONStore) Load() ([]history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var records []history.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Save writes the full sequence atomically (temp file + rename).
func (s *JSONStore) Save(records []history.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

// Close is a no-op; the JSON store holds no open handles.
func (s *JSONStore) Close() error { return nil }
