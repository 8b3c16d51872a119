// Package store keeps the local quick-save copy of the map document. The
// snapshot is opaque JSON; every save overwrites the previous one.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Key names the quick-save slot.
const Key = "map-builder-config"

// ErrEmpty is returned by Load when nothing has been saved yet.
var ErrEmpty = errors.New("no saved map")

// FileStore writes the snapshot to a JSON file under a data directory.
type FileStore struct {
	dataDir string
}

// NewFileStore creates a file store rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dataDir: dataDir}
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dataDir, Key+".json")
}

// Save overwrites the snapshot.
func (s *FileStore) Save(_ context.Context, data []byte) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path())
}

// Load returns the snapshot.
func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// SavedAt returns the modification time of the snapshot file.
func (s *FileStore) SavedAt(_ context.Context) (time.Time, error) {
	fi, err := os.Stat(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, ErrEmpty
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("stat snapshot: %w", err)
	}
	return fi.ModTime(), nil
}
