// Package store persists mesh snapshots and run history.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	meshErrors "github.com/protechtimenow/repomesh/internal/errors"
	"github.com/protechtimenow/repomesh/internal/mesh"
)

// MeshStore persists the latest snapshot.
type MeshStore interface {
	Save(ctx context.Context, snapshot *mesh.Snapshot) error
	Load(ctx context.Context) (*mesh.Snapshot, error)
}

// FileStore writes the snapshot to a JSON file. Saves are atomic: the
// snapshot is written to a temp file in the same directory and renamed over
// the previous one.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a file-backed snapshot store.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "file-store").Logger(),
	}
}

// Save implements MeshStore.
func (s *FileStore) Save(_ context.Context, snapshot *mesh.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding snapshot: %v", meshErrors.ErrStore, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating snapshot directory: %v", meshErrors.ErrStore, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", meshErrors.ErrStore, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing snapshot: %v", meshErrors.ErrStore, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing temp file: %v", meshErrors.ErrStore, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: replacing snapshot: %v", meshErrors.ErrStore, err)
	}

	s.logger.Debug().Str("path", s.path).Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}

// Load implements MeshStore. A missing file returns ErrNotFound so callers
// can distinguish first-run from corruption.
func (s *FileStore) Load(_ context.Context) (*mesh.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, meshErrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: reading snapshot: %v", meshErrors.ErrStore, err)
	}

	var snapshot mesh.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: decoding snapshot: %v", meshErrors.ErrStore, err)
	}
	return &snapshot, nil
}
