package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/protechtimenow/repomesh/internal/config"
	meshErrors "github.com/protechtimenow/repomesh/internal/errors"
	"github.com/protechtimenow/repomesh/internal/mesh"
	"github.com/protechtimenow/repomesh/internal/store"
)

// loadConfig reads environment configuration, letting the --snapshot flag
// override the snapshot location.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagSnapshot != "" {
		cfg.SnapshotPath = flagSnapshot
	}
	return cfg, nil
}

// loadSnapshot reads the latest snapshot from disk.
func loadSnapshot(ctx context.Context, cfg *config.Config) (*mesh.Snapshot, error) {
	fileStore := store.NewFileStore(cfg.SnapshotPath, zerolog.Nop())
	snapshot, err := fileStore.Load(ctx)
	if err != nil {
		if errors.Is(err, meshErrors.ErrNotFound) {
			return nil, fmt.Errorf("no snapshot at %s; run 'meshctl scan' first", cfg.SnapshotPath)
		}
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return snapshot, nil
}
