package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	meshErrors "github.com/protechtimenow/repomesh/internal/errors"
	"github.com/protechtimenow/repomesh/internal/mesh"
)

func snapshotFixture() *mesh.Snapshot {
	return &mesh.Snapshot{
		Timestamp: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		Status:    mesh.SnapshotStatus,
		Repositories: map[string]*mesh.ScoredRepo{
			"control-plane": {
				Metrics:        &mesh.RepoMetrics{Name: "control-plane", Size: 250},
				StrategicValue: 95,
				MeshWeight:     82,
			},
		},
		Graph: mesh.Graph{
			Nodes: []string{"control-plane"},
		},
		Recommendations: []mesh.Recommendation{
			{Source: "control-plane", Target: "sandbox", Kind: mesh.KindCapabilityInjection, Priority: 172},
		},
		Summary: mesh.Summary{TotalNodes: 1, TotalMeshWeight: 82},
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh_map.json")
	s := NewFileStore(path, zerolog.Nop())
	ctx := context.Background()

	want := snapshotFixture()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Timestamp, got.Timestamp)
	require.Contains(t, got.Repositories, "control-plane")
	assert.Equal(t, 95.0, got.Repositories["control-plane"].StrategicValue)
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, 172.0, got.Recommendations[0].Priority)
}

func TestFileStore_SaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh_map.json")
	s := NewFileStore(path, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, snapshotFixture()))

	second := snapshotFixture()
	second.Summary.TotalNodes = 9
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Summary.TotalNodes)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_LoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.json"), zerolog.Nop())
	_, err := s.Load(context.Background())
	assert.True(t, errors.Is(err, meshErrors.ErrNotFound))
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh_map.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path, zerolog.Nop())
	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, meshErrors.ErrStore))
}

func TestFileStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "mesh_map.json")
	s := NewFileStore(path, zerolog.Nop())
	require.NoError(t, s.Save(context.Background(), snapshotFixture()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
