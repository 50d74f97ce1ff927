package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	meshErrors "github.com/protechtimenow/repomesh/internal/errors"
	"github.com/protechtimenow/repomesh/internal/health"
	"github.com/protechtimenow/repomesh/internal/mesh"
	"github.com/protechtimenow/repomesh/internal/store"
)

type staticStore struct {
	snapshot *mesh.Snapshot
	err      error
}

func (s *staticStore) Save(_ context.Context, snapshot *mesh.Snapshot) error {
	s.snapshot = snapshot
	return nil
}

func (s *staticStore) Load(context.Context) (*mesh.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

type fakeTrigger struct {
	accepted bool
	calls    int
}

func (f *fakeTrigger) TriggerScan() bool {
	f.calls++
	return f.accepted
}

func testSnapshot() *mesh.Snapshot {
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
		Graph: mesh.Graph{Nodes: []string{"control-plane"}},
		Recommendations: []mesh.Recommendation{
			{Source: "control-plane", Target: "sandbox", Kind: mesh.KindCapabilityInjection, Priority: 180},
			{Source: "control-plane", Target: "scratch", Kind: mesh.KindCapabilityInjection, Priority: 160},
		},
		Summary: mesh.Summary{TotalNodes: 1, TotalMeshWeight: 82},
	}
}

// testApp creates a Fiber app with all routes for testing.
func testApp(t *testing.T, meshStore store.MeshStore, trigger ScanTrigger) *fiber.App {
	t.Helper()
	logger := zerolog.Nop()
	checker := health.NewChecker(logger)
	srv := NewServer(Config{ListenAddr: ":0"}, meshStore, trigger, checker, logger)
	return srv.App()
}

func TestServer_HealthzEndpoint(t *testing.T) {
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, nil)

	req, _ := http.NewRequest("GET", "/healthz", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_GetMesh(t *testing.T) {
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/mesh", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snap mesh.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, mesh.SnapshotStatus, snap.Status)
	assert.Contains(t, snap.Repositories, "control-plane")
}

func TestServer_GetMesh_NoSnapshot(t *testing.T) {
	app := testApp(t, &staticStore{err: meshErrors.ErrNotFound}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/mesh", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var problem ProblemDetail
	json.NewDecoder(resp.Body).Decode(&problem)
	assert.Equal(t, "no_snapshot", problem.Type)
}

func TestServer_GetRepository(t *testing.T) {
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/repositories/control-plane", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var repo mesh.ScoredRepo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&repo))
	assert.Equal(t, 95.0, repo.StrategicValue)
}

func TestServer_GetRepository_Unknown(t *testing.T) {
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/repositories/absent", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var problem ProblemDetail
	json.NewDecoder(resp.Body).Decode(&problem)
	assert.Equal(t, "repository_not_found", problem.Type)
}

func TestServer_ListRecommendations_Limit(t *testing.T) {
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/recommendations?limit=1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Recommendations []mesh.Recommendation `json:"recommendations"`
		Total           int                   `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Recommendations, 1)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 180.0, body.Recommendations[0].Priority)
}

func TestServer_ListRecommendations_NegativeLimit(t *testing.T) {
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/recommendations?limit=-1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_GetSummary(t *testing.T) {
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/summary", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status  string       `json:"status"`
		Summary mesh.Summary `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, mesh.SnapshotStatus, body.Status)
	assert.Equal(t, 82.0, body.Summary.TotalMeshWeight)
}

func TestServer_TriggerScan(t *testing.T) {
	trigger := &fakeTrigger{accepted: true}
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, trigger)

	req, _ := http.NewRequest("POST", "/api/v1/scan", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 1, trigger.calls)
}

func TestServer_TriggerScan_AlreadyRunning(t *testing.T) {
	trigger := &fakeTrigger{accepted: false}
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, trigger)

	req, _ := http.NewRequest("POST", "/api/v1/scan", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestServer_TriggerScan_NoTrigger(t *testing.T) {
	app := testApp(t, &staticStore{snapshot: testSnapshot()}, nil)

	req, _ := http.NewRequest("POST", "/api/v1/scan", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
