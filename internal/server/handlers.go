package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	meshErrors "github.com/protechtimenow/repomesh/internal/errors"
	"github.com/protechtimenow/repomesh/internal/health"
	"github.com/protechtimenow/repomesh/internal/mesh"
	"github.com/protechtimenow/repomesh/internal/store"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store     store.MeshStore
	trigger   ScanTrigger
	checker   *health.Checker
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(meshStore store.MeshStore, trigger ScanTrigger, checker *health.Checker, logger zerolog.Logger) *Handlers {
	return &Handlers{
		store:     meshStore,
		trigger:   trigger,
		checker:   checker,
		logger:    logger.With().Str("component", "handlers").Logger(),
		startTime: time.Now(),
	}
}

// Liveness handles GET /healthz.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(h.startTime).String(),
	})
}

// Readiness handles GET /readyz.
func (h *Handlers) Readiness(c *fiber.Ctx) error {
	if h.checker != nil && !h.checker.IsReady(c.Context()) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// loadSnapshot fetches the latest snapshot, mapping first-run absence to 404.
func (h *Handlers) loadSnapshot(c *fiber.Ctx) (*mesh.Snapshot, error) {
	snapshot, err := h.store.Load(c.Context())
	if err != nil {
		if errors.Is(err, meshErrors.ErrNotFound) {
			return nil, problemResponse(c, fiber.StatusNotFound,
				"no_snapshot", "Not Found",
				"No mesh snapshot available yet; trigger a scan first")
		}
		h.logger.Error().Err(err).Msg("loading snapshot failed")
		return nil, problemResponse(c, fiber.StatusInternalServerError,
			"store_error", "Internal Server Error",
			"Failed to load mesh snapshot")
	}
	return snapshot, nil
}

// GetMesh handles GET /api/v1/mesh.
func (h *Handlers) GetMesh(c *fiber.Ctx) error {
	snapshot, err := h.loadSnapshot(c)
	if snapshot == nil {
		return err
	}
	return c.JSON(snapshot)
}

// GetRepository handles GET /api/v1/repositories/:name.
func (h *Handlers) GetRepository(c *fiber.Ctx) error {
	snapshot, err := h.loadSnapshot(c)
	if snapshot == nil {
		return err
	}

	name := c.Params("name")
	repo, ok := snapshot.Repo(name)
	if !ok {
		return problemResponse(c, fiber.StatusNotFound,
			"repository_not_found", "Not Found",
			"Repository not in mesh: "+name)
	}
	return c.JSON(repo)
}

// ListRecommendations handles GET /api/v1/recommendations.
func (h *Handlers) ListRecommendations(c *fiber.Ctx) error {
	snapshot, err := h.loadSnapshot(c)
	if snapshot == nil {
		return err
	}

	limit := c.QueryInt("limit", mesh.TopDisplay)
	if limit < 0 {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_limit", "Bad Request",
			"limit must be non-negative")
	}

	recs := snapshot.Recommendations
	if limit < len(recs) {
		recs = recs[:limit]
	}
	if recs == nil {
		recs = []mesh.Recommendation{}
	}
	return c.JSON(fiber.Map{
		"recommendations": recs,
		"total":           len(snapshot.Recommendations),
	})
}

// GetSummary handles GET /api/v1/summary.
func (h *Handlers) GetSummary(c *fiber.Ctx) error {
	snapshot, err := h.loadSnapshot(c)
	if snapshot == nil {
		return err
	}
	return c.JSON(fiber.Map{
		"timestamp": snapshot.Timestamp,
		"status":    snapshot.Status,
		"summary":   snapshot.Summary,
	})
}

// TriggerScan handles POST /api/v1/scan.
func (h *Handlers) TriggerScan(c *fiber.Ctx) error {
	if h.trigger == nil {
		return problemResponse(c, fiber.StatusServiceUnavailable,
			"scan_unavailable", "Service Unavailable",
			"Scanning is not enabled on this instance")
	}
	if !h.trigger.TriggerScan() {
		return problemResponse(c, fiber.StatusConflict,
			"scan_in_progress", "Conflict",
			"A scan is already running")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "scan scheduled"})
}
