package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/protechtimenow/repomesh/internal/mesh"
)

// RunRecord is one completed analysis run.
type RunRecord struct {
	ID              string
	Timestamp       time.Time
	TotalNodes      int
	Skipped         int
	TotalMeshWeight float64
	Recommendations []mesh.Recommendation
}

// History keeps an append-only log of analysis runs in SQLite.
type History struct {
	db     *sql.DB
	logger zerolog.Logger
	mu     sync.RWMutex
}

// NewHistory opens (or creates) the run history database and runs migrations.
func NewHistory(dbPath string, logger zerolog.Logger) (*History, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	h := &History{
		db:     db,
		logger: logger.With().Str("component", "history").Logger(),
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return h, nil
}

func (h *History) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		total_nodes INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		total_mesh_weight REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);

	CREATE TABLE IF NOT EXISTS run_recommendations (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		kind TEXT NOT NULL,
		priority REAL NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("creating run tables: %w", err)
	}
	return nil
}

// RecordRun appends one run and its recommendations.
func (h *History) RecordRun(ctx context.Context, snapshot *mesh.Snapshot) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, timestamp, total_nodes, skipped, total_mesh_weight) VALUES (?, ?, ?, ?, ?)`,
		id,
		snapshot.Timestamp.Unix(),
		snapshot.Summary.TotalNodes,
		snapshot.Summary.SkippedRepositories,
		snapshot.Summary.TotalMeshWeight,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for i, rec := range snapshot.Recommendations {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_recommendations (run_id, position, source, target, kind, priority) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, rec.Source, rec.Target, string(rec.Kind), rec.Priority,
		)
		if err != nil {
			return "", fmt.Errorf("inserting recommendation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}

	h.logger.Debug().Str("run_id", id).Int("recommendations", len(snapshot.Recommendations)).Msg("run recorded")
	return id, nil
}

// RecentRuns returns the newest n runs, most recent first, with their
// recommendations in recorded order.
func (h *History) RecentRuns(ctx context.Context, n int) ([]RunRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rows, err := h.db.QueryContext(ctx,
		`SELECT id, timestamp, total_nodes, skipped, total_mesh_weight FROM runs ORDER BY timestamp DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var ts int64
		if err := rows.Scan(&r.ID, &ts, &r.TotalNodes, &r.Skipped, &r.TotalMeshWeight); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Timestamp = time.Unix(ts, 0).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		recs, err := h.runRecommendations(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Recommendations = recs
	}
	return runs, nil
}

func (h *History) runRecommendations(ctx context.Context, runID string) ([]mesh.Recommendation, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT source, target, kind, priority FROM run_recommendations WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations: %w", err)
	}
	defer rows.Close()

	var recs []mesh.Recommendation
	for rows.Next() {
		var rec mesh.Recommendation
		var kind string
		if err := rows.Scan(&rec.Source, &rec.Target, &kind, &rec.Priority); err != nil {
			return nil, fmt.Errorf("scanning recommendation: %w", err)
		}
		rec.Kind = mesh.ActionKind(kind)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close closes the database connection.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}
