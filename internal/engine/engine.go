// Package engine orchestrates one full mesh analysis run: fetch, score,
// build topology, recommend, persist, act, notify.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/protechtimenow/repomesh/internal/action"
	"github.com/protechtimenow/repomesh/internal/mesh"
	"github.com/protechtimenow/repomesh/internal/metrics"
	"github.com/protechtimenow/repomesh/internal/notify"
	"github.com/protechtimenow/repomesh/internal/source"
	"github.com/protechtimenow/repomesh/internal/store"
)

// RunHistory records completed runs. *store.History satisfies it.
type RunHistory interface {
	RecordRun(ctx context.Context, snapshot *mesh.Snapshot) (string, error)
}

// Analyzer wires the collaborators of one mesh engine instance. All fields
// are set at construction and never mutated.
type Analyzer struct {
	source         source.Source
	store          store.MeshStore
	history        RunHistory
	sink           action.Sink
	notifier       notify.Notifier
	metrics        *metrics.Metrics
	rules          mesh.RuleSet
	executeActions bool
	logger         zerolog.Logger
}

// Options configures optional collaborators. Zero values disable the
// corresponding side effect.
type Options struct {
	History        RunHistory
	Sink           action.Sink
	Notifier       notify.Notifier
	Metrics        *metrics.Metrics
	ExecuteActions bool
}

// New creates an analyzer. source and meshStore are required; everything in
// opts is optional.
func New(src source.Source, meshStore store.MeshStore, rules mesh.RuleSet, opts Options, logger zerolog.Logger) *Analyzer {
	if opts.Sink == nil {
		opts.Sink = action.NopSink{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NopNotifier{}
	}
	return &Analyzer{
		source:         src,
		store:          meshStore,
		history:        opts.History,
		sink:           opts.Sink,
		notifier:       opts.Notifier,
		metrics:        opts.Metrics,
		rules:          rules,
		executeActions: opts.ExecuteActions,
		logger:         logger.With().Str("component", "engine").Logger(),
	}
}

// Run executes one full analysis pass and returns the snapshot it produced.
// Per-repository fetch failures are skipped; a snapshot store failure aborts
// the run. Action and notification failures are contained and logged.
func (a *Analyzer) Run(ctx context.Context, now time.Time) (*mesh.Snapshot, error) {
	start := time.Now()
	snapshot, err := a.run(ctx, now)
	if a.metrics != nil {
		status := "success"
		if err != nil {
			status = "failure"
		}
		a.metrics.RecordRun(status, time.Since(start).Seconds())
	}
	return snapshot, err
}

func (a *Analyzer) run(ctx context.Context, now time.Time) (*mesh.Snapshot, error) {
	a.logger.Info().Msg("starting mesh analysis")

	result, err := a.source.FetchMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching repository metrics: %w", err)
	}
	a.logger.Info().
		Int("fetched", len(result.Metrics)).
		Int("skipped", len(result.Skipped)).
		Msg("metrics fetched")

	scored := mesh.ScoreAll(result.Metrics, a.rules, now)
	graph := mesh.BuildGraph(scored)
	recommendations := mesh.Recommend(scored, a.rules)
	summary := mesh.Summarize(scored, len(result.Skipped))

	for _, name := range mesh.DormantLogic(scored) {
		a.logger.Info().Str("repo", name).Msg("dormant repository with untapped capacity")
	}

	repositories := make(map[string]*mesh.ScoredRepo, len(scored))
	for _, r := range scored {
		repositories[r.Name()] = r
	}

	snapshot := &mesh.Snapshot{
		Timestamp:       now,
		Status:          mesh.SnapshotStatus,
		Repositories:    repositories,
		Graph:           graph,
		Recommendations: recommendations,
		Summary:         summary,
	}

	// Store failure is fatal: a run whose output cannot be persisted did not
	// happen.
	if err := a.store.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}

	if a.history != nil {
		if _, err := a.history.RecordRun(ctx, snapshot); err != nil {
			a.logger.Error().Err(err).Msg("recording run history failed")
		}
	}

	if a.executeActions {
		a.executeTop(ctx, snapshot)
	}

	if a.metrics != nil {
		a.metrics.SetSnapshotStats(len(scored), len(result.Skipped), len(recommendations), summary.TotalMeshWeight)
	}

	if err := a.notifier.NotifyRun(ctx, snapshot); err != nil {
		a.logger.Error().Err(err).Msg("run notification failed")
	}

	a.logger.Info().
		Int("nodes", summary.TotalNodes).
		Int("edges", len(graph.Edges)).
		Int("recommendations", len(recommendations)).
		Float64("total_weight", summary.TotalMeshWeight).
		Msg("mesh analysis complete")
	return snapshot, nil
}

// executeTop hands the highest-priority recommendations to the sink. Each
// execution failure is contained; one bad bridge never blocks the rest.
func (a *Analyzer) executeTop(ctx context.Context, snapshot *mesh.Snapshot) {
	for i := range snapshot.Recommendations {
		if i == mesh.TopExecute {
			break
		}
		rec := &snapshot.Recommendations[i]

		listing, err := a.source.ListTopLevel(ctx, rec.Source)
		if err != nil {
			a.logger.Warn().Err(err).
				Str("source", rec.Source).
				Msg("listing source contents failed, executing without file hints")
		}
		rec.UsefulFiles = mesh.UsefulFiles(listing, a.rules)

		if err := a.sink.Execute(ctx, *rec); err != nil {
			a.logger.Error().Err(err).
				Str("source", rec.Source).
				Str("target", rec.Target).
				Msg("recommendation execution failed")
			if a.metrics != nil {
				a.metrics.RecordAction("failure")
			}
			continue
		}
		a.logger.Info().
			Str("source", rec.Source).
			Str("target", rec.Target).
			Msg("recommendation executed")
		if a.metrics != nil {
			a.metrics.RecordAction("success")
		}
	}
}
