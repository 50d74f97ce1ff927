// Package notify delivers run summaries to chat channels.
package notify

import (
	"context"

	"github.com/protechtimenow/repomesh/internal/mesh"
)

// Notifier announces the outcome of an analysis run.
type Notifier interface {
	NotifyRun(ctx context.Context, snapshot *mesh.Snapshot) error
}

// NopNotifier discards notifications. Used when no channel is configured.
type NopNotifier struct{}

func (NopNotifier) NotifyRun(context.Context, *mesh.Snapshot) error { return nil }
