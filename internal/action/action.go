// Package action executes bridge recommendations against external systems.
package action

import (
	"context"

	"github.com/protechtimenow/repomesh/internal/mesh"
)

// Sink carries out one recommendation. Implementations must be safe for
// concurrent use.
type Sink interface {
	Execute(ctx context.Context, rec mesh.Recommendation) error
}

// NopSink discards recommendations. Used when action execution is disabled.
type NopSink struct{}

func (NopSink) Execute(context.Context, mesh.Recommendation) error { return nil }
