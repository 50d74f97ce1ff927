// Package source supplies raw repository metrics to the analyzer. The GitHub
// implementation is the only collaborator that talks to the hosting API;
// rate limits, retries, and fetch parallelism all live here, never in the
// scoring core.
package source

import (
	"context"

	"github.com/protechtimenow/repomesh/internal/mesh"
)

// FetchResult is one batch of repository metrics. Skipped lists repositories
// whose metrics could not be obtained this run; a single failed repository
// never aborts the batch.
type FetchResult struct {
	Metrics []mesh.RepoMetrics
	Skipped []string
}

// Source supplies per-repository metrics and top-level file listings.
type Source interface {
	// FetchMetrics returns metrics for every reachable repository of the
	// configured account.
	FetchMetrics(ctx context.Context) (*FetchResult, error)

	// ListTopLevel returns the names of a repository's top-level entries,
	// used by the useful-file filter on executed recommendations.
	ListTopLevel(ctx context.Context, repo string) ([]string, error)
}
