package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	gogithub "github.com/google/go-github/v60/github"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	meshErrors "github.com/protechtimenow/repomesh/internal/errors"
	"github.com/protechtimenow/repomesh/internal/mesh"
	"github.com/protechtimenow/repomesh/internal/retry"
)

const (
	listingCacheSize = 128
	listingCacheTTL  = 30 * time.Minute
	reposPerPage     = 100
	issuesPerPage    = 100
)

// Options tunes the GitHub source.
type Options struct {
	// RecentCommitLimit bounds the commit timestamps kept for the strategic
	// value recency term.
	RecentCommitLimit int

	// CommitFetchLimit bounds the commit count fetched for the topology
	// weight. The weight term saturates at 15 commits, so one page is
	// usually enough.
	CommitFetchLimit int

	// Concurrency bounds parallel per-repository metric fetches.
	Concurrency int

	Retry retry.Config
}

// DefaultOptions returns the fetch bounds matching the two scoring variants.
func DefaultOptions() Options {
	return Options{
		RecentCommitLimit: 10,
		CommitFetchLimit:  100,
		Concurrency:       5,
		Retry:             retry.DefaultConfig(),
	}
}

// GitHub fetches repository metrics through the GitHub API. Top-level
// listings are cached briefly; they only feed issue bodies and rarely change
// between consecutive runs.
type GitHub struct {
	client   *gogithub.Client
	owner    string
	opts     Options
	listings *expirable.LRU[string, []string]
	logger   zerolog.Logger
}

// NewGitHub creates a GitHub source for one account. client must already be
// authenticated (token transport or App installation client).
func NewGitHub(client *gogithub.Client, owner string, opts Options, logger zerolog.Logger) *GitHub {
	if opts.RecentCommitLimit <= 0 {
		opts.RecentCommitLimit = DefaultOptions().RecentCommitLimit
	}
	if opts.CommitFetchLimit <= 0 {
		opts.CommitFetchLimit = DefaultOptions().CommitFetchLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultOptions().Concurrency
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultConfig()
	}
	return &GitHub{
		client:   client,
		owner:    owner,
		opts:     opts,
		listings: expirable.NewLRU[string, []string](listingCacheSize, nil, listingCacheTTL),
		logger:   logger.With().Str("component", "github-source").Logger(),
	}
}

// NewTokenClient builds a go-github client authenticated with a personal
// access token. An empty token yields an unauthenticated client, which still
// works for public repositories.
func NewTokenClient(token string) *gogithub.Client {
	client := gogithub.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return client
}

// FetchMetrics implements Source. Repositories are fetched concurrently with
// bounded parallelism; per-repository failures are skipped and reported, and
// the result order is deterministic (listing order).
func (g *GitHub) FetchMetrics(ctx context.Context) (*FetchResult, error) {
	repos, err := g.listRepos(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing repositories for %s: %w", g.owner, err)
	}

	results := make([]*mesh.RepoMetrics, len(repos))
	var mu sync.Mutex
	var skipped []string

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(g.opts.Concurrency)

	for i, repo := range repos {
		i, repo := i, repo
		grp.Go(func() error {
			m, fetchErr := g.fetchRepo(grpCtx, repo)
			if fetchErr != nil {
				// Contained: skip this repository, keep the batch alive.
				name := repo.GetName()
				if name == "" {
					name = "(unnamed)"
				}
				g.logger.Warn().Err(fetchErr).Str("repo", name).Msg("skipping repository")
				mu.Lock()
				skipped = append(skipped, name)
				mu.Unlock()
				return nil
			}
			results[i] = m
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	out := &FetchResult{Skipped: skipped}
	sort.Strings(out.Skipped)
	for _, m := range results {
		if m != nil {
			out.Metrics = append(out.Metrics, *m)
		}
	}
	return out, nil
}

// listRepos pages through all repositories owned by the account.
func (g *GitHub) listRepos(ctx context.Context) ([]*gogithub.Repository, error) {
	var all []*gogithub.Repository
	opts := &gogithub.RepositoryListOptions{
		ListOptions: gogithub.ListOptions{PerPage: reposPerPage},
	}
	for {
		var page []*gogithub.Repository
		var resp *gogithub.Response
		err := retry.Do(ctx, g.opts.Retry, func(ctx context.Context) error {
			var listErr error
			page, resp, listErr = g.client.Repositories.List(ctx, g.owner, opts)
			return wrapAPIError(listErr)
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// fetchRepo builds one metrics record. A repository with no usable name or a
// negative size is malformed and treated like any other fetch failure.
func (g *GitHub) fetchRepo(ctx context.Context, repo *gogithub.Repository) (*mesh.RepoMetrics, error) {
	name := repo.GetName()
	if name == "" {
		return nil, &meshErrors.FetchError{Repo: "(unnamed)", Err: meshErrors.ErrMalformedMetric}
	}
	if repo.GetSize() < 0 {
		return nil, &meshErrors.FetchError{Repo: name, Err: meshErrors.ErrMalformedMetric}
	}

	m := &mesh.RepoMetrics{
		Name:            name,
		Size:            repo.GetSize(),
		PrimaryLanguage: repo.GetLanguage(),
		Stars:           repo.GetStargazersCount(),
		Forks:           repo.GetForksCount(),
	}
	if repo.Description != nil {
		desc := repo.GetDescription()
		m.Description = &desc
	}
	if repo.UpdatedAt != nil {
		t := repo.GetUpdatedAt().Time
		m.UpdatedAt = &t
	}

	commits, err := g.fetchCommits(ctx, name)
	if err != nil {
		return nil, &meshErrors.FetchError{Repo: name, Err: err}
	}
	m.CommitCount = len(commits)
	for _, ts := range commits {
		if len(m.RecentCommits) == g.opts.RecentCommitLimit {
			break
		}
		m.RecentCommits = append(m.RecentCommits, ts)
	}

	issues, err := g.countIssues(ctx, name)
	if err != nil {
		return nil, &meshErrors.FetchError{Repo: name, Err: err}
	}
	m.IssueCount = issues

	return m, nil
}

// fetchCommits returns commit timestamps, most-recent-first, bounded by
// CommitFetchLimit.
func (g *GitHub) fetchCommits(ctx context.Context, repo string) ([]time.Time, error) {
	var timestamps []time.Time
	opts := &gogithub.CommitsListOptions{
		ListOptions: gogithub.ListOptions{PerPage: reposPerPage},
	}
	for len(timestamps) < g.opts.CommitFetchLimit {
		var page []*gogithub.RepositoryCommit
		var resp *gogithub.Response
		err := retry.Do(ctx, g.opts.Retry, func(ctx context.Context) error {
			var listErr error
			page, resp, listErr = g.client.Repositories.ListCommits(ctx, g.owner, repo, opts)
			return wrapAPIError(listErr)
		})
		if err != nil {
			// An empty repository returns 409; that is zero commits, not a
			// failure.
			var apiErr *meshErrors.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == 409 {
				return nil, nil
			}
			return nil, err
		}
		for _, c := range page {
			if len(timestamps) == g.opts.CommitFetchLimit {
				break
			}
			timestamps = append(timestamps, c.GetCommit().GetAuthor().GetDate().Time)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return timestamps, nil
}

// countIssues counts issues in any state, bounded to one page. The issue
// weight term saturates long before 100 issues.
func (g *GitHub) countIssues(ctx context.Context, repo string) (int, error) {
	var count int
	err := retry.Do(ctx, g.opts.Retry, func(ctx context.Context) error {
		issues, _, listErr := g.client.Issues.ListByRepo(ctx, g.owner, repo, &gogithub.IssueListByRepoOptions{
			State:       "all",
			ListOptions: gogithub.ListOptions{PerPage: issuesPerPage},
		})
		if listErr != nil {
			return wrapAPIError(listErr)
		}
		count = len(issues)
		return nil
	})
	return count, err
}

// ListTopLevel implements Source, with a short-lived cache per repository.
func (g *GitHub) ListTopLevel(ctx context.Context, repo string) ([]string, error) {
	if cached, ok := g.listings.Get(repo); ok {
		return cached, nil
	}

	var names []string
	err := retry.Do(ctx, g.opts.Retry, func(ctx context.Context) error {
		_, entries, _, listErr := g.client.Repositories.GetContents(ctx, g.owner, repo, "", nil)
		if listErr != nil {
			return wrapAPIError(listErr)
		}
		names = names[:0]
		for _, e := range entries {
			names = append(names, e.GetName())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.listings.Add(repo, names)
	return names, nil
}

// wrapAPIError converts go-github errors into the local APIError type so the
// retry layer can classify them.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return &meshErrors.APIError{Service: "github", StatusCode: 429, Message: rateErr.Message, Err: err}
	}
	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return &meshErrors.APIError{
			Service:    "github",
			StatusCode: respErr.Response.StatusCode,
			Message:    respErr.Message,
			Err:        err,
		}
	}
	return err
}
