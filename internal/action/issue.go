package action

import (
	"context"
	"fmt"
	"strings"

	gogithub "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"

	meshErrors "github.com/protechtimenow/repomesh/internal/errors"
	"github.com/protechtimenow/repomesh/internal/mesh"
)

// issueCreator is the slice of the GitHub issues API the sink needs.
// *github.IssuesService satisfies it.
type issueCreator interface {
	Create(ctx context.Context, owner, repo string, issue *gogithub.IssueRequest) (*gogithub.Issue, *gogithub.Response, error)
}

// IssueSink executes capability-injection recommendations by opening an
// enhancement issue in the target repository.
type IssueSink struct {
	issues issueCreator
	owner  string
	logger zerolog.Logger
}

// NewIssueSink creates a sink posting issues as the given account.
func NewIssueSink(client *gogithub.Client, owner string, logger zerolog.Logger) *IssueSink {
	return newIssueSink(client.Issues, owner, logger)
}

func newIssueSink(issues issueCreator, owner string, logger zerolog.Logger) *IssueSink {
	return &IssueSink{
		issues: issues,
		owner:  owner,
		logger: logger.With().Str("component", "issue-sink").Logger(),
	}
}

// Execute implements Sink. A recommendation with no transferable files is a
// no-op; there is nothing concrete to propose.
func (s *IssueSink) Execute(ctx context.Context, rec mesh.Recommendation) error {
	if len(rec.UsefulFiles) == 0 {
		s.logger.Debug().
			Str("source", rec.Source).
			Str("target", rec.Target).
			Msg("no transferable files, skipping issue")
		return nil
	}

	title := fmt.Sprintf("Autonomous enhancement: inject capabilities from %s", rec.Source)
	body := renderIssueBody(rec)

	_, _, err := s.issues.Create(ctx, s.owner, rec.Target, &gogithub.IssueRequest{
		Title: gogithub.String(title),
		Body:  gogithub.String(body),
	})
	if err != nil {
		return fmt.Errorf("%w: creating issue in %s/%s: %v", meshErrors.ErrActionSink, s.owner, rec.Target, err)
	}

	s.logger.Info().
		Str("source", rec.Source).
		Str("target", rec.Target).
		Float64("priority", rec.Priority).
		Msg("enhancement issue created")
	return nil
}

func renderIssueBody(rec mesh.Recommendation) string {
	var b strings.Builder
	b.WriteString("# Autonomous Enhancement Suggestion\n\n")
	fmt.Fprintf(&b, "## Source: %s\n", rec.Source)
	fmt.Fprintf(&b, "## Target: %s\n\n", rec.Target)
	b.WriteString("### Detected Enhancement Opportunities:\n")
	for _, file := range rec.UsefulFiles {
		fmt.Fprintf(&b, "- `%s`: Utility module ready for integration\n", file)
	}
	b.WriteString("\n### Proposed Actions:\n")
	fmt.Fprintf(&b, "1. **Extract utilities** from `%s/%s`\n", rec.Source, rec.UsefulFiles[0])
	fmt.Fprintf(&b, "2. **Adapt for** `%s` architecture\n", rec.Target)
	b.WriteString("3. **Test integration** with existing codebase\n\n")
	b.WriteString("---\n*Generated by the mesh bridge engine*\n")
	return b.String()
}
