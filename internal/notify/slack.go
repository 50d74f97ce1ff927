package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"

	"github.com/protechtimenow/repomesh/internal/mesh"
)

// SlackAPI is the minimal Slack API surface needed by the notifier.
type SlackAPI interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts a run summary to one channel.
type SlackNotifier struct {
	api     SlackAPI
	channel string
	logger  zerolog.Logger
}

// NewSlackNotifier creates a notifier posting to the given channel ID.
func NewSlackNotifier(api SlackAPI, channel string, logger zerolog.Logger) *SlackNotifier {
	return &SlackNotifier{
		api:     api,
		channel: channel,
		logger:  logger.With().Str("component", "slack-notifier").Logger(),
	}
}

// NotifyRun implements Notifier.
func (n *SlackNotifier) NotifyRun(ctx context.Context, snapshot *mesh.Snapshot) error {
	text := formatRunSummary(snapshot)
	_, ts, err := n.api.PostMessage(n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("posting run summary: %w", err)
	}
	n.logger.Debug().Str("ts", ts).Msg("run summary posted")
	return nil
}

func formatRunSummary(snapshot *mesh.Snapshot) string {
	s := snapshot.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "*Mesh analysis complete* (%s)\n", snapshot.Timestamp.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Nodes: %d analyzed, %d skipped\n", s.TotalNodes, s.SkippedRepositories)
	fmt.Fprintf(&b, "Active: %d | Dormant: %d\n", s.ActiveNodes, s.DormantNodes)
	fmt.Fprintf(&b, "High-value: %d | Bridge potential: %d\n", s.HighValueNodes, s.BridgePotential)
	fmt.Fprintf(&b, "Total mesh weight: %.1f\n", s.TotalMeshWeight)

	if len(snapshot.Recommendations) > 0 {
		b.WriteString("\nTop bridge recommendations:\n")
		for i, rec := range snapshot.Recommendations {
			if i == mesh.TopDisplay {
				break
			}
			fmt.Fprintf(&b, "%d. %s -> %s (priority %.0f)\n", i+1, rec.Source, rec.Target, rec.Priority)
		}
	}
	return b.String()
}
