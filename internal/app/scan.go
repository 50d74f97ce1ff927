package app

import (
	"context"
	"fmt"
	"os"
	"time"

	gogithub "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/protechtimenow/repomesh/internal/action"
	"github.com/protechtimenow/repomesh/internal/config"
	"github.com/protechtimenow/repomesh/internal/engine"
	"github.com/protechtimenow/repomesh/internal/mesh"
	"github.com/protechtimenow/repomesh/internal/notify"
	"github.com/protechtimenow/repomesh/internal/output"
	"github.com/protechtimenow/repomesh/internal/source"
	"github.com/protechtimenow/repomesh/internal/store"
	"github.com/protechtimenow/repomesh/pkg/tokenstore"
)

var (
	scanFlagExecute bool
	scanFlagVerbose bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a full mesh analysis now",
	Long: `Scan fetches repository metrics from GitHub, scores the full set,
rebuilds the mesh topology, ranks bridge recommendations, and writes the
snapshot and run history. Requires GITHUB_OWNER (and credentials for private
repositories).`,
	RunE: runScanCmd,
}

func init() {
	scanCmd.Flags().BoolVar(&scanFlagExecute, "execute", false, "File enhancement issues for the top recommendations")
	scanCmd.Flags().BoolVar(&scanFlagVerbose, "verbose", false, "Log analysis progress")
	rootCmd.AddCommand(scanCmd)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := zerolog.Nop()
	if scanFlagVerbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	client, err := githubClient(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	rules, err := loadRules(cfg)
	if err != nil {
		return err
	}

	src := source.NewGitHub(client, cfg.GitHubOwner, source.Options{
		RecentCommitLimit: cfg.RecentCommitLimit,
		CommitFetchLimit:  cfg.CommitFetchLimit,
		Concurrency:       cfg.FetchConcurrency,
	}, logger)

	history, err := store.NewHistory(cfg.HistoryPath, logger)
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer history.Close()

	opts := engine.Options{
		History:        history,
		ExecuteActions: scanFlagExecute || cfg.ExecuteActions,
	}
	if opts.ExecuteActions {
		opts.Sink = action.NewIssueSink(client, cfg.GitHubOwner, logger)
	}
	if cfg.SlackEnabled() {
		opts.Notifier = notify.NewSlackNotifier(slack.New(cfg.SlackBotToken), cfg.SlackChannel, logger)
	}

	analyzer := engine.New(src, store.NewFileStore(cfg.SnapshotPath, logger), rules, opts, logger)

	fmt.Println(output.StyleMuted.Render("Scanning " + cfg.GitHubOwner + "..."))
	snapshot, err := analyzer.Run(cmd.Context(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Println()
	renderSummary(snapshot)
	fmt.Printf("Snapshot written to %s\n", cfg.SnapshotPath)
	return nil
}

// githubClient builds an authenticated API client: App installation when
// fully configured, token otherwise.
func githubClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*gogithub.Client, error) {
	if cfg.GitHubAppEnabled() {
		auth, err := source.NewAppAuth(cfg.GitHubAppID, cfg.GitHubInstallationID, cfg.GitHubPrivateKeyPath,
			tokenstore.NewMemoryStore(), logger)
		if err != nil {
			return nil, fmt.Errorf("configuring GitHub App auth: %w", err)
		}
		return auth.InstallationClient(ctx)
	}
	return source.NewTokenClient(cfg.GitHubToken), nil
}

func loadRules(cfg *config.Config) (mesh.RuleSet, error) {
	if cfg.RulesPath == "" {
		return mesh.DefaultRules(), nil
	}
	rules, err := mesh.LoadRules(cfg.RulesPath)
	if err != nil {
		return mesh.RuleSet{}, fmt.Errorf("loading rules from %s: %w", cfg.RulesPath, err)
	}
	return rules, nil
}
