package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	gogithub "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/protechtimenow/repomesh/internal/action"
	"github.com/protechtimenow/repomesh/internal/config"
	"github.com/protechtimenow/repomesh/internal/engine"
	"github.com/protechtimenow/repomesh/internal/health"
	"github.com/protechtimenow/repomesh/internal/mesh"
	"github.com/protechtimenow/repomesh/internal/metrics"
	"github.com/protechtimenow/repomesh/internal/notify"
	"github.com/protechtimenow/repomesh/internal/server"
	"github.com/protechtimenow/repomesh/internal/source"
	"github.com/protechtimenow/repomesh/internal/store"
	"github.com/protechtimenow/repomesh/pkg/tokenstore"
)

// scanLoop runs the analyzer on a schedule and on demand. TriggerScan is
// non-blocking and rejects overlapping requests.
type scanLoop struct {
	analyzer *engine.Analyzer
	interval time.Duration
	requests chan struct{}
	running  atomic.Bool
	logger   zerolog.Logger
}

func newScanLoop(analyzer *engine.Analyzer, interval time.Duration, logger zerolog.Logger) *scanLoop {
	return &scanLoop{
		analyzer: analyzer,
		interval: interval,
		requests: make(chan struct{}, 1),
		logger:   logger.With().Str("component", "scan-loop").Logger(),
	}
}

// TriggerScan implements server.ScanTrigger.
func (l *scanLoop) TriggerScan() bool {
	if l.running.Load() {
		return false
	}
	select {
	case l.requests <- struct{}{}:
		return true
	default:
		return false
	}
}

func (l *scanLoop) run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	// First scan immediately on startup.
	l.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.scan(ctx)
		case <-l.requests:
			l.scan(ctx)
		}
	}
}

func (l *scanLoop) scan(ctx context.Context) {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	defer l.running.Store(false)

	if _, err := l.analyzer.Run(ctx, time.Now().UTC()); err != nil {
		l.logger.Error().Err(err).Msg("analysis run failed")
	}
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if os.Getenv("ENVIRONMENT") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Logger = logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Str("owner", cfg.GitHubOwner).
		Int("http_port", cfg.HTTPPort).
		Str("api_addr", cfg.APIListenAddr).
		Dur("scan_interval", cfg.ScanInterval).
		Bool("execute_actions", cfg.ExecuteActions).
		Bool("slack_enabled", cfg.SlackEnabled()).
		Msg("starting mesh engine")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	checker := health.NewChecker(logger)
	metricsCollector := metrics.New()

	// GitHub client: App installation when fully configured, token otherwise.
	var client *gogithub.Client
	if cfg.GitHubAppEnabled() {
		auth, err := source.NewAppAuth(cfg.GitHubAppID, cfg.GitHubInstallationID, cfg.GitHubPrivateKeyPath,
			tokenstore.NewMemoryStore(), logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init GitHub App auth")
		}
		client, err = auth.InstallationClient(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to mint installation client")
		}
		checker.Register("github-app", func(ctx context.Context) health.Status {
			if _, err := auth.InstallationClient(ctx); err != nil {
				return health.StatusDown
			}
			return health.StatusOK
		})
		logger.Info().Msg("GitHub App client initialized")
	} else {
		client = source.NewTokenClient(cfg.GitHubToken)
		logger.Info().Bool("authenticated", cfg.GitHubToken != "").Msg("GitHub token client initialized")
	}

	rules := mesh.DefaultRules()
	if cfg.RulesPath != "" {
		rules, err = mesh.LoadRules(cfg.RulesPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.RulesPath).Msg("failed to load rules")
		}
		logger.Info().Str("path", cfg.RulesPath).Msg("rule overrides loaded")
	}

	src := source.NewGitHub(client, cfg.GitHubOwner, source.Options{
		RecentCommitLimit: cfg.RecentCommitLimit,
		CommitFetchLimit:  cfg.CommitFetchLimit,
		Concurrency:       cfg.FetchConcurrency,
	}, logger)

	fileStore := store.NewFileStore(cfg.SnapshotPath, logger)

	history, err := store.NewHistory(cfg.HistoryPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open run history")
	}
	defer history.Close()
	checker.Register("history", func(ctx context.Context) health.Status {
		if _, err := history.RecentRuns(ctx, 1); err != nil {
			return health.StatusDown
		}
		return health.StatusOK
	})

	opts := engine.Options{
		History:        history,
		Metrics:        metricsCollector,
		ExecuteActions: cfg.ExecuteActions,
	}
	if cfg.ExecuteActions {
		opts.Sink = action.NewIssueSink(client, cfg.GitHubOwner, logger)
		logger.Info().Msg("issue sink enabled")
	}
	if cfg.SlackEnabled() {
		opts.Notifier = notify.NewSlackNotifier(slack.New(cfg.SlackBotToken), cfg.SlackChannel, logger)
		logger.Info().Str("channel", cfg.SlackChannel).Msg("Slack notifications enabled")
	}

	analyzer := engine.New(src, fileStore, rules, opts, logger)
	loop := newScanLoop(analyzer, cfg.ScanInterval, logger)

	// HTTP server for probes and metrics.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", health.LivenessHandler())
	mux.HandleFunc("/ready", checker.ReadinessHandler())
	mux.Handle("/metrics", metricsCollector.Handler())

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	apiServer := server.NewServer(server.Config{
		ListenAddr: cfg.APIListenAddr,
	}, fileStore, loop, checker, logger)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		loop.run(ctx)
	}()

	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if err := apiServer.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("API server shutdown error")
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info().Msg("all goroutines stopped")
	case <-time.After(15 * time.Second):
		logger.Warn().Msg("forced shutdown after timeout")
	}

	logger.Info().Msg("mesh engine stopped")
}
