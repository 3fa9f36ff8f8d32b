package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/dashboard"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/config"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/database"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/logger"
)

// defaultLogFile receives dashboard logs when LOG_FILE is unset; the terminal belongs to the TUI
const defaultLogFile = "dashboard.log"

// --refresh bounds, matching DASHBOARD_REFRESH_SECONDS
const (
	minRefreshSeconds = 1
	maxRefreshSeconds = 10
)

type flags struct {
	refresh int
	limit   int
	auto    bool
	logFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Live terminal dashboard of routing decisions and savings",
		Long: `Polls the request log store and shows total money saved, request counts,
the model distribution, a cumulative savings chart and the most recent requests.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts, err := resolveOptions(cfg, f, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().IntVarP(&f.refresh, "refresh", "r", 0, "auto refresh interval in seconds, 1-10 (default DASHBOARD_REFRESH_SECONDS)")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "number of recent requests to load (default LOGS_DEFAULT_LIMIT)")
	cmd.Flags().BoolVarP(&f.auto, "auto", "a", true, "start with auto refresh on (default DASHBOARD_AUTO_REFRESH)")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "file for dashboard logs (default LOG_FILE or "+defaultLogFile+")")

	return cmd
}

type runOptions struct {
	dashboard dashboard.Options
	logFile   string
}

// resolveOptions lets explicitly set flags override the environment.
// Flags are held to the same ranges Config.Validate applies to the environment.
func resolveOptions(cfg *config.Config, f *flags, changed func(string) bool) (runOptions, error) {
	opts := runOptions{
		dashboard: dashboard.Options{
			Limit:       cfg.LogsDefaultLimit,
			Refresh:     cfg.DashboardRefresh(),
			AutoRefresh: cfg.DashboardAutoRefresh,
		},
		logFile: cfg.LogFile,
	}

	if changed("refresh") {
		if f.refresh < minRefreshSeconds || f.refresh > maxRefreshSeconds {
			return runOptions{}, fmt.Errorf("--refresh must be between %d and %d seconds, got %d",
				minRefreshSeconds, maxRefreshSeconds, f.refresh)
		}
		opts.dashboard.Refresh = time.Duration(f.refresh) * time.Second
	}
	if changed("limit") {
		if f.limit < 1 {
			return runOptions{}, fmt.Errorf("--limit must be positive, got %d", f.limit)
		}
		opts.dashboard.Limit = f.limit
	}
	if changed("auto") {
		opts.dashboard.AutoRefresh = f.auto
	}
	if changed("log-file") {
		opts.logFile = f.logFile
	}
	if opts.logFile == "" {
		opts.logFile = defaultLogFile
	}
	return opts, nil
}

// openStore connects to the log store and creates the table if this is a fresh database
func openStore(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	log, err := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Env:     cfg.Env,
		File:    opts.logFile,
		Console: io.Discard,
	})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Infow("Dashboard started",
		"driver", db.Driver(),
		"limit", opts.dashboard.Limit,
		"refresh", opts.dashboard.Refresh,
		"auto", opts.dashboard.AutoRefresh,
	)

	opts.dashboard.Logger = logger.Named("dashboard")
	model := dashboard.New(db, opts.dashboard)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}

	log.Info("Dashboard stopped")
	return nil
}
