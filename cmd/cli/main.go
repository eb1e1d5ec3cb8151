package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robvandam12/breus-sub011/cmd/cli/commands"
	"github.com/robvandam12/breus-sub011/internal/config"
	"github.com/robvandam12/breus-sub011/pkg/clients/sheetsclient"
	"github.com/robvandam12/breus-sub011/pkg/core/availability"
	"github.com/robvandam12/breus-sub011/pkg/db"
	"github.com/robvandam12/breus-sub011/pkg/postgres"
	"github.com/robvandam12/breus-sub011/pkg/roster"
	"github.com/robvandam12/breus-sub011/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	logDir  string
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "breus",
		Short: "Breus - Diving crew and personnel availability",
		Long:  `A CLI for checking whether diving crews and personnel are already committed to an immersion on a given date.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				if err := app.Database.Close(); err != nil {
					app.Logger.Warn("Failed to close database", zap.Error(err))
				}
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "logs", "Directory for JSON log files")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.CheckCrewsCmd(app))
	rootCmd.AddCommand(commands.SweepCrewsCmd(app))
	rootCmd.AddCommand(commands.ScanPersonnelCmd(app))
	rootCmd.AddCommand(commands.AvailablePersonnelCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, store, roster and metrics
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, logging.Options{Dir: logDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	// Initialize metrics
	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = availability.NewMetrics(app.Registry)

	// Connect to the assignment store
	app.Logger.Debug("Connecting to assignment store", zap.String("driver", app.Cfg.Store.Driver))
	app.Database, err = openStore(app.Ctx, app.Cfg.Store)
	if err != nil {
		return err
	}
	app.Logger.Debug("Assignment store connected")

	// Initialize roster source
	source, err := openRoster(app.Ctx, app.Cfg.Roster, app.Database)
	if err != nil {
		return err
	}
	app.Roster = roster.WithCache(source, app.Cfg.Roster.CacheTTL(), app.Logger)
	app.Logger.Debug("Roster source initialized",
		zap.String("source", app.Cfg.Roster.Source),
		zap.Duration("cache_ttl", app.Cfg.Roster.CacheTTL()))

	return nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (db.Database, error) {
	switch cfg.Driver {
	case "postgres":
		database, err := postgres.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return database, nil
	default:
		database, err := db.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return database, nil
	}
}

func openRoster(ctx context.Context, cfg config.RosterConfig, store db.RosterStore) (roster.Source, error) {
	if cfg.Source != "sheets" {
		return store, nil
	}

	client, err := sheetsclient.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return sheetsclient.NewRosterSource(client, &cfg), nil
}
