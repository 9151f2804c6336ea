// Package main provides the entry point for the spreadline pipeline.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/spreadline/internal/cache"
	"github.com/yourusername/spreadline/internal/config"
	"github.com/yourusername/spreadline/internal/database"
	"github.com/yourusername/spreadline/internal/health"
	"github.com/yourusername/spreadline/internal/logger"
	"github.com/yourusername/spreadline/internal/metrics"
	"github.com/yourusername/spreadline/internal/oddsapi"
	"github.com/yourusername/spreadline/internal/repository"
	"github.com/yourusername/spreadline/internal/scheduler"
	"github.com/yourusername/spreadline/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
	db         *database.DB
)

// app bundles the wired services a subcommand can run.
type app struct {
	oddsSync  *service.OddsSyncService
	scoreSync *service.ScoreSyncService
	location  *time.Location
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(runCmd, fetchOddsCmd, syncScoresCmd)
}

var rootCmd = &cobra.Command{
	Use:   "spreadline",
	Short: "Sports odds ingestion and bet grading pipeline",
	Long: `Spreadline keeps a local book of games, odds snapshots and user bets:
it fetches current lines and final scores from The Odds API on a schedule,
grades pending bets against final scores and serves aggregate views.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler with the health endpoint until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScheduler()
	},
}

var fetchOddsCmd = &cobra.Command{
	Use:   "fetch-odds",
	Short: "Execute one odds refresh and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
		defer cancel()
		return a.oddsSync.Run(ctx)
	},
}

var syncScoresCmd = &cobra.Command{
	Use:   "sync-scores",
	Short: "Execute one score sync and grading pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
		defer cancel()
		return a.scoreSync.Run(ctx)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// setup loads and validates configuration, connects to the database and
// bootstraps the schema.
func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"environment": cfg.App.Environment,
		"sport":       cfg.OddsAPI.Sport,
	}).Info("Starting spreadline")

	metrics.InitRegistry()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	return nil
}

// buildApp wires the repositories, provider client, cache and services.
func buildApp() (*app, error) {
	repos, err := repository.NewRepositories(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	client, err := oddsapi.NewClient(&cfg.OddsAPI, appLog)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize odds client: %w", err)
	}

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Scheduler.Timezone, err)
	}

	aggCache := cache.NewAggregateCache(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		cfg.Cache.MaxEntries,
	)
	normalizer := service.NewNormalizer(cfg.OddsAPI.PrimaryBookmaker, appLog)

	return &app{
		oddsSync: service.NewOddsSyncService(
			client, db, repos.Game, repos.Odds, normalizer, aggCache, location, appLog),
		scoreSync: service.NewScoreSyncService(
			client, db, repos.Game, repos.Bet, normalizer, aggCache, appLog),
		location: location,
	}, nil
}

// runScheduler wires the full pipeline, starts the cron scheduler and the
// health server, and blocks until SIGINT or SIGTERM.
func runScheduler() error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(cfg.Scheduler.Timezone, appLog)
	if err != nil {
		return err
	}
	if err := sched.ScheduleOddsFetch(cfg.Scheduler.OddsFetchCrons, a.oddsSync); err != nil {
		return err
	}
	if err := sched.ScheduleScoreSync(cfg.Scheduler.ScoreSyncCrons, a.scoreSync); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metricsHandler = metrics.Handler()
	if !cfg.Metrics.Enabled {
		metricsHandler = nil
	}
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Metrics.Port,
		Logger:      appLog,
		DB:          db.GetPool(),
		Scheduler:   sched,
		Metrics:     metricsHandler,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)

	appLog.WithField("next_run", sched.NextRun()).Info("Pipeline running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig.String()).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Warn("Scheduler did not stop cleanly")
	}

	return nil
}
