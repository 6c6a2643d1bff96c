package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/config"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/jobs"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Build and start the maintenance scheduler
	sched, err := jobs.Setup(jobs.SetupConfig{
		DB:              db,
		Logger:          logger,
		UploadsRoot:     cfg.Jobs.UploadsRoot,
		AutoStart:       cfg.Scheduler.AutoStart,
		RecordRuns:      cfg.Scheduler.RecordRuns,
		DisabledJobs:    cfg.Scheduler.DisabledJobs,
		PseudonymKey:    cfg.Jobs.PseudonymKey,
		KarmaBatchSize:  cfg.Jobs.KarmaBatchSize,
		KarmaBatchPause: cfg.Jobs.KarmaBatchPause,
		AuditPageSize:   cfg.Jobs.AuditPageSize,
	})
	if err != nil {
		slog.Error("failed to set up jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, st := range sched.Status() {
		slog.Info("job registered",
			slog.String("job", st.Name),
			slog.String("schedule", st.Schedule),
			slog.Bool("enabled", st.Enabled),
		)
	}

	slog.Info("scheduler running",
		slog.String("env", cfg.Server.Env),
		slog.Bool("auto_start", cfg.Scheduler.AutoStart),
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down scheduler...")
	sched.Stop()
	slog.Info("scheduler exited")
}
