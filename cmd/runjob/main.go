package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/config"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/jobs"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/scheduler"
)

func main() {
	jobName := flag.String("job", "", "Name of the job to run")
	list := flag.Bool("list", false, "List registered jobs and exit")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	timeout := flag.Duration("timeout", 30*time.Minute, "Abort the job after this long")

	flag.Parse()

	if !*list && *jobName == "" {
		fmt.Fprintf(os.Stderr, "Usage: runjob -job <name> | runjob -list\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Keep stdout clean for results; logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

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
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// AutoStart stays off: this tool runs one job and exits, it never
	// triggers schedules.
	sched, err := jobs.Setup(jobs.SetupConfig{
		DB:              db,
		Logger:          logger,
		UploadsRoot:     cfg.Jobs.UploadsRoot,
		RecordRuns:      cfg.Scheduler.RecordRuns,
		DisabledJobs:    cfg.Scheduler.DisabledJobs,
		PseudonymKey:    cfg.Jobs.PseudonymKey,
		KarmaBatchSize:  cfg.Jobs.KarmaBatchSize,
		KarmaBatchPause: cfg.Jobs.KarmaBatchPause,
		AuditPageSize:   cfg.Jobs.AuditPageSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up jobs: %v\n", err)
		os.Exit(1)
	}

	if *list {
		printJobs(sched.Status(), *outputJSON)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	result, err := sched.RunNow(runCtx, *jobName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printResult(*jobName, result, *outputJSON)
	if !result.Success {
		os.Exit(1)
	}
}

func printJobs(statuses []scheduler.JobStatus, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(statuses)
		return
	}

	fmt.Println("Registered Jobs")
	fmt.Println("===============")
	for _, st := range statuses {
		state := "enabled"
		if !st.Enabled {
			state = "disabled"
		}
		fmt.Printf("%-30s %-12s %-9s %s\n", st.Name, st.Schedule, state, st.Description)
	}
}

func printResult(name string, result *scheduler.JobResult, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}

	outcome := "OK"
	if !result.Success {
		outcome = "FAILED"
	}
	fmt.Printf("Job:     %s\n", name)
	fmt.Printf("Outcome: %s\n", outcome)
	fmt.Printf("Message: %s\n", result.Message)
	if len(result.Details) > 0 {
		fmt.Println("Details:")
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("  ", "  ")
		_ = enc.Encode(result.Details)
	}
}
