package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/repository"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/scheduler"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/service"
)

// SetupConfig wires the maintenance scheduler into a host process.
type SetupConfig struct {
	// DB is the storage handle every repository queries through. Required.
	DB database.Database

	// Logger receives scheduler, runner, and job events. Nil means
	// slog.Default().
	Logger *slog.Logger

	// UploadsRoot is the directory orphaned-upload cleanup deletes files
	// under. Required.
	UploadsRoot string

	// AutoStart begins cron triggering before Setup returns. Hosts that
	// only run jobs manually (the runjob tool) leave it false.
	AutoStart bool

	// RecordRuns appends every execution to the job_run log.
	RecordRuns bool

	// DisabledJobs names jobs to register without a cron trigger. They stay
	// visible in status output and runnable by hand. A name matching no
	// registered job is a configuration error.
	DisabledJobs []string

	// PseudonymKey keys the pseudonym derivation for anonymized users.
	// At most 64 bytes; empty derives unkeyed pseudonyms.
	PseudonymKey string

	// KarmaBatchSize and KarmaBatchPause tune karma recalculation.
	// Zero values fall back to the service defaults.
	KarmaBatchSize  int
	KarmaBatchPause time.Duration

	// AuditPageSize is how many audit rows one anonymization page fetches.
	// Zero falls back to DefaultAuditPageSize.
	AuditPageSize int
}

// Setup builds the repositories and services behind every maintenance job,
// registers all of them on a fresh scheduler, and optionally starts cron
// triggering. Any returned error is a configuration error and the host
// must not come up with it.
func Setup(cfg SetupConfig) (*scheduler.Scheduler, error) {
	if cfg.DB == nil {
		return nil, errors.New("setup requires a database handle")
	}
	if cfg.UploadsRoot == "" {
		return nil, errors.New("setup requires an uploads root")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	users := repository.NewUserRepository(cfg.DB)
	collaborations := repository.NewCollaborationRepository(cfg.DB)
	invitations := repository.NewInvitationRepository(cfg.DB)
	pushTokens := repository.NewPushTokenRepository(cfg.DB)
	uploads := repository.NewUploadRepository(cfg.DB)
	auditLogs := repository.NewAuditLogRepository(cfg.DB)
	deletionRequests := repository.NewDeletionRequestRepository(cfg.DB)

	karmaService := service.NewKarmaService(service.KarmaServiceConfig{
		UserRepo:   users,
		CollabRepo: collaborations,
		BatchSize:  cfg.KarmaBatchSize,
		BatchPause: cfg.KarmaBatchPause,
		Logger:     logger,
	})
	deletionService := service.NewDeletionService(service.DeletionServiceConfig{
		Requests:     deletionRequests,
		Users:        users,
		PushTokens:   pushTokens,
		Invitations:  invitations,
		PseudonymKey: []byte(cfg.PseudonymKey),
		Logger:       logger,
	})

	var recorder scheduler.RunRecorder
	if cfg.RecordRuns {
		recorder = &runRecorder{runs: repository.NewJobRunRepository(cfg.DB)}
	}

	sched := scheduler.New(scheduler.Config{
		Logger:   logger,
		Recorder: recorder,
	})

	// Nightly firing order.
	all := []scheduler.Job{
		NewDeletionFinalization(deletionService),
		NewAuditLogAnonymization(auditLogs, cfg.AuditPageSize, logger),
		NewAuditLogPurge(auditLogs),
		NewStaleInvitationCleanup(invitations),
		NewInactivePushTokenCleanup(pushTokens),
		NewOrphanedUploadCleanup(uploads, cfg.UploadsRoot, logger),
		NewKarmaRecalculation(karmaService),
	}

	disabled := make(map[string]bool, len(cfg.DisabledJobs))
	for _, name := range cfg.DisabledJobs {
		disabled[name] = false
	}
	for _, job := range all {
		if _, ok := disabled[job.Name]; ok {
			job.Enabled = false
			disabled[job.Name] = true
		}
		if err := sched.Register(job); err != nil {
			return nil, err
		}
	}
	for name, matched := range disabled {
		if !matched {
			return nil, fmt.Errorf("cannot disable unknown job %q", name)
		}
	}

	if cfg.AutoStart {
		if err := sched.Start(); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

// runRecorder adapts the job_run repository to the scheduler's RunRecorder.
type runRecorder struct {
	runs *repository.JobRunRepository
}

func (r *runRecorder) Record(ctx context.Context, run scheduler.Run) error {
	return r.runs.Append(ctx, &model.JobRun{
		JobName:     run.JobName,
		ExecutionID: run.ExecutionID,
		Success:     run.Success,
		Message:     run.Message,
		Details:     run.Details,
		StartedAt:   run.StartedAt,
		DurationMS:  run.Duration.Milliseconds(),
	})
}
