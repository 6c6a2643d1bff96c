package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// Runner executes job handlers and normalizes their outcomes. Handler
// errors, panics, and missing results all become failed JobResults; nothing
// a handler does can escape to the cron machinery.
type Runner struct {
	logger   *slog.Logger
	recorder RunRecorder
}

// NewRunner creates a runner. A nil logger means slog.Default(); a nil
// recorder disables execution recording.
func NewRunner(logger *slog.Logger, recorder RunRecorder) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, recorder: recorder}
}

// Run executes the job's handler once and returns its normalized result.
// The result is never nil and always carries execution_id and duration_ms
// in its details.
func (r *Runner) Run(ctx context.Context, job *Job) (result *JobResult) {
	executionID := uuid.New().String()
	startedAt := time.Now().UTC()
	logger := r.logger.With("job", job.Name, "execution_id", executionID)

	logger.Info("job started")

	defer func() {
		if rec := recover(); rec != nil {
			result = &JobResult{
				Success: false,
				Message: fmt.Sprintf("panic: %v", rec),
				Details: map[string]interface{}{
					"panic": fmt.Sprintf("%v", rec),
					"stack": string(debug.Stack()),
				},
			}
		}

		duration := time.Since(startedAt)
		if result.Details == nil {
			result.Details = make(map[string]interface{})
		}
		result.Details["execution_id"] = executionID
		result.Details["duration_ms"] = duration.Milliseconds()

		if result.Success {
			logger.Info("job finished",
				"duration_ms", duration.Milliseconds(),
				"message", result.Message,
			)
		} else {
			logger.Error("job failed",
				"duration_ms", duration.Milliseconds(),
				"message", result.Message,
			)
		}

		if r.recorder != nil {
			run := Run{
				JobName:     job.Name,
				ExecutionID: executionID,
				Success:     result.Success,
				Message:     result.Message,
				Details:     result.Details,
				StartedAt:   startedAt,
				Duration:    duration,
			}
			if err := r.recorder.Record(ctx, run); err != nil {
				logger.Error("job run not recorded", "error", err)
			}
		}
	}()

	res, err := job.Handler(ctx)
	switch {
	case err != nil:
		result = &JobResult{
			Success: false,
			Message: err.Error(),
			Details: map[string]interface{}{"error": err.Error()},
		}
	case res == nil:
		result = &JobResult{
			Success: false,
			Message: "handler returned no result",
		}
	default:
		result = res
	}

	return result
}
