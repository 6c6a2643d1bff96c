package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Standard errors for registry operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrJobNotFound indicates the named job is not registered.
	ErrJobNotFound = errors.New("job not found")

	// ErrDuplicateJob indicates a job with the same name is already registered.
	ErrDuplicateJob = errors.New("job already registered")

	// ErrInvalidSchedule indicates a cron expression that does not parse.
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// scheduleParser accepts standard 5-field cron expressions
// (minute hour dom month dow).
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Config configures a Scheduler.
type Config struct {
	// Logger receives scheduler and runner events. Nil means slog.Default().
	Logger *slog.Logger

	// Recorder receives one record per execution. Nil disables recording.
	Recorder RunRecorder

	// Now supplies the current time for last-run stamps. Nil means time.Now.
	Now func() time.Time
}

// jobState is the scheduler's mutable bookkeeping for one job.
type jobState struct {
	lastRun    *time.Time
	lastResult *JobResult
	stats      JobStatistics
}

// Scheduler is the in-memory job registry with cron triggers. Jobs must be
// registered before Start.
type Scheduler struct {
	logger *slog.Logger
	runner *Runner
	now    func() time.Time

	mu      sync.Mutex
	jobs    map[string]*Job
	state   map[string]*jobState
	running map[string]struct{}
	entries map[string]cron.EntryID
	cron    *cron.Cron
	started bool
}

// New creates a scheduler
func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		logger:  logger,
		runner:  NewRunner(logger, cfg.Recorder),
		now:     now,
		jobs:    make(map[string]*Job),
		state:   make(map[string]*jobState),
		running: make(map[string]struct{}),
		entries: make(map[string]cron.EntryID),
	}
}

// Register adds a job to the registry. The cron expression is validated
// here so a bad schedule fails at startup, not at first trigger. Returns
// ErrDuplicateJob or ErrInvalidSchedule.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" {
		return errors.New("job name is required")
	}
	if job.Handler == nil {
		return fmt.Errorf("job %q has no handler", job.Name)
	}
	if _, err := scheduleParser.Parse(job.Schedule); err != nil {
		return fmt.Errorf("%w: job %q schedule %q: %v", ErrInvalidSchedule, job.Name, job.Schedule, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateJob, job.Name)
	}

	j := job
	s.jobs[job.Name] = &j
	s.state[job.Name] = &jobState{}
	return nil
}

// Start creates a UTC cron entry for every enabled job and begins
// triggering. Disabled jobs get no entry but remain manually runnable.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("scheduler already started")
	}

	s.cron = cron.New(cron.WithParser(scheduleParser), cron.WithLocation(time.UTC))
	s.entries = make(map[string]cron.EntryID)

	for name, job := range s.jobs {
		if !job.Enabled {
			continue
		}
		entryID, err := s.cron.AddFunc(job.Schedule, func() {
			s.execute(context.Background(), name)
		})
		if err != nil {
			return fmt.Errorf("%w: job %q schedule %q: %v", ErrInvalidSchedule, name, job.Schedule, err)
		}
		s.entries[name] = entryID
	}

	s.cron.Start()
	s.started = true
	s.logger.Info("scheduler started", "jobs", len(s.jobs), "scheduled", len(s.entries))
	return nil
}

// Stop halts triggering and waits for scheduled runs already in flight.
// Handlers are never interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	wasStarted := s.started
	s.started = false
	s.mu.Unlock()

	if c == nil || !wasStarted {
		return
	}

	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes the named job immediately, bypassing its schedule and
// enabled flag. The single-flight guard still applies. Returns
// ErrJobNotFound for unknown names.
func (s *Scheduler) RunNow(ctx context.Context, name string) (*JobResult, error) {
	s.mu.Lock()
	_, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}

	return s.execute(ctx, name), nil
}

// Status returns a snapshot of every registered job, sorted by name for
// stable output. Snapshots never block on a running handler.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.jobs))
	for name := range s.jobs {
		statuses = append(statuses, s.statusLocked(name))
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

// StatusOf returns a snapshot of one job. Returns ErrJobNotFound for
// unknown names.
func (s *Scheduler) StatusOf(name string) (JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; !ok {
		return JobStatus{}, fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}
	return s.statusLocked(name), nil
}

// execute is the single path every run takes, scheduled or manual. The
// running-name guard makes same-job executions mutually exclusive; a
// rejected attempt does not touch counters or last-run state.
func (s *Scheduler) execute(ctx context.Context, name string) *JobResult {
	s.mu.Lock()
	job, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return &JobResult{Success: false, Message: "job not found"}
	}
	if _, active := s.running[name]; active {
		s.mu.Unlock()
		s.logger.Warn("job already running, skipping", "job", name)
		return &JobResult{Success: false, Message: "already running"}
	}
	s.running[name] = struct{}{}
	startedAt := s.now().UTC()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, name)
		s.mu.Unlock()
	}()

	result := s.runner.Run(ctx, job)

	s.mu.Lock()
	st := s.state[name]
	st.lastRun = &startedAt
	st.lastResult = result
	st.stats.Runs++
	if !result.Success {
		st.stats.Failures++
	}
	s.mu.Unlock()

	return result
}

// statusLocked builds one job's snapshot. Caller holds s.mu.
func (s *Scheduler) statusLocked(name string) JobStatus {
	job := s.jobs[name]
	st := s.state[name]
	_, active := s.running[name]

	status := JobStatus{
		Name:        job.Name,
		Description: job.Description,
		Schedule:    job.Schedule,
		Enabled:     job.Enabled,
		Running:     active,
		LastRun:     st.lastRun,
		LastResult:  st.lastResult,
		Stats:       st.stats,
	}

	if s.started {
		if entryID, ok := s.entries[name]; ok {
			entry := s.cron.Entry(entryID)
			if !entry.Next.IsZero() {
				next := entry.Next
				status.NextRun = &next
			}
		}
	}

	return status
}
