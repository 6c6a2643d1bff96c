// Package scheduler runs the recurring maintenance jobs.
//
// The scheduler is a single-process, in-memory job registry with cron
// triggers. Jobs are registered before Start; registration validates the
// cron expression and rejects duplicate names, so a misconfigured job stops
// the process at startup instead of silently never firing.
//
// # Job Execution
//
// All executions, scheduled or manual, go through one path:
//
//   - a running-name guard skips the run when the same job is still
//     executing, returning an unsuccessful result with message
//     "already running" without touching counters
//   - the runner invokes the handler, converting returned errors and
//     recovered panics into failed results so nothing ever escapes to
//     the cron machinery
//   - the most recent result, last run time, and run/failure counters
//     are kept per job for status reporting
//
// Distinct jobs may overlap freely; they operate on disjoint records.
//
// # Scheduling
//
// Schedules are 5-field cron expressions (minute hour dom month dow)
// evaluated in UTC. Disabled jobs are registered and manually runnable but
// get no cron entry. Stop halts triggering and waits for in-flight
// scheduled runs; it never interrupts a handler.
//
// # Status
//
//	for _, st := range sched.Status() {
//	    fmt.Println(st.Name, st.Running, st.Stats.Runs, st.Stats.Failures)
//	}
//
// Status snapshots are non-blocking: a hung handler shows Running=true
// rather than hanging the caller.
package scheduler
