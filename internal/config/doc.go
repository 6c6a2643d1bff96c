// Package config manages configuration for the maintenance subsystem.
//
// The config package loads and validates configuration from environment
// variables. All configuration is centralized here to provide a single
// source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, _ := config.Load()
//	if err := cfg.Validate(); err != nil {
//	    // configuration error: refuse to start
//	}
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: host process settings (environment)
//   - DatabaseConfig: SurrealDB connection settings
//   - SchedulerConfig: trigger startup and execution recording
//   - JobsConfig: per-job tuning (uploads root, batch sizes, pauses)
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_ENV               - development | production | test
//	DB_HOST / DB_PORT        - SurrealDB endpoint
//	DB_NAMESPACE / DB_DATABASE / DB_USER / DB_PASSWORD
//	SCHEDULER_AUTO_START     - begin triggering at startup (default: true)
//	SCHEDULER_RECORD_RUNS    - append executions to the job_run log
//	SCHEDULER_DISABLED_JOBS  - comma-separated job names to not trigger
//	UPLOADS_ROOT             - directory orphaned-upload cleanup works under
//	KARMA_BATCH_SIZE         - users per recalculation batch (default: 50)
//	KARMA_BATCH_PAUSE        - pause between batches (default: 100ms)
//	AUDIT_PAGE_SIZE          - audit rows per anonymization page
//	PSEUDONYM_KEY            - keys anonymized display labels (required in
//	                           production, at most 64 bytes)
//
// # Validation
//
// Validate reports every problem at once rather than the first one, so a
// misconfigured deployment can be fixed in a single pass. Validation
// failures are configuration errors: the process must not start with them.
package config
