package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Jobs      JobsConfig
}

// ServerConfig holds host process settings
type ServerConfig struct {
	Env string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// SchedulerConfig holds scheduler settings
type SchedulerConfig struct {
	// AutoStart begins cron triggering as soon as setup completes.
	AutoStart bool

	// RecordRuns appends every execution to the job_run log.
	RecordRuns bool

	// DisabledJobs lists job names to register without a trigger. Unknown
	// names are a configuration error caught at setup.
	DisabledJobs []string
}

// JobsConfig holds per-job tuning
type JobsConfig struct {
	// UploadsRoot is the directory orphaned-upload cleanup deletes files
	// under. Upload rows store paths relative to it.
	UploadsRoot string

	// KarmaBatchSize / KarmaBatchPause bound the load of a full karma
	// recalculation. The outcome is the same for any batch size.
	KarmaBatchSize  int
	KarmaBatchPause time.Duration

	// AuditPageSize is how many audit rows one anonymization page scrubs.
	AuditPageSize int

	// PseudonymKey keys the de-identified labels written over anonymized
	// users. At most 64 bytes.
	PseudonymKey string
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Env: getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "bazaar"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Scheduler: SchedulerConfig{
			AutoStart:    getBoolEnv("SCHEDULER_AUTO_START", true),
			RecordRuns:   getBoolEnv("SCHEDULER_RECORD_RUNS", false),
			DisabledJobs: getSliceEnv("SCHEDULER_DISABLED_JOBS", nil),
		},
		Jobs: JobsConfig{
			UploadsRoot:     getEnv("UPLOADS_ROOT", "./uploads"),
			KarmaBatchSize:  getIntEnv("KARMA_BATCH_SIZE", 50),
			KarmaBatchPause: getDurationEnv("KARMA_BATCH_PAUSE", 100*time.Millisecond),
			AuditPageSize:   getIntEnv("AUDIT_PAGE_SIZE", 500),
			PseudonymKey:    getEnv("PSEUDONYM_KEY", ""),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// Job tuning validation
	if c.Jobs.UploadsRoot == "" {
		errs = append(errs, errors.New("UPLOADS_ROOT is required"))
	}
	if c.Jobs.KarmaBatchSize <= 0 {
		errs = append(errs, errors.New("KARMA_BATCH_SIZE must be positive"))
	}
	if c.Jobs.KarmaBatchPause < 0 {
		errs = append(errs, errors.New("KARMA_BATCH_PAUSE must not be negative"))
	}
	if c.Jobs.AuditPageSize <= 0 {
		errs = append(errs, errors.New("AUDIT_PAGE_SIZE must be positive"))
	}

	// Pseudonym key validation - critical for production: without a key,
	// anonymized labels are derivable from user IDs alone.
	if c.IsProduction() && c.Jobs.PseudonymKey == "" {
		errs = append(errs, errors.New("PSEUDONYM_KEY is required in production"))
	}
	if len(c.Jobs.PseudonymKey) > 64 {
		errs = append(errs, errors.New("PSEUDONYM_KEY must be at most 64 bytes"))
	}

	// Disabled-job names look like names
	for _, name := range c.Scheduler.DisabledJobs {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("SCHEDULER_DISABLED_JOBS contains an empty name"))
			break
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
