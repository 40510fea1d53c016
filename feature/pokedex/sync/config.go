package sync

import "time"

// Config holds the orchestrator tuning and schedule.
type Config struct {
	// BatchSize is the number of records committed per transaction.
	BatchSize int `mapstructure:"batch_size" default:"10"`
	// CheckpointEvery is the number of records between cursor saves.
	CheckpointEvery int `mapstructure:"checkpoint_every" default:"50"`
	// Concurrency bounds parallel detail fetches and per-entity workers.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// LockTTL is the expiry of stage and entity locks.
	LockTTL time.Duration `mapstructure:"lock_ttl" default:"30m"`
	// Interval between scheduled runs. Zero disables the scheduler.
	Interval time.Duration `mapstructure:"interval" default:"24h"`
	// RunOnStart triggers a run as soon as the scheduler starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"false"`
	// Force makes scheduled runs ignore done markers.
	Force bool `mapstructure:"force" default:"false"`
	// LearnsetRetries is the number of attempts for a learnset commit hitting a lock timeout.
	LearnsetRetries int `mapstructure:"learnset_retries" default:"3"`
}
