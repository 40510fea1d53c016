package pipeline

import (
	"context"
	"time"
)

// Sink receives the records a Source streams.
type Sink[T any] interface {
	// Emit queues one record. It returns an error only when the run was cancelled.
	Emit(item T) error
	// Fail records a unit of work the source could not produce (a page or a
	// detail fetch). The run continues, but the stage is not marked done.
	Fail(unit string, err error)
}

// Stage describes one resumable, batched sync stage.
type Stage[T any] struct {
	// Name is the checkpoint and lock key of the stage.
	Name string

	// Source streams records starting at offset into sink. Returning an error
	// aborts the stage; per-record problems go to sink.Fail instead.
	Source func(ctx context.Context, offset int, sink Sink[T]) error

	// Apply commits one batch. A failed batch is logged and the stage continues.
	Apply func(ctx context.Context, batch []T) error
}

// Options tune a Runner.
type Options struct {
	// BatchSize is the number of records committed per Apply call.
	BatchSize int
	// CheckpointEvery is the minimum number of committed records between cursor saves.
	CheckpointEvery int
	// LockTTL bounds how long a crashed run can hold a stage.
	LockTTL time.Duration
	// Force ignores done markers and saved cursors.
	Force bool
}

// Report summarizes one stage run.
type Report struct {
	Stage         string        `json:"stage"`
	Skipped       bool          `json:"skipped"`
	Contended     bool          `json:"contended"`
	ResumedAt     int           `json:"resumed_at"`
	Processed     int           `json:"processed"`
	Applied       int           `json:"applied"`
	FailedBatches int           `json:"failed_batches"`
	FailedUnits   int           `json:"failed_units"`
	Completed     bool          `json:"completed"`
	Duration      time.Duration `json:"duration"`
}

// Clean reports whether the stage ran without any failure.
func (r *Report) Clean() bool {
	return r.FailedBatches == 0 && r.FailedUnits == 0
}
