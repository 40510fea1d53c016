// Package pipeline runs resumable, batched sync stages.
//
// A Stage pairs a streaming Source with a batch Apply function. Run wires them
// together with the progress tracker and lock manager:
//
//   - a stage already marked done is skipped unless Options.Force is set
//   - a stage locked by another run is skipped (contention is not an error)
//   - records are committed BatchSize at a time and a failed batch is only logged
//   - the resume cursor is saved every CheckpointEvery records while no batch failed
//   - the done marker is written only when every record and batch succeeded
//
// Only an error returned by the Source itself aborts the stage; the sync
// orchestrator uses that for an unreachable remote source.
//
// # Usage
//
//	runner := pipeline.NewRunner(tracker, locks, logger, pipeline.Options{BatchSize: 10})
//	report, err := pipeline.Run(ctx, runner, pipeline.Stage[Ability]{
//	    Name:   "abilities",
//	    Source: fetchAbilities,
//	    Apply:  store.UpsertAbilities,
//	})
package pipeline
