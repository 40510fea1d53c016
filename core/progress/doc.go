// Package progress persists sync checkpoints so a killed sync can resume.
//
// A checkpoint maps stage keys to either an integer cursor (how many source
// records were handled) or the "done" sentinel, plus a global all_done flag.
// The two highest-cardinality stages also store one done marker per species or
// form (see SpeciesLearnsetKey and FormAbilitiesKey); those markers are what a
// restarted run trusts, the cursors are only a shortcut.
//
// Checkpoints live outside the relational store, either in a local JSON file
// (written to a temp file and renamed) or as one object in an S3 bucket. An
// unreadable checkpoint is logged and treated as empty.
//
// Several workers may share one checkpoint. A Tracker never overwrites it with
// its own copy: each write reloads the stored state and replays the tracker's
// pending changes, guarded by a shared lock when one is configured. Entity
// markers are buffered and written in batches.
package progress
