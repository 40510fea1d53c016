// Package integrity provides health checks for the team-builder backend.
//
// It validates the infrastructure the sync and the query service rely on,
// not the content of the reference data itself.
//
// # Checks Provided
//
//   - Schema: Validates that the reference tables match the models (columns, types, primary keys).
//   - Sync: Reports the checkpoint state of every stage, per-entity markers and empty tables.
//   - Storage: Verifies that the checkpoint bucket exists and whether a checkpoint was written.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/sync : Runs the sync progress check.
//   - GET /integrity/storage : Runs the checkpoint storage check.
package integrity
