// Package store persists Pokémon reference data with gorm.
//
// Flat entities are merged by id with INSERT ... ON CONFLICT (id) DO UPDATE
// of the columns each model lists in UpsertColumns. Relation tables are
// insert-only with ON CONFLICT DO NOTHING on their composite keys, so
// writing the same rows twice leaves the tables unchanged.
//
// A failed batch is rolled back and replayed one row per transaction, which
// confines a conflicting or malformed row to itself.
//
// Dependent columns (version group generation, first generation of a form)
// are plain nullable integers, filled in by later passes such as
// BackfillFirstGeneration rather than enforced by foreign keys.
package store
