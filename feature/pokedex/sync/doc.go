// Package sync mirrors the remote reference data into the relational store.
//
// A run walks these stages in order:
//
//	types, generations, version_groups, abilities, moves, items
//	    flat entities, upserted by id in batches
//	pokemon
//	    every pokemon with its species and form, localized display names
//	generation_species
//	    membership derived from regional pokedexes
//	(backfill)
//	    first generation of every form
//	move_learnset
//	    per species, behind a species lock and done marker
//	form_abilities
//	    per form, skipped when the form already has mappings
//
// The flat stages run through core/pipeline: a stage lock keeps two runs
// apart, the listing cursor is checkpointed every few records and the stage
// is marked done only when nothing failed. The two per-entity stages mark
// every entity separately, so a restarted run only redoes unfinished ones.
//
// A failed record, page or batch is logged and skipped. Only the first page
// of a listing can abort a run, since it means the source is unreachable.
//
// Run blocks; TriggerAsync starts a background run and refuses a second one
// while the first is active. Scheduler calls Run on an interval.
package sync
