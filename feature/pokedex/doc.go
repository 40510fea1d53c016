// Package pokedex serves the reference data team builders read.
//
// The subpackages do the work: pokeapi fetches upstream records, localize
// derives Chinese display names, store writes the relational tables, sync
// orchestrates resumable imports and query answers cached reads. This package
// only exposes them over HTTP.
//
// # HTTP Endpoints
//
//   - GET /pokemon : Paged form list (limit, offset, generation, search, types).
//   - GET /moves, /abilities, /items : Reference lists (limit, offset, generation, categories).
//   - GET /generations : Generations with their version groups.
//   - GET /species/:id/moves : Learnable moves (version_group or generation).
//   - GET /species/:id/abilities : Abilities of the default forms.
//   - GET /forms/:id/abilities : Abilities of one form.
//   - POST /admin/sync : Starts a background sync (supports ?force=true).
//   - GET /admin/sync : Running flag and the last report.
//   - POST /admin/cache/refresh : Clears and pre-warms the query cache.
package pokedex
