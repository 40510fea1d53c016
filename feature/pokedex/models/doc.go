// Package models defines the relational schema of the Pokémon reference data
// and the read views returned by the query service.
//
// Flat entities (types, generations, version groups, abilities, moves, items,
// species, forms) are keyed by the id assigned by the remote source. The three
// relation tables use composite primary keys:
//
//   - generation_pokemon_species: (generation_id, pokemon_species_id, version_group_id)
//   - pokemon_move_learnset: (pokemon_species_id, move_id, version_group_id, learn_method, level)
//   - pokemon_form_ability_map: (pokemon_form_id, ability_id, is_hidden)
//
// Foreign keys are plain nullable columns. Sync passes fill them in once the
// referenced rows exist, so no table depends on another being synced first.
package models
