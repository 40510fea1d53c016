package store

import (
	"context"
	"fmt"

	"pmteambuilder/feature/pokedex/models"

	"go.uber.org/zap"
)

// BackfillResult counts the outcome of BackfillFirstGeneration.
type BackfillResult struct {
	Updated   int
	Unchanged int
	Skipped   int
}

// BackfillFirstGeneration sets pokemon.first_generation_id.
//
// Non-default forms take the generation of the version group they were
// introduced in. Default forms take the earliest generation the species is a
// member of, or the species' own generation when it has no membership rows.
// Forms whose generation cannot be resolved are logged and skipped.
func (s *Store) BackfillFirstGeneration(ctx context.Context) (BackfillResult, error) {
	var res BackfillResult
	db := s.db.WithContext(ctx)

	var forms []models.Pokemon
	if err := db.Select("id", "name", "species_id", "is_default", "form_version_group_id", "first_generation_id").
		Order("id").Find(&forms).Error; err != nil {
		return res, fmt.Errorf("failed to load forms: %w", err)
	}

	var vgs []models.VersionGroup
	if err := db.Select("id", "generation_id").Find(&vgs).Error; err != nil {
		return res, fmt.Errorf("failed to load version groups: %w", err)
	}
	vgGen := make(map[int]int, len(vgs))
	for _, vg := range vgs {
		if vg.GenerationID != nil {
			vgGen[vg.ID] = *vg.GenerationID
		}
	}

	var firsts []struct {
		SpeciesID    int
		GenerationID int
	}
	if err := db.Model(&models.GenerationSpecies{}).
		Select("pokemon_species_id AS species_id, MIN(generation_id) AS generation_id").
		Group("pokemon_species_id").
		Scan(&firsts).Error; err != nil {
		return res, fmt.Errorf("failed to load membership: %w", err)
	}
	speciesFirst := make(map[int]int, len(firsts))
	for _, f := range firsts {
		speciesFirst[f.SpeciesID] = f.GenerationID
	}

	var species []models.PokemonSpecies
	if err := db.Select("id", "generation_id").Find(&species).Error; err != nil {
		return res, fmt.Errorf("failed to load species: %w", err)
	}
	speciesGen := make(map[int]int, len(species))
	for _, sp := range species {
		if sp.GenerationID != nil {
			speciesGen[sp.ID] = *sp.GenerationID
		}
	}

	for _, f := range forms {
		var gen int
		if f.IsDefault {
			gen = speciesFirst[f.SpeciesID]
			if gen == 0 {
				gen = speciesGen[f.SpeciesID]
			}
		} else if f.FormVersionGroupID != nil {
			gen = vgGen[*f.FormVersionGroupID]
		}

		if gen == 0 {
			s.logger.Debug("Cannot resolve first generation",
				zap.Int("pokemon_id", f.ID),
				zap.String("name", f.Name))
			res.Skipped++
			continue
		}
		if f.FirstGenerationID != nil && *f.FirstGenerationID == gen {
			res.Unchanged++
			continue
		}

		if err := db.Model(&models.Pokemon{}).Where("id = ?", f.ID).
			Update("first_generation_id", gen).Error; err != nil {
			s.logger.Warn("Failed to backfill first generation",
				zap.Int("pokemon_id", f.ID),
				zap.Error(err))
			res.Skipped++
			continue
		}
		res.Updated++
	}

	return res, nil
}
