package store

import (
	"context"

	"pmteambuilder/feature/pokedex/models"
)

type idName struct {
	ID   int
	Name string
}

// NameIndex maps name to id for a flat table such as &models.Move{}.
func (s *Store) NameIndex(ctx context.Context, model models.Entity) (map[string]int, error) {
	var rows []idName
	if err := s.db.WithContext(ctx).Model(model).Select("id", "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Name] = r.ID
	}
	return out, nil
}

// SpeciesRefs lists every stored species ordered by id.
func (s *Store) SpeciesRefs(ctx context.Context) ([]models.PokemonSpecies, error) {
	var out []models.PokemonSpecies
	err := s.db.WithContext(ctx).Select("id", "name").Order("id").Find(&out).Error
	return out, err
}

// FormRefs lists every stored form ordered by id.
func (s *Store) FormRefs(ctx context.Context) ([]models.Pokemon, error) {
	var out []models.Pokemon
	err := s.db.WithContext(ctx).Select("id", "name", "species_id").Order("id").Find(&out).Error
	return out, err
}

// VersionGroupsByGeneration groups version group ids by generation id.
func (s *Store) VersionGroupsByGeneration(ctx context.Context) (map[int][]int, error) {
	var vgs []models.VersionGroup
	if err := s.db.WithContext(ctx).Select("id", "generation_id").Order("id").Find(&vgs).Error; err != nil {
		return nil, err
	}
	out := make(map[int][]int)
	for _, vg := range vgs {
		if vg.GenerationID == nil {
			continue
		}
		out[*vg.GenerationID] = append(out[*vg.GenerationID], vg.ID)
	}
	return out, nil
}
