package query

import (
	"context"
	"fmt"

	"pmteambuilder/core/cache"
	"pmteambuilder/feature/pokedex/models"

	"gorm.io/gorm"
)

const learnableColumns = "m.id AS move_id, m.name, m.name_zh_hans, m.type, m.category, m.power, m.accuracy, m.pp, " +
	"CASE WHEN m.description_zh_hans <> '' THEN m.description_zh_hans ELSE m.description_en END AS description, " +
	"l.learn_method, l.level, l.version_group_id"

// LearnableMoves lists the moves a species learns in one version group, one entry per move.
// The entry describes the first way of learning it by method then level.
func (s *Service) LearnableMoves(ctx context.Context, speciesID, versionGroupID int) ([]models.LearnableMove, error) {
	k := key("learnable").Int(speciesID).OptInt("vg", &versionGroupID).String()
	return cache.GetOrLoad(ctx, s.loader, k, s.cfg.LearnableTTL,
		func(ctx context.Context) ([]models.LearnableMove, error) {
			if err := s.requireSpecies(ctx, speciesID); err != nil {
				return nil, err
			}
			ok, err := s.exists(ctx, &models.VersionGroup{}, versionGroupID)
			if err != nil {
				return nil, fmt.Errorf("find version group %d: %w", versionGroupID, err)
			}
			if !ok {
				return nil, fmt.Errorf("version group %d: %w", versionGroupID, ErrNotFound)
			}
			return s.learnable(ctx, speciesID, func(q *gorm.DB) *gorm.DB {
				return q.Where("l.version_group_id = ?", versionGroupID)
			})
		})
}

// LearnableMovesByGeneration unions the learnsets of every version group in a
// generation and keeps each move once, however many ways it is learned.
func (s *Service) LearnableMovesByGeneration(ctx context.Context, speciesID, generationID int) ([]models.LearnableMove, error) {
	k := key("learnable").Int(speciesID).OptInt("gen", &generationID).String()
	return cache.GetOrLoad(ctx, s.loader, k, s.cfg.LearnableTTL,
		func(ctx context.Context) ([]models.LearnableMove, error) {
			if err := s.requireSpecies(ctx, speciesID); err != nil {
				return nil, err
			}
			return s.learnable(ctx, speciesID, func(q *gorm.DB) *gorm.DB {
				return q.Joins("JOIN version_groups AS vg ON vg.id = l.version_group_id").
					Where("vg.generation_id = ?", generationID)
			})
		})
}

func (s *Service) requireSpecies(ctx context.Context, speciesID int) error {
	ok, err := s.exists(ctx, &models.PokemonSpecies{}, speciesID)
	if err != nil {
		return fmt.Errorf("find species %d: %w", speciesID, err)
	}
	if !ok {
		return fmt.Errorf("species %d: %w", speciesID, ErrNotFound)
	}
	return nil
}

func (s *Service) learnable(ctx context.Context, speciesID int, scope func(*gorm.DB) *gorm.DB) ([]models.LearnableMove, error) {
	q := s.db.WithContext(ctx).
		Table("pokemon_move_learnset AS l").
		Select(learnableColumns).
		Joins("JOIN moves AS m ON m.id = l.move_id").
		Where("l.pokemon_species_id = ?", speciesID)

	var rows []models.LearnableMove
	err := scope(q).
		Order("m.id, l.version_group_id, l.learn_method, l.level").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list learnable moves: %w", err)
	}
	return dedupeByMove(rows), nil
}

// dedupeByMove keeps the first row of each move. rows must be ordered by move id.
func dedupeByMove(rows []models.LearnableMove) []models.LearnableMove {
	out := make([]models.LearnableMove, 0, len(rows))
	for _, r := range rows {
		if n := len(out); n > 0 && out[n-1].MoveID == r.MoveID {
			continue
		}
		out = append(out, r)
	}
	return out
}
