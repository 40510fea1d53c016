package query

import (
	"context"
	"fmt"

	"pmteambuilder/core/cache"
	"pmteambuilder/feature/pokedex/models"

	"gorm.io/gorm"
)

// ListFilter narrows the move, ability and item lists.
type ListFilter struct {
	Limit  int
	Offset int
	// GenerationID keeps entries introduced in this generation or earlier.
	// Entries whose generation is unknown are left out.
	GenerationID *int
	// Categories filters moves by damage class and items by category.
	// Abilities ignore it.
	Categories []string
}

func (f ListFilter) normalize() ListFilter {
	if f.Limit <= 0 || f.Limit > DefaultListLimit {
		f.Limit = DefaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Categories = cache.NormalizeSet(f.Categories)
	return f
}

func (f ListFilter) cacheKey(name string) string {
	return key(name).
		Int(f.Limit).
		Int(f.Offset).
		OptInt("gen", f.GenerationID).
		Set("cats", f.Categories).
		String()
}

func (f ListFilter) apply(q *gorm.DB) *gorm.DB {
	if f.GenerationID != nil {
		q = q.Where("generation_id IS NOT NULL AND generation_id <= ?", *f.GenerationID)
	}
	return q.Order("id").Limit(f.Limit).Offset(f.Offset)
}

func listOf[T any](ctx context.Context, s *Service, name string, f ListFilter, scope func(*gorm.DB) *gorm.DB) ([]T, error) {
	return cache.GetOrLoad(ctx, s.loader, f.cacheKey(name), s.cfg.ListTTL,
		func(ctx context.Context) ([]T, error) {
			out := []T{}
			q := f.apply(s.db.WithContext(ctx).Model(new(T)))
			if scope != nil {
				q = scope(q)
			}
			if err := q.Find(&out).Error; err != nil {
				return nil, fmt.Errorf("list %s: %w", name, err)
			}
			return out, nil
		})
}

// ListMoves lists moves ordered by id.
func (s *Service) ListMoves(ctx context.Context, f ListFilter) ([]models.Move, error) {
	f = f.normalize()
	return listOf[models.Move](ctx, s, "move_list", f, func(q *gorm.DB) *gorm.DB {
		if len(f.Categories) > 0 {
			q = q.Where("category IN ?", f.Categories)
		}
		return q
	})
}

// ListAbilities lists abilities ordered by id.
func (s *Service) ListAbilities(ctx context.Context, f ListFilter) ([]models.Ability, error) {
	f = f.normalize()
	f.Categories = nil
	return listOf[models.Ability](ctx, s, "ability_list", f, nil)
}

// ListItems lists items ordered by id. Without a category filter only
// DefaultItemCategories are returned.
func (s *Service) ListItems(ctx context.Context, f ListFilter) ([]models.Item, error) {
	f = f.normalize()
	if len(f.Categories) == 0 {
		f.Categories = cache.NormalizeSet(DefaultItemCategories)
	}
	return listOf[models.Item](ctx, s, "item_list", f, func(q *gorm.DB) *gorm.DB {
		return q.Where("category IN ?", f.Categories)
	})
}
