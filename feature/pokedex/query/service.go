package query

import (
	"context"
	"errors"
	"fmt"

	"pmteambuilder/core/cache"
	"pmteambuilder/feature/pokedex/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested species, form or version group does not exist.
var ErrNotFound = errors.New("query: not found")

const keyspace = "pokedex"

const (
	DefaultPokemonLimit = 50
	MaxPokemonLimit     = 2000
	DefaultListLimit    = 10000
)

// DefaultItemCategories are the battle-relevant item categories listed when no category filter is given.
var DefaultItemCategories = []string{
	"held-items", "bad-held-items", "choice", "mega-stones", "z-crystals",
	"plates", "picky-healing", "species-specific", "medicine",
}

// Service answers team-builder reads from the cache and the relational store.
type Service struct {
	db     *gorm.DB
	loader *cache.Loader
	cfg    Config
	logger *zap.Logger
}

// New creates a query service. Zero TTLs fall back to DefaultConfig.
func New(db *gorm.DB, loader *cache.Loader, cfg Config, logger *zap.Logger) *Service {
	def := DefaultConfig()
	if cfg.PokemonListTTL <= 0 {
		cfg.PokemonListTTL = def.PokemonListTTL
	}
	if cfg.FormAbilitiesTTL <= 0 {
		cfg.FormAbilitiesTTL = def.FormAbilitiesTTL
	}
	if cfg.LearnableTTL <= 0 {
		cfg.LearnableTTL = def.LearnableTTL
	}
	if cfg.GenerationsTTL <= 0 {
		cfg.GenerationsTTL = def.GenerationsTTL
	}
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = def.ListTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, loader: loader, cfg: cfg, logger: logger}
}

func key(name string) *cache.KeyBuilder {
	return cache.NewKey(keyspace + ":" + name)
}

// Invalidate drops every cached query result and returns the number of removed keys.
func (s *Service) Invalidate(ctx context.Context) (int, error) {
	n, err := s.loader.Cache().DeletePrefix(ctx, keyspace+":")
	if err != nil {
		return n, fmt.Errorf("invalidate query cache: %w", err)
	}
	return n, nil
}

// Prewarm loads the lists every team-builder session starts with.
func (s *Service) Prewarm(ctx context.Context) error {
	var errs []error
	if _, err := s.GenerationsWithVersionGroups(ctx); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.ListPokemon(ctx, PokemonFilter{}); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.ListMoves(ctx, ListFilter{}); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.ListAbilities(ctx, ListFilter{}); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.ListItems(ctx, ListFilter{}); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("prewarm query cache: %w", err)
	}
	s.logger.Info("Query cache prewarmed")
	return nil
}

// GenerationsWithVersionGroups lists every generation with its version groups, both ordered by id.
func (s *Service) GenerationsWithVersionGroups(ctx context.Context) ([]models.GenerationView, error) {
	return cache.GetOrLoad(ctx, s.loader, key("generations").String(), s.cfg.GenerationsTTL,
		func(ctx context.Context) ([]models.GenerationView, error) {
			var gens []models.Generation
			if err := s.db.WithContext(ctx).Order("id").Find(&gens).Error; err != nil {
				return nil, fmt.Errorf("list generations: %w", err)
			}
			var vgs []models.VersionGroup
			if err := s.db.WithContext(ctx).Where("generation_id IS NOT NULL").Order("id").Find(&vgs).Error; err != nil {
				return nil, fmt.Errorf("list version groups: %w", err)
			}

			byGen := make(map[int][]models.VersionGroupView, len(gens))
			for _, vg := range vgs {
				byGen[*vg.GenerationID] = append(byGen[*vg.GenerationID], models.VersionGroupView{ID: vg.ID, Name: vg.Name})
			}

			out := make([]models.GenerationView, 0, len(gens))
			for _, g := range gens {
				view := models.GenerationView{ID: g.ID, Name: g.Name, NameZhHans: g.NameZhHans, VersionGroups: byGen[g.ID]}
				if view.VersionGroups == nil {
					view.VersionGroups = []models.VersionGroupView{}
				}
				out = append(out, view)
			}
			return out, nil
		})
}

// exists reports whether a row with id is present in the table of model.
func (s *Service) exists(ctx context.Context, model any, id int) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
