package query

import (
	"context"
	"fmt"
	"strings"

	"pmteambuilder/core/cache"
	"pmteambuilder/feature/pokedex/models"

	"gorm.io/gorm"
)

// PokemonFilter narrows the Pokémon list. Zero values mean no filter.
type PokemonFilter struct {
	Limit        int
	Offset       int
	GenerationID *int
	Search       string
	// Types holds English type names. One type matches either slot, two must
	// both be present in any order, more than two are ignored.
	Types []string
}

func (f PokemonFilter) normalize() PokemonFilter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultPokemonLimit
	case f.Limit > MaxPokemonLimit:
		f.Limit = MaxPokemonLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	f.Types = cache.NormalizeSet(f.Types)
	if len(f.Types) > 2 {
		f.Types = nil
	}
	return f
}

func (f PokemonFilter) cacheKey() string {
	return key("pokemon_list").
		Int(f.Limit).
		Int(f.Offset).
		OptInt("gen", f.GenerationID).
		OptString("q", f.Search).
		Set("types", f.Types).
		String()
}

type pokemonRow struct {
	models.Pokemon
	SpeciesName       string
	SpeciesNameZhHans string
}

// ListPokemon returns a page of forms ordered by id together with the total number of matches.
func (s *Service) ListPokemon(ctx context.Context, f PokemonFilter) (*models.PokemonPage, error) {
	f = f.normalize()
	return cache.GetOrLoad(ctx, s.loader, f.cacheKey(), s.cfg.PokemonListTTL,
		func(ctx context.Context) (*models.PokemonPage, error) {
			return s.loadPokemon(ctx, f)
		})
}

func (s *Service) loadPokemon(ctx context.Context, f PokemonFilter) (*models.PokemonPage, error) {
	q := s.db.WithContext(ctx).
		Table("pokemon AS p").
		Joins("JOIN pokemon_species AS s ON s.id = p.species_id")

	if f.GenerationID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM generation_pokemon_species AS g WHERE g.pokemon_species_id = p.species_id AND g.generation_id = ?)", *f.GenerationID)
	}
	if f.Search != "" {
		term := "%" + f.Search + "%"
		q = q.Where("(LOWER(p.name) LIKE ? OR LOWER(s.name) LIKE ? OR s.name_zh_hans LIKE ? OR p.form_name_zh_hans LIKE ?)", term, term, term, term)
	}
	switch len(f.Types) {
	case 1:
		q = q.Where("(p.type_1 = ? OR p.type_2 = ?)", f.Types[0], f.Types[0])
	case 2:
		a, b := f.Types[0], f.Types[1]
		q = q.Where("((p.type_1 = ? AND p.type_2 = ?) OR (p.type_1 = ? AND p.type_2 = ?))", a, b, b, a)
	}
	q = q.Session(&gorm.Session{})

	page := &models.PokemonPage{Results: []models.PokemonSummary{}}
	if err := q.Count(&page.Count).Error; err != nil {
		return nil, fmt.Errorf("count pokemon: %w", err)
	}
	if page.Count == 0 {
		return page, nil
	}

	var rows []pokemonRow
	err := q.Select("p.*, s.name AS species_name, s.name_zh_hans AS species_name_zh_hans").
		Order("p.id").
		Limit(f.Limit).
		Offset(f.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list pokemon: %w", err)
	}

	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	abilities, err := s.formAbilitiesOf(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		display := r.FormNameZhHans
		if display == "" {
			display = r.SpeciesNameZhHans
		}
		sum := models.PokemonSummary{
			ID:                r.ID,
			SpeciesID:         r.SpeciesID,
			Name:              r.Name,
			DisplayName:       display,
			SpeciesName:       r.SpeciesName,
			FormName:          r.FormName,
			IsDefault:         r.IsDefault,
			Sprite:            r.Sprite,
			Types:             r.Types(),
			Stats:             r.Stats(),
			FirstGenerationID: r.FirstGenerationID,
			Abilities:         abilities[r.ID],
		}
		if sum.Abilities == nil {
			sum.Abilities = []models.FormAbilityView{}
		}
		page.Results = append(page.Results, sum)
	}
	return page, nil
}

type formAbilityRow struct {
	FormID int
	models.FormAbilityView
}

// formAbilitiesOf loads the abilities of many forms in one query.
func (s *Service) formAbilitiesOf(ctx context.Context, formIDs []int) (map[int][]models.FormAbilityView, error) {
	out := make(map[int][]models.FormAbilityView, len(formIDs))
	if len(formIDs) == 0 {
		return out, nil
	}
	var rows []formAbilityRow
	err := s.db.WithContext(ctx).
		Table("pokemon_form_ability_map AS m").
		Select("m.pokemon_form_id AS form_id, a.id AS ability_id, a.name, a.name_zh_hans, "+
			"a.description_en, a.description_zh_hans AS description_zh, m.is_hidden, m.slot").
		Joins("JOIN abilities AS a ON a.id = m.ability_id").
		Where("m.pokemon_form_id IN ?", formIDs).
		Order("m.pokemon_form_id, m.is_hidden, m.slot, a.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load form abilities: %w", err)
	}
	for _, r := range rows {
		out[r.FormID] = append(out[r.FormID], r.FormAbilityView)
	}
	return out, nil
}

// FormAbilities returns the abilities of a form with their hidden flag.
// A form without mappings yields an empty list; an unknown form yields ErrNotFound.
func (s *Service) FormAbilities(ctx context.Context, formID int) ([]models.FormAbilityView, error) {
	k := key("form_abilities").Int(formID).String()
	return cache.GetOrLoad(ctx, s.loader, k, s.cfg.FormAbilitiesTTL,
		func(ctx context.Context) ([]models.FormAbilityView, error) {
			ok, err := s.exists(ctx, &models.Pokemon{}, formID)
			if err != nil {
				return nil, fmt.Errorf("find form %d: %w", formID, err)
			}
			if !ok {
				return nil, fmt.Errorf("form %d: %w", formID, ErrNotFound)
			}
			byForm, err := s.formAbilitiesOf(ctx, []int{formID})
			if err != nil {
				return nil, err
			}
			if byForm[formID] == nil {
				return []models.FormAbilityView{}, nil
			}
			return byForm[formID], nil
		})
}

// SpeciesAbilities returns the distinct abilities across the default forms of a species.
func (s *Service) SpeciesAbilities(ctx context.Context, speciesID int) ([]models.FormAbilityView, error) {
	k := key("species_abilities").Int(speciesID).String()
	return cache.GetOrLoad(ctx, s.loader, k, s.cfg.FormAbilitiesTTL,
		func(ctx context.Context) ([]models.FormAbilityView, error) {
			ok, err := s.exists(ctx, &models.PokemonSpecies{}, speciesID)
			if err != nil {
				return nil, fmt.Errorf("find species %d: %w", speciesID, err)
			}
			if !ok {
				return nil, fmt.Errorf("species %d: %w", speciesID, ErrNotFound)
			}

			var formIDs []int
			err = s.db.WithContext(ctx).Model(&models.Pokemon{}).
				Where("species_id = ? AND is_default = ?", speciesID, true).
				Order("id").
				Pluck("id", &formIDs).Error
			if err != nil {
				return nil, fmt.Errorf("list default forms: %w", err)
			}
			byForm, err := s.formAbilitiesOf(ctx, formIDs)
			if err != nil {
				return nil, err
			}

			out := []models.FormAbilityView{}
			seen := make(map[int]struct{})
			for _, id := range formIDs {
				for _, a := range byForm[id] {
					if _, ok := seen[a.AbilityID]; ok {
						continue
					}
					seen[a.AbilityID] = struct{}{}
					out = append(out, a)
				}
			}
			return out, nil
		})
}
