package sync

import (
	"pmteambuilder/feature/pokedex/localize"
	"pmteambuilder/feature/pokedex/models"
	"pmteambuilder/feature/pokedex/pokeapi"
)

const zh = pokeapi.LangChinese

func toType(d *pokeapi.TypeDetail) models.Type {
	return models.Type{
		ID:         d.ID,
		Name:       d.Name,
		NameZhHans: pokeapi.LocalName(d.Names, zh, d.Name),
	}
}

func toGeneration(d *pokeapi.GenerationDetail) models.Generation {
	return models.Generation{
		ID:         d.ID,
		Name:       d.Name,
		NameZhHans: pokeapi.LocalName(d.Names, zh, d.Name),
	}
}

func toVersionGroup(d *pokeapi.VersionGroupDetail) models.VersionGroup {
	return models.VersionGroup{
		ID:           d.ID,
		Name:         d.Name,
		GenerationID: d.Generation.IDPtr(),
		Order:        d.Order,
	}
}

func toAbility(d *pokeapi.AbilityDetail) models.Ability {
	return models.Ability{
		ID:                d.ID,
		Name:              d.Name,
		NameZhHans:        pokeapi.LocalName(d.Names, zh, d.Name),
		DescriptionEn:     pokeapi.EffectIn(d.EffectEntries, pokeapi.LangEnglish, false),
		DescriptionZhHans: pokeapi.Description(d.FlavorTextEntries),
		GenerationID:      d.Generation.IDPtr(),
	}
}

func toMove(d *pokeapi.MoveDetail) models.Move {
	return models.Move{
		ID:                d.ID,
		Name:              d.Name,
		NameZhHans:        pokeapi.LocalName(d.Names, zh, d.Name),
		Type:              d.Type.Name,
		Category:          d.DamageClass.Name,
		Power:             d.Power,
		Accuracy:          d.Accuracy,
		PP:                d.PP,
		DescriptionEn:     pokeapi.EffectIn(d.EffectEntries, pokeapi.LangEnglish, true),
		DescriptionZhHans: pokeapi.Description(d.FlavorTextEntries),
		GenerationID:      d.Generation.IDPtr(),
	}
}

func toItem(d *pokeapi.ItemDetail) models.Item {
	it := models.Item{
		ID:                d.ID,
		Name:              d.Name,
		NameZhHans:        pokeapi.LocalName(d.Names, zh, d.Name),
		Category:          d.Category.Name,
		DescriptionEn:     pokeapi.EffectIn(d.EffectEntries, pokeapi.LangEnglish, false),
		DescriptionZhHans: pokeapi.Description(d.FlavorTextEntries),
		GenerationID:      d.FirstGeneration(),
	}
	if d.Sprites.Default != nil {
		it.Sprite = *d.Sprites.Default
	}
	return it
}

func toSpecies(d *pokeapi.SpeciesDetail) models.PokemonSpecies {
	return models.PokemonSpecies{
		ID:           d.ID,
		Name:         d.Name,
		NameZhHans:   pokeapi.LocalName(d.Names, zh, d.Name),
		GenderRate:   d.GenderRate,
		GenerationID: d.Generation.IDPtr(),
	}
}

// toForm builds a form row. form may be nil when the form resource is unavailable;
// the display name then comes from the pokemon name alone.
func toForm(p *pokeapi.PokemonDetail, sp *models.PokemonSpecies, form *pokeapi.PokemonFormDetail, l *localize.Localizer) models.Pokemon {
	var suffix string
	var vg *int
	if form != nil {
		suffix = form.FormName
		vg = form.VersionGroup.IDPtr()
	}

	out := models.Pokemon{
		ID:                 p.ID,
		SpeciesID:          sp.ID,
		Name:               p.Name,
		FormName:           suffix,
		FormNameZhHans:     l.LocalizePokemon(p.Name, suffix, sp.Name, sp.NameZhHans),
		IsDefault:          p.IsDefault,
		BaseHP:             p.BaseStat("hp"),
		BaseAtk:            p.BaseStat("attack"),
		BaseDef:            p.BaseStat("defense"),
		BaseSpa:            p.BaseStat("special-attack"),
		BaseSpd:            p.BaseStat("special-defense"),
		BaseSpe:            p.BaseStat("speed"),
		FormVersionGroupID: vg,
	}
	if p.Sprites.FrontDefault != nil {
		out.Sprite = *p.Sprites.FrontDefault
	}
	types := p.TypeNames()
	if len(types) > 0 {
		out.Type1 = types[0]
	}
	if len(types) > 1 {
		out.Type2 = types[1]
	}
	return out
}

// toLearnset flattens a pokemon's moves into learnset rows of species.
// Moves and version groups missing from the index are reported through unknown.
func toLearnset(speciesID int, p *pokeapi.PokemonDetail, moveIDs, vgIDs map[string]int, unknown func(kind, name string)) []models.MoveLearnset {
	var out []models.MoveLearnset
	for _, m := range p.Moves {
		moveID, ok := moveIDs[m.Move.Name]
		if !ok {
			unknown("move", m.Move.Name)
			continue
		}
		for _, d := range m.VersionGroupDetails {
			vgID, ok := vgIDs[d.VersionGroup.Name]
			if !ok {
				unknown("version_group", d.VersionGroup.Name)
				continue
			}
			out = append(out, models.MoveLearnset{
				SpeciesID:      speciesID,
				MoveID:         moveID,
				VersionGroupID: vgID,
				LearnMethod:    d.MoveLearnMethod.Name,
				Level:          d.LevelLearnedAt,
			})
		}
	}
	return out
}

func toFormAbilities(formID int, p *pokeapi.PokemonDetail, abilityIDs map[string]int, unknown func(kind, name string)) []models.FormAbility {
	out := make([]models.FormAbility, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		id, ok := abilityIDs[a.Ability.Name]
		if !ok {
			unknown("ability", a.Ability.Name)
			continue
		}
		out = append(out, models.FormAbility{
			FormID:    formID,
			AbilityID: id,
			IsHidden:  a.IsHidden,
			Slot:      a.Slot,
		})
	}
	return out
}
