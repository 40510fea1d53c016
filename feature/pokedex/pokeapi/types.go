package pokeapi

import "pmteambuilder/core/utils"

// NamedResource is a reference to another resource.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ID is the numeric id at the end of the reference URL, or 0.
func (r NamedResource) ID() int {
	return utils.IDFromURL(r.URL)
}

// IDPtr is ID as a nullable column value.
func (r NamedResource) IDPtr() *int {
	id := r.ID()
	if id == 0 {
		return nil
	}
	return &id
}

// ResourceList is one page of a listing endpoint.
type ResourceList struct {
	Count   int             `json:"count"`
	Next    *string         `json:"next"`
	Results []NamedResource `json:"results"`
}

type Name struct {
	Name     string        `json:"name"`
	Language NamedResource `json:"language"`
}

type FlavorText struct {
	FlavorText string        `json:"flavor_text"`
	Text       string        `json:"text"`
	Language   NamedResource `json:"language"`
}

type Effect struct {
	Effect      string        `json:"effect"`
	ShortEffect string        `json:"short_effect"`
	Language    NamedResource `json:"language"`
}

type TypeDetail struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Names []Name `json:"names"`
}

type GenerationDetail struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Names         []Name          `json:"names"`
	VersionGroups []NamedResource `json:"version_groups"`
}

type VersionGroupDetail struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Order      int             `json:"order"`
	Generation NamedResource   `json:"generation"`
	Pokedexes  []NamedResource `json:"pokedexes"`
}

type AbilityDetail struct {
	ID                int           `json:"id"`
	Name              string        `json:"name"`
	Names             []Name        `json:"names"`
	EffectEntries     []Effect      `json:"effect_entries"`
	FlavorTextEntries []FlavorText  `json:"flavor_text_entries"`
	Generation        NamedResource `json:"generation"`
}

type MoveDetail struct {
	ID                int           `json:"id"`
	Name              string        `json:"name"`
	Names             []Name        `json:"names"`
	Type              NamedResource `json:"type"`
	DamageClass       NamedResource `json:"damage_class"`
	Power             *int          `json:"power"`
	Accuracy          *int          `json:"accuracy"`
	PP                *int          `json:"pp"`
	EffectEntries     []Effect      `json:"effect_entries"`
	FlavorTextEntries []FlavorText  `json:"flavor_text_entries"`
	Generation        NamedResource `json:"generation"`
}

type GameIndex struct {
	GameIndex  int           `json:"game_index"`
	Generation NamedResource `json:"generation"`
}

type ItemDetail struct {
	ID                int           `json:"id"`
	Name              string        `json:"name"`
	Names             []Name        `json:"names"`
	Category          NamedResource `json:"category"`
	EffectEntries     []Effect      `json:"effect_entries"`
	FlavorTextEntries []FlavorText  `json:"flavor_text_entries"`
	GameIndices       []GameIndex   `json:"game_indices"`
	Sprites           struct {
		Default *string `json:"default"`
	} `json:"sprites"`
}

// FirstGeneration is the lowest generation id among the item's game indices.
func (d ItemDetail) FirstGeneration() *int {
	var first *int
	for _, gi := range d.GameIndices {
		id := gi.Generation.ID()
		if id == 0 {
			continue
		}
		if first == nil || id < *first {
			v := id
			first = &v
		}
	}
	return first
}

type SpeciesVariety struct {
	IsDefault bool          `json:"is_default"`
	Pokemon   NamedResource `json:"pokemon"`
}

type SpeciesDetail struct {
	ID         int              `json:"id"`
	Name       string           `json:"name"`
	Names      []Name           `json:"names"`
	GenderRate *int             `json:"gender_rate"`
	Generation NamedResource    `json:"generation"`
	Varieties  []SpeciesVariety `json:"varieties"`
}

type PokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

type PokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Stat     NamedResource `json:"stat"`
}

type PokemonAbility struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

type VersionGroupLearn struct {
	LevelLearnedAt  int           `json:"level_learned_at"`
	MoveLearnMethod NamedResource `json:"move_learn_method"`
	VersionGroup    NamedResource `json:"version_group"`
}

type PokemonMove struct {
	Move                NamedResource       `json:"move"`
	VersionGroupDetails []VersionGroupLearn `json:"version_group_details"`
}

type PokemonDetail struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	IsDefault bool             `json:"is_default"`
	Species   NamedResource    `json:"species"`
	Forms     []NamedResource  `json:"forms"`
	Types     []PokemonType    `json:"types"`
	Stats     []PokemonStat    `json:"stats"`
	Abilities []PokemonAbility `json:"abilities"`
	Moves     []PokemonMove    `json:"moves"`
	Sprites   struct {
		FrontDefault *string `json:"front_default"`
	} `json:"sprites"`
}

// BaseStat returns the base value of the named stat, or 0.
func (d PokemonDetail) BaseStat(name string) int {
	for _, s := range d.Stats {
		if s.Stat.Name == name {
			return s.BaseStat
		}
	}
	return 0
}

// TypeNames returns the type names ordered by slot.
func (d PokemonDetail) TypeNames() []string {
	out := make([]string, 0, len(d.Types))
	for slot := 1; slot <= 2; slot++ {
		for _, t := range d.Types {
			if t.Slot == slot {
				out = append(out, t.Type.Name)
			}
		}
	}
	return out
}

type PokemonFormDetail struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	FormName     string        `json:"form_name"`
	IsDefault    bool          `json:"is_default"`
	VersionGroup NamedResource `json:"version_group"`
}

type PokedexEntry struct {
	EntryNumber    int           `json:"entry_number"`
	PokemonSpecies NamedResource `json:"pokemon_species"`
}

type PokedexDetail struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	VersionGroups  []NamedResource `json:"version_groups"`
	PokemonEntries []PokedexEntry  `json:"pokemon_entries"`
}
