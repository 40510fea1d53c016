package models

// Stats are the six base stats of a form.
type Stats struct {
	HP  int `json:"hp"`
	Atk int `json:"atk"`
	Def int `json:"def"`
	Spa int `json:"spa"`
	Spd int `json:"spd"`
	Spe int `json:"spe"`
}

// FormAbilityView is an ability of a form as shown to team builders.
type FormAbilityView struct {
	AbilityID     int    `json:"ability_id"`
	Name          string `json:"name"`
	NameZhHans    string `json:"name_zh_hans"`
	DescriptionEn string `json:"description_en,omitempty"`
	DescriptionZh string `json:"description_zh_hans,omitempty"`
	IsHidden      bool   `json:"is_hidden"`
	Slot          int    `json:"slot"`
}

// PokemonSummary is one row of the Pokémon list.
type PokemonSummary struct {
	ID                int               `json:"id"`
	SpeciesID         int               `json:"species_id"`
	Name              string            `json:"name"`
	DisplayName       string            `json:"name_zh_hans"`
	SpeciesName       string            `json:"species_name"`
	FormName          string            `json:"form_name,omitempty"`
	IsDefault         bool              `json:"is_default"`
	Sprite            string            `json:"sprite"`
	Types             []string          `json:"types"`
	Stats             Stats             `json:"base_stats"`
	FirstGenerationID *int              `json:"first_generation_id"`
	Abilities         []FormAbilityView `json:"abilities"`
}

// PokemonPage is a page of the Pokémon list with the total match count.
type PokemonPage struct {
	Count   int64            `json:"count"`
	Results []PokemonSummary `json:"results"`
}

// LearnableMove is a move a species can learn, with how it is learned.
// In generation-wide lists the method fields describe one representative row.
type LearnableMove struct {
	MoveID         int    `json:"move_id"`
	Name           string `json:"name"`
	NameZhHans     string `json:"name_zh_hans"`
	Type           string `json:"type"`
	Category       string `json:"category"`
	Power          *int   `json:"power"`
	Accuracy       *int   `json:"accuracy"`
	PP             *int   `json:"pp"`
	Description    string `json:"desc"`
	LearnMethod    string `json:"learn_method"`
	Level          int    `json:"level"`
	VersionGroupID int    `json:"version_group_id"`
}

// VersionGroupView is a version group inside a generation listing.
type VersionGroupView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenerationView is a generation with its version groups.
type GenerationView struct {
	ID            int                `json:"id"`
	Name          string             `json:"name"`
	NameZhHans    string             `json:"name_zh_hans"`
	VersionGroups []VersionGroupView `json:"version_groups"`
}

// Types returns the non-empty types of a form in slot order.
func (p Pokemon) Types() []string {
	out := make([]string, 0, 2)
	if p.Type1 != "" {
		out = append(out, p.Type1)
	}
	if p.Type2 != "" {
		out = append(out, p.Type2)
	}
	return out
}

// Stats returns the base stats of a form.
func (p Pokemon) Stats() Stats {
	return Stats{HP: p.BaseHP, Atk: p.BaseAtk, Def: p.BaseDef, Spa: p.BaseSpa, Spd: p.BaseSpd, Spe: p.BaseSpe}
}
