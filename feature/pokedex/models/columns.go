package models

// Entity is a flat reference row merged by id. UpsertColumns lists the
// columns overwritten when the row already exists; columns maintained by
// backfill passes are left out.
type Entity interface {
	TableName() string
	UpsertColumns() []string
}

func (Type) UpsertColumns() []string { return []string{"name", "name_zh_hans"} }

func (Generation) UpsertColumns() []string { return []string{"name", "name_zh_hans"} }

func (VersionGroup) UpsertColumns() []string {
	return []string{"name", "generation_id", "sort_order"}
}

func (Ability) UpsertColumns() []string {
	return []string{"name", "name_zh_hans", "description_en", "description_zh_hans", "generation_id"}
}

func (Move) UpsertColumns() []string {
	return []string{
		"name", "name_zh_hans", "type", "category", "power", "accuracy", "pp",
		"description_en", "description_zh_hans", "generation_id",
	}
}

func (Item) UpsertColumns() []string {
	return []string{"name", "name_zh_hans", "category", "sprite", "description_en", "description_zh_hans", "generation_id"}
}

func (PokemonSpecies) UpsertColumns() []string {
	return []string{"name", "name_zh_hans", "gender_rate", "generation_id"}
}

func (Pokemon) UpsertColumns() []string {
	return []string{
		"species_id", "name", "form_name", "form_name_zh_hans", "is_default", "sprite",
		"type_1", "type_2", "base_hp", "base_atk", "base_def", "base_spa", "base_spd", "base_spe",
		"form_version_group_id",
	}
}
