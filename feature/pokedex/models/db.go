package models

// Type is an elemental type.
type Type struct {
	ID         int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name       string `gorm:"column:name;type:varchar(50);uniqueIndex;not null" json:"name"`
	NameZhHans string `gorm:"column:name_zh_hans;type:varchar(50)" json:"name_zh_hans"`
}

func (Type) TableName() string { return "types" }

// Generation is a game era, e.g. generation-iv.
type Generation struct {
	ID         int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name       string `gorm:"column:name;type:varchar(50);uniqueIndex;not null" json:"name"`
	NameZhHans string `gorm:"column:name_zh_hans;type:varchar(50)" json:"name_zh_hans"`
}

func (Generation) TableName() string { return "generations" }

// VersionGroup groups releases that share move and availability data.
// GenerationID stays nullable until the generation itself has been synced.
type VersionGroup struct {
	ID           int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name         string `gorm:"column:name;type:varchar(50);uniqueIndex;not null" json:"name"`
	GenerationID *int   `gorm:"column:generation_id;index" json:"generation_id"`
	Order        int    `gorm:"column:sort_order" json:"order"`
}

func (VersionGroup) TableName() string { return "version_groups" }

type Ability struct {
	ID                int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name              string `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	NameZhHans        string `gorm:"column:name_zh_hans;type:varchar(100);index" json:"name_zh_hans"`
	DescriptionEn     string `gorm:"column:description_en;type:text" json:"description_en"`
	DescriptionZhHans string `gorm:"column:description_zh_hans;type:text" json:"description_zh_hans"`
	GenerationID      *int   `gorm:"column:generation_id;index" json:"generation_id"`
}

func (Ability) TableName() string { return "abilities" }

type Move struct {
	ID                int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name              string `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	NameZhHans        string `gorm:"column:name_zh_hans;type:varchar(100);index" json:"name_zh_hans"`
	Type              string `gorm:"column:type;type:varchar(50);index" json:"type"`
	Category          string `gorm:"column:category;type:varchar(50);index" json:"category"`
	Power             *int   `gorm:"column:power" json:"power"`
	Accuracy          *int   `gorm:"column:accuracy" json:"accuracy"`
	PP                *int   `gorm:"column:pp" json:"pp"`
	DescriptionEn     string `gorm:"column:description_en;type:text" json:"description_en"`
	DescriptionZhHans string `gorm:"column:description_zh_hans;type:text" json:"description_zh_hans"`
	GenerationID      *int   `gorm:"column:generation_id;index" json:"generation_id"`
}

func (Move) TableName() string { return "moves" }

type Item struct {
	ID                int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name              string `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	NameZhHans        string `gorm:"column:name_zh_hans;type:varchar(100);index" json:"name_zh_hans"`
	Category          string `gorm:"column:category;type:varchar(100);index" json:"category"`
	Sprite            string `gorm:"column:sprite;type:varchar(255)" json:"sprite"`
	DescriptionEn     string `gorm:"column:description_en;type:text" json:"description_en"`
	DescriptionZhHans string `gorm:"column:description_zh_hans;type:text" json:"description_zh_hans"`
	GenerationID      *int   `gorm:"column:generation_id;index" json:"generation_id"`
}

func (Item) TableName() string { return "items" }

// PokemonSpecies is a Pokémon kind independent of its forms.
type PokemonSpecies struct {
	ID           int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name         string `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	NameZhHans   string `gorm:"column:name_zh_hans;type:varchar(100);index" json:"name_zh_hans"`
	GenderRate   *int   `gorm:"column:gender_rate" json:"gender_rate"`
	GenerationID *int   `gorm:"column:generation_id;index" json:"generation_id"`
}

func (PokemonSpecies) TableName() string { return "pokemon_species" }

// Pokemon is one form of a species. Exactly one form per species is default.
type Pokemon struct {
	ID                 int    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	SpeciesID          int    `gorm:"column:species_id;not null;index" json:"species_id"`
	Name               string `gorm:"column:name;type:varchar(100);not null;index" json:"name"`
	FormName           string `gorm:"column:form_name;type:varchar(100)" json:"form_name"`
	FormNameZhHans     string `gorm:"column:form_name_zh_hans;type:varchar(100)" json:"form_name_zh_hans"`
	IsDefault          bool   `gorm:"column:is_default" json:"is_default"`
	Sprite             string `gorm:"column:sprite;type:varchar(255)" json:"sprite"`
	Type1              string `gorm:"column:type_1;type:varchar(50)" json:"type_1"`
	Type2              string `gorm:"column:type_2;type:varchar(50)" json:"type_2"`
	BaseHP             int    `gorm:"column:base_hp" json:"base_hp"`
	BaseAtk            int    `gorm:"column:base_atk" json:"base_atk"`
	BaseDef            int    `gorm:"column:base_def" json:"base_def"`
	BaseSpa            int    `gorm:"column:base_spa" json:"base_spa"`
	BaseSpd            int    `gorm:"column:base_spd" json:"base_spd"`
	BaseSpe            int    `gorm:"column:base_spe" json:"base_spe"`
	FormVersionGroupID *int   `gorm:"column:form_version_group_id" json:"-"`
	FirstGenerationID  *int   `gorm:"column:first_generation_id;index" json:"first_generation_id"`
}

func (Pokemon) TableName() string { return "pokemon" }

// GenerationSpecies records that a species is obtainable in a version group of a generation.
type GenerationSpecies struct {
	GenerationID   int `gorm:"column:generation_id;primaryKey;autoIncrement:false" json:"generation_id"`
	SpeciesID      int `gorm:"column:pokemon_species_id;primaryKey;autoIncrement:false;index" json:"species_id"`
	VersionGroupID int `gorm:"column:version_group_id;primaryKey;autoIncrement:false" json:"version_group_id"`
}

func (GenerationSpecies) TableName() string { return "generation_pokemon_species" }

// MoveLearnset is one way a species learns a move in a version group.
// Level is 0 for methods without a level.
type MoveLearnset struct {
	SpeciesID      int    `gorm:"column:pokemon_species_id;primaryKey;autoIncrement:false;index:ix_learnset_species_vg,priority:1" json:"species_id"`
	MoveID         int    `gorm:"column:move_id;primaryKey;autoIncrement:false;index" json:"move_id"`
	VersionGroupID int    `gorm:"column:version_group_id;primaryKey;autoIncrement:false;index:ix_learnset_species_vg,priority:2" json:"version_group_id"`
	LearnMethod    string `gorm:"column:learn_method;type:varchar(50);primaryKey" json:"learn_method"`
	Level          int    `gorm:"column:level;primaryKey;autoIncrement:false" json:"level"`
}

func (MoveLearnset) TableName() string { return "pokemon_move_learnset" }

// FormAbility maps a form to an ability. The hidden flag is part of the key.
type FormAbility struct {
	FormID    int  `gorm:"column:pokemon_form_id;primaryKey;autoIncrement:false;index" json:"form_id"`
	AbilityID int  `gorm:"column:ability_id;primaryKey;autoIncrement:false;index" json:"ability_id"`
	IsHidden  bool `gorm:"column:is_hidden;primaryKey" json:"is_hidden"`
	Slot      int  `gorm:"column:slot" json:"slot"`
}

func (FormAbility) TableName() string { return "pokemon_form_ability_map" }

// All lists every model in dependency order.
func All() []any {
	return []any{
		&Type{}, &Generation{}, &VersionGroup{}, &Ability{}, &Move{}, &Item{},
		&PokemonSpecies{}, &Pokemon{}, &GenerationSpecies{}, &MoveLearnset{}, &FormAbility{},
	}
}
