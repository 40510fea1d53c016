package query

import "time"

// Config holds the cache lifetimes of each query shape.
type Config struct {
	PokemonListTTL   time.Duration `mapstructure:"pokemon_list_ttl" default:"1h"`
	FormAbilitiesTTL time.Duration `mapstructure:"form_abilities_ttl" default:"5m"`
	LearnableTTL     time.Duration `mapstructure:"learnable_ttl" default:"1h"`
	GenerationsTTL   time.Duration `mapstructure:"generations_ttl" default:"24h"`
	ListTTL          time.Duration `mapstructure:"list_ttl" default:"1h"`
}

// DefaultConfig returns the lifetimes used when none are configured.
func DefaultConfig() Config {
	return Config{
		PokemonListTTL:   time.Hour,
		FormAbilitiesTTL: 5 * time.Minute,
		LearnableTTL:     time.Hour,
		GenerationsTTL:   24 * time.Hour,
		ListTTL:          time.Hour,
	}
}
