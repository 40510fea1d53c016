package config

import (
	"reflect"
	"strings"

	"pmteambuilder/core/cache"
	"pmteambuilder/core/database"
	"pmteambuilder/core/logger"
	"pmteambuilder/core/progress"
	"pmteambuilder/core/server"
	"pmteambuilder/core/storage"
	"pmteambuilder/feature/pokedex/localize"
	"pmteambuilder/feature/pokedex/pokeapi"
	"pmteambuilder/feature/pokedex/query"
	"pmteambuilder/feature/pokedex/sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the relational store.
	Database database.Config `mapstructure:"database"`
	// Redis holds configuration for the cache and lock backend.
	Redis cache.Config `mapstructure:"redis"`
	// Storage holds configuration for the object storage used by the progress checkpoint.
	Storage storage.Config `mapstructure:"storage"`
	// Progress selects where sync checkpoints are persisted.
	Progress progress.Config `mapstructure:"progress"`
	// PokeAPI holds configuration for the remote reference-data source.
	PokeAPI pokeapi.Config `mapstructure:"pokeapi"`
	// Sync holds the orchestrator tuning and schedule.
	Sync sync.Config `mapstructure:"sync"`
	// Localize holds the name localizer rule table location.
	Localize localize.Config `mapstructure:"localize"`
	// Query holds the cache lifetimes of team-builder reads.
	Query query.Config `mapstructure:"query"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine in production
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// SYNC_BATCH_SIZE -> sync.batch_size
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the struct and registers every 'mapstructure' key in Viper
// with the value of its 'default' tag.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Registering an empty default still makes the key visible to AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
