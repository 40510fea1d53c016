package progress

import (
	"fmt"

	"pmteambuilder/core/storage"

	"go.uber.org/zap"
)

// Config selects where the checkpoint lives.
type Config struct {
	// Backend is "file" or "object".
	Backend string `mapstructure:"backend" default:"file"`
	// Path is the checkpoint file for the file backend.
	Path string `mapstructure:"path" default:"data/sync_progress.json"`
	// Object is the object name for the object backend. The bucket comes from storage config.
	Object string `mapstructure:"object" default:"sync/progress.json"`
	// FlushEvery is how many per-entity markers are buffered between writes.
	FlushEvery int `mapstructure:"flush_every" default:"25"`
}

const (
	BackendFile   = "file"
	BackendObject = "object"
)

// NewStore builds the configured Store. client and bucket are only used by the object backend.
func NewStore(cfg Config, client storage.Client, bucket string, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.Path, logger), nil
	case BackendObject:
		if client == nil {
			return nil, fmt.Errorf("object progress backend requires a storage client")
		}
		return NewObjectStore(client, bucket, cfg.Object, logger), nil
	default:
		return nil, fmt.Errorf("unknown progress backend: %s", cfg.Backend)
	}
}
