package cmd

import (
	"context"
	"fmt"

	"pmteambuilder/core/cache"
	"pmteambuilder/core/config"
	"pmteambuilder/core/database"
	"pmteambuilder/core/lock"
	"pmteambuilder/core/logger"
	"pmteambuilder/core/progress"
	"pmteambuilder/core/storage"
	"pmteambuilder/feature/pokedex/localize"
	"pmteambuilder/feature/pokedex/pokeapi"
	"pmteambuilder/feature/pokedex/query"
	"pmteambuilder/feature/pokedex/store"
	pokesync "pmteambuilder/feature/pokedex/sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application holds the wired components shared by the commands.
type application struct {
	cfg    *config.Config
	logger *zap.Logger

	db      *gorm.DB
	store   *store.Store
	objects storage.Client // nil unless checkpoints live in object storage
	redis   *redis.Client  // nil without a redis URL
	tracker *progress.Tracker
	locks   lock.Manager
	cache   cache.Cache

	query        *query.Service
	orchestrator *pokesync.Orchestrator
}

// bootstrap loads the configuration and wires every component. The schema is migrated.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &application{cfg: cfg, logger: logg}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	app.db = db
	app.store = store.New(db, logg)
	if err := app.store.Migrate(ctx); err != nil {
		return nil, err
	}

	if err := app.openRedis(ctx); err != nil {
		return nil, err
	}

	if cfg.Progress.Backend == progress.BackendObject {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		app.objects = client
	}

	progressStore, err := progress.NewStore(cfg.Progress, app.objects, cfg.Storage.Bucket, logg)
	if err != nil {
		return nil, err
	}
	if app.tracker, err = progress.NewTracker(ctx, progressStore, logg,
		progress.WithLock(app.locks),
		progress.WithFlushEvery(cfg.Progress.FlushEvery)); err != nil {
		return nil, err
	}

	names, err := localize.Load(cfg.Localize)
	if err != nil {
		return nil, err
	}

	app.query = query.New(db, cache.NewLoader(app.cache, logg), cfg.Query, logg)
	app.orchestrator = pokesync.New(cfg.Sync, cfg.PokeAPI.PageSize, pokesync.Deps{
		Source:    pokeapi.New(cfg.PokeAPI, logg),
		Store:     app.store,
		Tracker:   app.tracker,
		Locks:     app.locks,
		Localizer: names,
		Refresher: app.query,
		Logger:    logg,
	})
	return app, nil
}

// openRedis selects the cache and lock backends. Without a URL both stay in process.
func (a *application) openRedis(ctx context.Context) error {
	if a.cfg.Redis.URL == "" {
		a.logger.Info("No redis configured, using in-process cache and locks")
		a.cache = cache.NewMemory()
		a.locks = lock.NewMemory()
		if a.cfg.Redis.Disabled {
			a.cache = cache.Noop{}
		}
		return nil
	}

	client, err := cache.NewRedisClient(a.cfg.Redis.URL)
	if err != nil {
		return err
	}
	a.redis = client
	// locks stay on redis even when it is down so workers never run unguarded
	a.locks = lock.NewRedis(client, a.cfg.Redis.Prefix)
	if a.cfg.Redis.Disabled {
		a.cache = cache.Noop{}
		return nil
	}
	a.cache = cache.Connect(ctx, client, a.cfg.Redis.Prefix, a.logger)
	return nil
}

// Close releases the connections held by the application.
func (a *application) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
