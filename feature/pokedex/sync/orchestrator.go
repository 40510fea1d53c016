package sync

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"time"

	"pmteambuilder/core/lock"
	"pmteambuilder/core/pipeline"
	"pmteambuilder/core/progress"
	"pmteambuilder/feature/pokedex/localize"
	"pmteambuilder/feature/pokedex/pokeapi"
	"pmteambuilder/feature/pokedex/store"

	"go.uber.org/zap"
)

// Stage names, in run order. They double as checkpoint keys.
const (
	StageTypes         = "types"
	StageGenerations   = "generations"
	StageVersionGroups = "version_groups"
	StageAbilities     = "abilities"
	StageMoves         = "moves"
	StageItems         = "items"
	StagePokemon       = "pokemon"
	StageMembership    = "generation_species"
	StageLearnset      = "move_learnset"
	StageFormAbilities = "form_abilities"
)

// Stages returns every stage name in run order.
func Stages() []string {
	return []string{
		StageTypes, StageGenerations, StageVersionGroups, StageAbilities, StageMoves,
		StageItems, StagePokemon, StageMembership, StageLearnset, StageFormAbilities,
	}
}

// ErrAlreadyRunning is returned when a run is requested while one is active in this process.
var ErrAlreadyRunning = errors.New("sync already running")

// Refresher drops and rebuilds derived caches after a sync.
type Refresher interface {
	Invalidate(ctx context.Context) (int, error)
	Prewarm(ctx context.Context) error
}

// Options select what a run does.
type Options struct {
	// Force forgets done markers and cursors and rewrites existing form mappings.
	// A later run finishes an interrupted forced refresh the same way.
	Force bool
	// Only restricts the run to these stages. Empty runs all of them.
	Only []string
}

func (o Options) includes(stage string) bool {
	return len(o.Only) == 0 || slices.Contains(o.Only, stage)
}

// Report summarizes a run.
type Report struct {
	StartedAt     time.Time            `json:"started_at"`
	Duration      time.Duration        `json:"duration"`
	Force         bool                 `json:"force"`
	Skipped       bool                 `json:"skipped"`
	Stages        []*pipeline.Report   `json:"stages"`
	Backfill      store.BackfillResult `json:"backfill"`
	Learnset      *EntityReport        `json:"learnset,omitempty"`
	FormAbilities *EntityReport        `json:"form_abilities,omitempty"`
	AllDone       bool                 `json:"all_done"`
	Error         string               `json:"error,omitempty"`
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Source    pokeapi.Source
	Store     *store.Store
	Tracker   *progress.Tracker
	Locks     lock.Manager
	Localizer *localize.Localizer
	// Refresher is optional.
	Refresher Refresher
	Logger    *zap.Logger
}

// Orchestrator runs the reference-data sync.
type Orchestrator struct {
	cfg      Config
	pageSize int
	src      pokeapi.Source
	store    *store.Store
	tracker  *progress.Tracker
	locks    lock.Manager
	names    *localize.Localizer
	refresh  Refresher
	logger   *zap.Logger

	// retryWait is the pause before learnset attempt n+1.
	retryWait func(attempt int) time.Duration

	running atomic.Bool
	last    atomic.Pointer[Report]
}

// New creates an orchestrator. pageSize is the listing page size of the source.
func New(cfg Config, pageSize int, d Deps) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.LearnsetRetries <= 0 {
		cfg.LearnsetRetries = 3
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Minute
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	o := &Orchestrator{
		cfg:      cfg,
		pageSize: pageSize,
		src:      d.Source,
		store:    d.Store,
		tracker:  d.Tracker,
		locks:    d.Locks,
		names:    d.Localizer,
		refresh:  d.Refresher,
		logger:   d.Logger,
	}
	o.retryWait = func(attempt int) time.Duration {
		return time.Duration(attempt+1) * time.Second
	}
	return o
}

// Running reports whether a run is active in this process.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// LastReport returns the report of the most recent finished run, or nil.
func (o *Orchestrator) LastReport() *Report {
	return o.last.Load()
}

// Tracker returns the progress tracker.
func (o *Orchestrator) Tracker() *progress.Tracker {
	return o.tracker
}

// Run executes a sync and blocks until it ends.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Report, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer o.running.Store(false)
	return o.run(ctx, opts)
}

// TriggerAsync starts a run in the background and returns immediately.
// The run outlives ctx's cancellation.
func (o *Orchestrator) TriggerAsync(ctx context.Context, force bool) error {
	if !o.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		defer o.running.Store(false)
		if _, err := o.run(bg, Options{Force: force}); err != nil {
			o.logger.Error("Background sync failed", zap.Error(err))
		}
	}()
	return nil
}

func (o *Orchestrator) run(ctx context.Context, opts Options) (*Report, error) {
	rep := &Report{StartedAt: time.Now(), Force: opts.Force}
	defer func() {
		rep.Duration = time.Since(rep.StartedAt)
		o.last.Store(rep)
	}()

	if err := o.tracker.Reload(ctx); err != nil {
		o.logger.Warn("Could not reload progress, using the in-memory checkpoint", zap.Error(err))
	}

	if o.tracker.AllDone() && !opts.Force && len(opts.Only) == 0 {
		o.logger.Info("Reference data already synced, skipping run")
		rep.Skipped = true
		rep.AllDone = true
		return rep, nil
	}
	if opts.Force {
		_ = o.tracker.SetAllDone(ctx, false)
	}

	o.logger.Info("Starting reference data sync", zap.Bool("force", opts.Force), zap.Strings("only", opts.Only))

	err := o.runStages(ctx, opts, rep)
	if err != nil {
		rep.Error = err.Error()
	}

	if err == nil && len(opts.Only) == 0 && o.allClean(rep) {
		if serr := o.tracker.SetAllDone(ctx, true); serr != nil {
			o.logger.Warn("Could not mark sync complete", zap.Error(serr))
		} else {
			rep.AllDone = true
		}
	}

	o.refreshCaches(ctx)

	o.logger.Info("Reference data sync finished",
		zap.Bool("all_done", rep.AllDone),
		zap.Duration("duration", time.Since(rep.StartedAt)),
		zap.Error(err))
	return rep, err
}

func (o *Orchestrator) runStages(ctx context.Context, opts Options, rep *Report) error {
	runner := pipeline.NewRunner(o.tracker, o.locks, o.logger, pipeline.Options{
		BatchSize:       o.cfg.BatchSize,
		CheckpointEvery: o.cfg.CheckpointEvery,
		LockTTL:         o.cfg.LockTTL,
		Force:           opts.Force,
	})

	flat := []struct {
		name string
		run  func(context.Context, *pipeline.Runner) (*pipeline.Report, error)
	}{
		{StageTypes, o.syncTypes},
		{StageGenerations, o.syncGenerations},
		{StageVersionGroups, o.syncVersionGroups},
		{StageAbilities, o.syncAbilities},
		{StageMoves, o.syncMoves},
		{StageItems, o.syncItems},
		{StagePokemon, o.syncPokemon},
		{StageMembership, o.syncMembership},
	}

	for _, st := range flat {
		if !opts.includes(st.name) {
			continue
		}
		sr, err := st.run(ctx, runner)
		if sr != nil {
			rep.Stages = append(rep.Stages, sr)
		}
		if err != nil {
			return err
		}
	}

	if opts.includes(StageMembership) || opts.includes(StagePokemon) {
		res, err := o.store.BackfillFirstGeneration(ctx)
		if err != nil {
			o.logger.Warn("First generation backfill failed", zap.Error(err))
		} else {
			rep.Backfill = res
			o.logger.Info("First generation backfilled",
				zap.Int("updated", res.Updated),
				zap.Int("skipped", res.Skipped))
		}
	}

	if opts.includes(StageLearnset) {
		r, err := o.syncLearnsets(ctx, opts.Force)
		rep.Learnset = r
		if err != nil {
			return err
		}
	}
	if opts.includes(StageFormAbilities) {
		r, err := o.syncFormAbilities(ctx, opts.Force)
		rep.FormAbilities = r
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) allClean(rep *Report) bool {
	for _, s := range rep.Stages {
		if !s.Completed && !s.Skipped {
			return false
		}
	}
	for _, e := range []*EntityReport{rep.Learnset, rep.FormAbilities} {
		if e == nil || !(e.Completed || e.Skipped) {
			return false
		}
	}
	return true
}

func (o *Orchestrator) refreshCaches(ctx context.Context) {
	if o.refresh == nil {
		return
	}
	n, err := o.refresh.Invalidate(ctx)
	if err != nil {
		o.logger.Warn("Cache invalidation failed", zap.Error(err))
		return
	}
	if err := o.refresh.Prewarm(ctx); err != nil {
		o.logger.Warn("Cache prewarm failed", zap.Error(err))
	}
	o.logger.Debug("Caches refreshed", zap.Int("invalidated", n))
}
