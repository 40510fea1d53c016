package sync

import (
	"context"
	"errors"
	"fmt"
	"slices"
	gosync "sync"
	"time"

	"pmteambuilder/core/lock"
	"pmteambuilder/core/logger"
	"pmteambuilder/core/progress"
	"pmteambuilder/feature/pokedex/models"
	"pmteambuilder/feature/pokedex/pokeapi"
	"pmteambuilder/feature/pokedex/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EntityReport summarizes a stage gated per entity.
type EntityReport struct {
	Stage       string        `json:"stage"`
	Skipped     bool          `json:"skipped"`
	Total       int           `json:"total"`
	Processed   int           `json:"processed"`
	AlreadyDone int           `json:"already_done"`
	Contended   int           `json:"contended"`
	Failed      int           `json:"failed"`
	Rows        int64         `json:"rows"`
	Completed   bool          `json:"completed"`
	Duration    time.Duration `json:"duration"`
}

type outcome int

const (
	outcomeSynced outcome = iota
	outcomeAlreadyDone
)

// entityGate runs work once per entity id: each entity takes its own lock
// and is marked done on success, so an interrupted run only redoes the
// entities it had not finished.
type entityGate struct {
	stage string
	// after lists the stages the entity list and name indexes come from.
	// The stage stays open until they are done.
	after   []string
	doneKey func(id int) string
	lockKey func(id int) string
	// work syncs one entity. refresh is set while a forced run of the stage
	// is unfinished, including when a later run resumes it.
	work func(ctx context.Context, id int, refresh bool) (rows int64, o outcome, err error)
}

// refreshKey marks a forced run of stage that has not completed yet.
func refreshKey(stage string) string {
	return stage + ":refresh"
}

func (o *Orchestrator) runGate(ctx context.Context, g entityGate, ids []int, force bool) (*EntityReport, error) {
	l := logger.WithStage(o.logger, g.stage)
	started := time.Now()
	rep := &EntityReport{Stage: g.stage, Total: len(ids)}
	defer func() { rep.Duration = time.Since(started) }()

	if !force && o.tracker.IsDone(g.stage) {
		rep.Skipped = true
		l.Info("Stage already done, skipping")
		return rep, nil
	}
	if force {
		// markers from earlier runs must not survive an interrupted refresh
		if err := o.tracker.ForgetPrefix(ctx, g.stage+":"); err != nil {
			return rep, fmt.Errorf("forget %s markers: %w", g.stage, err)
		}
		if err := o.tracker.Forget(ctx, g.stage); err != nil {
			return rep, fmt.Errorf("forget %s: %w", g.stage, err)
		}
		if err := o.tracker.MarkDone(ctx, refreshKey(g.stage)); err != nil {
			return rep, fmt.Errorf("mark %s refresh: %w", g.stage, err)
		}
	}
	refresh := o.tracker.IsDone(refreshKey(g.stage))
	if refresh && !force {
		l.Info("Resuming an unfinished forced refresh")
	}

	var mu gosync.Mutex
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.cfg.Concurrency)

	for i, id := range ids {
		if err := egctx.Err(); err != nil {
			break
		}
		eg.Go(func() error {
			rows, res, err := o.gateOne(egctx, g, id, refresh, l)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, errContended):
				rep.Contended++
			case err != nil:
				rep.Failed++
			case res == outcomeAlreadyDone:
				rep.AlreadyDone++
			default:
				rep.Processed++
				rep.Rows += rows
			}
			if (i+1)%100 == 0 {
				l.Info("Progress", zap.Int("position", i+1), zap.Int("total", len(ids)))
			}
			return nil
		})
	}
	_ = eg.Wait()

	if err := o.tracker.Flush(context.WithoutCancel(ctx)); err != nil {
		l.Warn("Could not persist entity markers", zap.Error(err))
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	pending := slices.DeleteFunc(slices.Clone(g.after), o.tracker.IsDone)
	switch {
	case rep.Failed > 0 || rep.Contended > 0:
	case len(pending) > 0:
		l.Info("Upstream stages incomplete, leaving stage open", zap.Strings("pending", pending))
	default:
		if refresh {
			if err := o.tracker.Forget(ctx, refreshKey(g.stage)); err != nil {
				l.Warn("Could not close forced refresh", zap.Error(err))
				break
			}
		}
		if err := o.tracker.MarkDone(ctx, g.stage); err != nil {
			l.Warn("Could not mark stage done", zap.Error(err))
		} else {
			rep.Completed = true
		}
	}

	l.Info("Stage finished",
		zap.Int("processed", rep.Processed),
		zap.Int("already_done", rep.AlreadyDone),
		zap.Int("contended", rep.Contended),
		zap.Int("failed", rep.Failed),
		zap.Int64("rows", rep.Rows))
	return rep, nil
}

var errContended = errors.New("entity locked by another run")

func (o *Orchestrator) gateOne(ctx context.Context, g entityGate, id int, refresh bool, l *zap.Logger) (int64, outcome, error) {
	key := g.doneKey(id)
	if o.tracker.IsDone(key) {
		return 0, outcomeAlreadyDone, nil
	}

	release, ok, err := lock.Held(ctx, o.locks, g.lockKey(id), o.cfg.LockTTL)
	if err != nil {
		l.Warn("Lock backend error", zap.Int("id", id), zap.Error(err))
		return 0, outcomeSynced, err
	}
	if !ok {
		l.Debug("Entity locked by another run, skipping", zap.Int("id", id))
		return 0, outcomeSynced, errContended
	}
	defer release()

	// a checkpoint reload may have brought in another worker's marker
	if o.tracker.IsDone(key) {
		return 0, outcomeAlreadyDone, nil
	}

	rows, res, err := g.work(ctx, id, refresh)
	if err != nil {
		l.Warn("Entity failed", zap.Int("id", id), zap.Error(err))
		return 0, res, err
	}
	if err := o.tracker.MarkEntityDone(ctx, key); err != nil {
		l.Warn("Could not mark entity done", zap.Int("id", id), zap.Error(err))
	}
	return rows, res, nil
}

func (o *Orchestrator) unknownRef(stage string) func(kind, name string) {
	var mu gosync.Mutex
	seen := make(map[string]bool)
	return func(kind, name string) {
		mu.Lock()
		defer mu.Unlock()
		if seen[kind+":"+name] {
			return
		}
		seen[kind+":"+name] = true
		o.logger.Warn("Reference not found locally, skipping relation",
			zap.String("stage", stage),
			zap.String("kind", kind),
			zap.String("name", name))
	}
}

func (o *Orchestrator) syncLearnsets(ctx context.Context, force bool) (*EntityReport, error) {
	species, err := o.store.SpeciesRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	moveIDs, err := o.store.NameIndex(ctx, &models.Move{})
	if err != nil {
		return nil, fmt.Errorf("index moves: %w", err)
	}
	vgIDs, err := o.store.NameIndex(ctx, &models.VersionGroup{})
	if err != nil {
		return nil, fmt.Errorf("index version groups: %w", err)
	}
	unknown := o.unknownRef(StageLearnset)

	ids := make([]int, len(species))
	for i, s := range species {
		ids[i] = s.ID
	}

	return o.runGate(ctx, entityGate{
		stage:   StageLearnset,
		after:   []string{StageVersionGroups, StageMoves, StagePokemon},
		doneKey: progress.SpeciesLearnsetKey,
		lockKey: lock.SpeciesLearnsetKey,
		work: func(ctx context.Context, id int, _ bool) (int64, outcome, error) {
			missing := 0
			rows, err := o.fetchLearnset(ctx, id, moveIDs, vgIDs, func(kind, name string) {
				missing++
				unknown(kind, name)
			})
			if err != nil {
				return 0, outcomeSynced, err
			}
			n, err := o.insertLearnset(ctx, id, rows)
			if err == nil && missing > 0 {
				// keep the species open until its moves and version groups are synced
				err = fmt.Errorf("%d references not synced yet", missing)
			}
			return n, outcomeSynced, err
		},
	}, ids, force)
}

func (o *Orchestrator) fetchLearnset(ctx context.Context, speciesID int, moveIDs, vgIDs map[string]int, unknown func(kind, name string)) ([]models.MoveLearnset, error) {
	sp, err := pokeapi.Get[pokeapi.SpeciesDetail](ctx, o.src, fmt.Sprintf("pokemon-species/%d/", speciesID))
	if err != nil {
		return nil, err
	}
	var rows []models.MoveLearnset
	for _, v := range sp.Varieties {
		p, err := pokeapi.Get[pokeapi.PokemonDetail](ctx, o.src, v.Pokemon.URL)
		if err != nil {
			return nil, fmt.Errorf("variety %s: %w", v.Pokemon.Name, err)
		}
		rows = append(rows, toLearnset(speciesID, p, moveIDs, vgIDs, unknown)...)
	}
	return rows, nil
}

// insertLearnset commits a species' rows, retrying while the database reports a lock timeout.
func (o *Orchestrator) insertLearnset(ctx context.Context, speciesID int, rows []models.MoveLearnset) (int64, error) {
	var err error
	for attempt := 0; attempt < o.cfg.LearnsetRetries; attempt++ {
		var n int64
		n, err = o.store.InsertLearnset(ctx, rows)
		if err == nil {
			return n, nil
		}
		if !store.IsRetryable(err) {
			return 0, err
		}
		o.logger.Warn("Database locked, retrying learnset",
			zap.Int("species_id", speciesID),
			zap.Int("attempt", attempt+1))
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(o.retryWait(attempt)):
		}
	}
	return 0, err
}

func (o *Orchestrator) syncFormAbilities(ctx context.Context, force bool) (*EntityReport, error) {
	forms, err := o.store.FormRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	abilityIDs, err := o.store.NameIndex(ctx, &models.Ability{})
	if err != nil {
		return nil, fmt.Errorf("index abilities: %w", err)
	}
	unknown := o.unknownRef(StageFormAbilities)

	ids := make([]int, len(forms))
	for i, f := range forms {
		ids[i] = f.ID
	}

	return o.runGate(ctx, entityGate{
		stage:   StageFormAbilities,
		after:   []string{StageAbilities, StagePokemon},
		doneKey: progress.FormAbilitiesKey,
		lockKey: lock.FormAbilitiesKey,
		work: func(ctx context.Context, id int, refresh bool) (int64, outcome, error) {
			if !refresh {
				has, err := o.store.HasFormAbilities(ctx, id)
				if err != nil {
					return 0, outcomeSynced, err
				}
				if has {
					return 0, outcomeAlreadyDone, nil
				}
			}

			p, err := pokeapi.Get[pokeapi.PokemonDetail](ctx, o.src, fmt.Sprintf("pokemon/%d/", id))
			if err != nil {
				return 0, outcomeSynced, err
			}
			missing := 0
			rows := toFormAbilities(id, p, abilityIDs, func(kind, name string) {
				missing++
				unknown(kind, name)
			})
			if missing > 0 {
				// a partial mapping would pass the existence check on the next run
				return 0, outcomeSynced, fmt.Errorf("%d abilities not synced yet", missing)
			}
			diff, err := o.store.ReplaceFormAbilities(ctx, id, rows)
			if err != nil {
				return 0, outcomeSynced, err
			}
			return int64(diff.Added + diff.Removed + diff.Updated), outcomeSynced, nil
		},
	}, ids, force)
}
