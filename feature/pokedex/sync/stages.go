package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"pmteambuilder/core/pipeline"
	"pmteambuilder/feature/pokedex/models"
	"pmteambuilder/feature/pokedex/pokeapi"
	"pmteambuilder/feature/pokedex/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// streamDetails walks a listing from offset, fetches the detail of every entry
// and emits the transformed records in listing order. Details are fetched
// concurrently in groups of cfg.Concurrency.
func streamDetails[D, T any](ctx context.Context, o *Orchestrator, resource string, offset int, sink pipeline.Sink[T],
	transform func(context.Context, *D) (T, error),
) error {
	chunk := make([]pokeapi.NamedResource, 0, o.cfg.Concurrency)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		out := make([]T, len(chunk))
		errs := make([]error, len(chunk))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.cfg.Concurrency)
		for i, ref := range chunk {
			g.Go(func() error {
				d, err := pokeapi.Get[D](gctx, o.src, ref.URL)
				if err == nil {
					out[i], err = transform(gctx, d)
				}
				errs[i] = err
				return nil
			})
		}
		_ = g.Wait()

		for i, ref := range chunk {
			if errs[i] != nil {
				sink.Fail(resource+"/"+ref.Name, errs[i])
				continue
			}
			if err := sink.Emit(out[i]); err != nil {
				return err
			}
		}
		chunk = chunk[:0]
		return nil
	}

	err := pokeapi.Walk(ctx, o.src, resource, o.pageSize, offset,
		func(_ int, ref pokeapi.NamedResource) error {
			chunk = append(chunk, ref)
			if len(chunk) >= o.cfg.Concurrency {
				return flush()
			}
			return nil
		},
		func(at int, err error) {
			sink.Fail(fmt.Sprintf("%s?offset=%d", resource, at), err)
		})
	if err != nil {
		return err
	}
	return flush()
}

func flatStage[D any, T models.Entity](o *Orchestrator, name, resource string, transform func(*D) T) pipeline.Stage[T] {
	return pipeline.Stage[T]{
		Name: name,
		Source: func(ctx context.Context, offset int, sink pipeline.Sink[T]) error {
			return streamDetails(ctx, o, resource, offset, sink, func(_ context.Context, d *D) (T, error) {
				return transform(d), nil
			})
		},
		Apply: func(ctx context.Context, batch []T) error {
			return store.Upsert(ctx, o.store, batch).Err()
		},
	}
}

func (o *Orchestrator) syncTypes(ctx context.Context, r *pipeline.Runner) (*pipeline.Report, error) {
	return pipeline.Run(ctx, r, flatStage(o, StageTypes, "type", toType))
}

func (o *Orchestrator) syncGenerations(ctx context.Context, r *pipeline.Runner) (*pipeline.Report, error) {
	return pipeline.Run(ctx, r, flatStage(o, StageGenerations, "generation", toGeneration))
}

func (o *Orchestrator) syncVersionGroups(ctx context.Context, r *pipeline.Runner) (*pipeline.Report, error) {
	return pipeline.Run(ctx, r, flatStage(o, StageVersionGroups, "version-group", toVersionGroup))
}

func (o *Orchestrator) syncAbilities(ctx context.Context, r *pipeline.Runner) (*pipeline.Report, error) {
	return pipeline.Run(ctx, r, flatStage(o, StageAbilities, "ability", toAbility))
}

func (o *Orchestrator) syncMoves(ctx context.Context, r *pipeline.Runner) (*pipeline.Report, error) {
	return pipeline.Run(ctx, r, flatStage(o, StageMoves, "move", toMove))
}

func (o *Orchestrator) syncItems(ctx context.Context, r *pipeline.Runner) (*pipeline.Report, error) {
	return pipeline.Run(ctx, r, flatStage(o, StageItems, "item", toItem))
}

// formRecord is one pokemon form together with its species.
type formRecord struct {
	Species models.PokemonSpecies
	Form    models.Pokemon
}

func (o *Orchestrator) syncPokemon(ctx context.Context, r *pipeline.Runner) (*pipeline.Report, error) {
	// species details are shared by every form of a species
	var mu gosync.Mutex
	speciesByURL := make(map[string]models.PokemonSpecies)

	speciesFor := func(ctx context.Context, ref pokeapi.NamedResource) (models.PokemonSpecies, error) {
		mu.Lock()
		sp, ok := speciesByURL[ref.URL]
		mu.Unlock()
		if ok {
			return sp, nil
		}
		d, err := pokeapi.Get[pokeapi.SpeciesDetail](ctx, o.src, ref.URL)
		if err != nil {
			return models.PokemonSpecies{}, fmt.Errorf("species %s: %w", ref.Name, err)
		}
		sp = toSpecies(d)
		mu.Lock()
		speciesByURL[ref.URL] = sp
		mu.Unlock()
		return sp, nil
	}

	transform := func(ctx context.Context, p *pokeapi.PokemonDetail) (formRecord, error) {
		sp, err := speciesFor(ctx, p.Species)
		if err != nil {
			return formRecord{}, err
		}

		var form *pokeapi.PokemonFormDetail
		if len(p.Forms) > 0 {
			form, err = pokeapi.Get[pokeapi.PokemonFormDetail](ctx, o.src, p.Forms[0].URL)
			if err != nil {
				// the form only adds the suffix and version group; keep the pokemon
				o.logger.Debug("Form detail unavailable", zap.String("pokemon", p.Name), zap.Error(err))
			}
		}
		return formRecord{Species: sp, Form: toForm(p, &sp, form, o.names)}, nil
	}

	stage := pipeline.Stage[formRecord]{
		Name: StagePokemon,
		Source: func(ctx context.Context, offset int, sink pipeline.Sink[formRecord]) error {
			return streamDetails(ctx, o, "pokemon", offset, sink, transform)
		},
		Apply: func(ctx context.Context, batch []formRecord) error {
			species := make([]models.PokemonSpecies, 0, len(batch))
			forms := make([]models.Pokemon, 0, len(batch))
			seen := make(map[int]bool, len(batch))
			for _, rec := range batch {
				if !seen[rec.Species.ID] {
					seen[rec.Species.ID] = true
					species = append(species, rec.Species)
				}
				forms = append(forms, rec.Form)
			}
			if err := store.Upsert(ctx, o.store, species).Err(); err != nil {
				return fmt.Errorf("species: %w", err)
			}
			return store.Upsert(ctx, o.store, forms).Err()
		},
	}
	return pipeline.Run(ctx, r, stage)
}
