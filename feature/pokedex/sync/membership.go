package sync

import (
	"context"
	"fmt"
	"slices"

	"pmteambuilder/core/pipeline"
	"pmteambuilder/feature/pokedex/models"
	"pmteambuilder/feature/pokedex/pokeapi"

	"go.uber.org/zap"
)

// dexMembership is the membership rows derived from one regional pokedex.
type dexMembership struct {
	Pokedex string
	Rows    []models.GenerationSpecies
}

// syncMembership derives generation/species/version group triples. A pokedex
// lists species and the version groups using it; each species becomes a member
// of every version group in the generations of those version groups.
func (o *Orchestrator) syncMembership(ctx context.Context, r *pipeline.Runner) (*pipeline.Report, error) {
	stage := pipeline.Stage[dexMembership]{
		Name: StageMembership,
		Source: func(ctx context.Context, offset int, sink pipeline.Sink[dexMembership]) error {
			byGen, err := o.store.VersionGroupsByGeneration(ctx)
			if err != nil {
				return fmt.Errorf("load version groups: %w", err)
			}
			vgGen := make(map[int]int)
			for gen, vgs := range byGen {
				for _, vg := range vgs {
					vgGen[vg] = gen
				}
			}

			return streamDetails(ctx, o, "pokedex", offset, sink, func(ctx context.Context, d *pokeapi.PokedexDetail) (dexMembership, error) {
				return o.dexMembership(ctx, d, vgGen, byGen), nil
			})
		},
		Apply: func(ctx context.Context, batch []dexMembership) error {
			var rows []models.GenerationSpecies
			for _, m := range batch {
				rows = append(rows, m.Rows...)
			}
			return o.store.InsertMembership(ctx, rows).Err()
		},
	}
	return pipeline.Run(ctx, r, stage)
}

func (o *Orchestrator) dexMembership(ctx context.Context, d *pokeapi.PokedexDetail, vgGen map[int]int, byGen map[int][]int) dexMembership {
	var gens []int
	for _, ref := range d.VersionGroups {
		gen, ok := vgGen[ref.ID()]
		if !ok {
			vg, err := pokeapi.Get[pokeapi.VersionGroupDetail](ctx, o.src, ref.URL)
			if err != nil || vg.Generation.ID() == 0 {
				o.logger.Warn("Cannot resolve generation of version group, skipping it",
					zap.String("pokedex", d.Name),
					zap.String("version_group", ref.Name),
					zap.Error(err))
				continue
			}
			gen = vg.Generation.ID()
		}
		if !slices.Contains(gens, gen) {
			gens = append(gens, gen)
		}
	}

	out := dexMembership{Pokedex: d.Name}
	for _, e := range d.PokemonEntries {
		speciesID := e.PokemonSpecies.ID()
		if speciesID == 0 {
			o.logger.Warn("Pokedex entry without species id",
				zap.String("pokedex", d.Name),
				zap.String("species", e.PokemonSpecies.Name))
			continue
		}
		for _, gen := range gens {
			for _, vg := range byGen[gen] {
				out.Rows = append(out.Rows, models.GenerationSpecies{
					GenerationID:   gen,
					SpeciesID:      speciesID,
					VersionGroupID: vg,
				})
			}
		}
	}
	return out
}
