package store

import (
	"context"
	"fmt"

	"pmteambuilder/feature/pokedex/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const relationBatchSize = 500

// InsertMembership records generation/species/version group triples.
func (s *Store) InsertMembership(ctx context.Context, rows []models.GenerationSpecies) Result {
	var res Result
	for start := 0; start < len(rows); start += relationBatchSize {
		end := min(start+relationBatchSize, len(rows))
		r := InsertIgnore(ctx, s, rows[start:end])
		res.Applied += r.Applied
		res.Failed += r.Failed
		res.Errors = append(res.Errors, r.Errors...)
	}
	return res
}

// InsertLearnset writes one species' learnset in a single transaction.
// Duplicate tuples in rows and rows already stored are skipped. It returns
// the number of new rows.
func (s *Store) InsertLearnset(ctx context.Context, rows []models.MoveLearnset) (int64, error) {
	rows = dedupeLearnset(rows)
	if len(rows) == 0 {
		return 0, nil
	}

	var inserted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, relationBatchSize)
		inserted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert learnset of species %d: %w", rows[0].SpeciesID, err)
	}
	return inserted, nil
}

func dedupeLearnset(rows []models.MoveLearnset) []models.MoveLearnset {
	seen := make(map[models.MoveLearnset]struct{}, len(rows))
	out := rows[:0:0]
	for _, r := range rows {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// HasFormAbilities reports whether any ability is mapped to the form.
func (s *Store) HasFormAbilities(ctx context.Context, formID int) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.FormAbility{}).
		Where("pokemon_form_id = ?", formID).
		Count(&n).Error
	return n > 0, err
}

// FormAbilityDiff is the outcome of ReplaceFormAbilities.
type FormAbilityDiff struct {
	Added   int
	Removed int
	Updated int
}

type formAbilityKey struct {
	abilityID int
	hidden    bool
}

// ReplaceFormAbilities makes the form's mappings equal to rows: missing
// mappings are inserted, stale ones deleted and changed slots updated.
func (s *Store) ReplaceFormAbilities(ctx context.Context, formID int, rows []models.FormAbility) (FormAbilityDiff, error) {
	var diff FormAbilityDiff

	desired := make(map[formAbilityKey]models.FormAbility, len(rows))
	for _, r := range rows {
		r.FormID = formID
		desired[formAbilityKey{r.AbilityID, r.IsHidden}] = r
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.FormAbility
		if err := tx.Where("pokemon_form_id = ?", formID).Find(&existing).Error; err != nil {
			return err
		}

		current := make(map[formAbilityKey]models.FormAbility, len(existing))
		for _, e := range existing {
			k := formAbilityKey{e.AbilityID, e.IsHidden}
			current[k] = e
			want, keep := desired[k]
			if !keep {
				if err := tx.Where("pokemon_form_id = ? AND ability_id = ? AND is_hidden = ?", formID, e.AbilityID, e.IsHidden).
					Delete(&models.FormAbility{}).Error; err != nil {
					return err
				}
				diff.Removed++
				continue
			}
			if want.Slot != e.Slot {
				if err := tx.Model(&models.FormAbility{}).
					Where("pokemon_form_id = ? AND ability_id = ? AND is_hidden = ?", formID, e.AbilityID, e.IsHidden).
					Update("slot", want.Slot).Error; err != nil {
					return err
				}
				diff.Updated++
			}
		}

		var missing []models.FormAbility
		for k, r := range desired {
			if _, ok := current[k]; !ok {
				missing = append(missing, r)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&missing).Error; err != nil {
			return err
		}
		diff.Added = len(missing)
		return nil
	})
	if err != nil {
		return FormAbilityDiff{}, fmt.Errorf("failed to replace abilities of form %d: %w", formID, err)
	}
	return diff, nil
}
