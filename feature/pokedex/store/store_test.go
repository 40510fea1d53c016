package store

import (
	"context"
	"errors"
	"testing"

	"pmteambuilder/core/database"
	"pmteambuilder/feature/pokedex/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	s := New(db, zap.NewNop())
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func intPtr(v int) *int { return &v }

func TestUpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []models.Ability{{
		ID:                9,
		Name:              "static",
		NameZhHans:        "静电",
		DescriptionEn:     "May paralyze on contact.",
		DescriptionZhHans: "身上带有静电，有时会让接触到的对手麻痹。",
		GenerationID:      intPtr(3),
	}}

	res := Upsert(ctx, s, rows)
	require.NoError(t, res.Err())
	assert.Equal(t, 1, res.Applied)

	res = Upsert(ctx, s, rows)
	require.NoError(t, res.Err())

	var stored []models.Ability
	require.NoError(t, s.DB().Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, rows[0], stored[0])
}

func TestUpsertMergesChangedFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Upsert(ctx, s, []models.Type{{ID: 10, Name: "fire"}}).Err())
	require.NoError(t, Upsert(ctx, s, []models.Type{{ID: 10, Name: "fire", NameZhHans: "火"}}).Err())

	var got models.Type
	require.NoError(t, s.DB().First(&got, 10).Error)
	assert.Equal(t, "火", got.NameZhHans)
}

func TestUpsertKeepsBackfilledColumns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	form := models.Pokemon{ID: 25, SpeciesID: 25, Name: "pikachu", IsDefault: true}
	require.NoError(t, Upsert(ctx, s, []models.Pokemon{form}).Err())
	require.NoError(t, s.DB().Model(&models.Pokemon{}).Where("id = ?", 25).Update("first_generation_id", 1).Error)

	require.NoError(t, Upsert(ctx, s, []models.Pokemon{form}).Err())

	var got models.Pokemon
	require.NoError(t, s.DB().First(&got, 25).Error)
	require.NotNil(t, got.FirstGenerationID)
	assert.Equal(t, 1, *got.FirstGenerationID)
}

func TestUpsertFallsBackToSingleRows(t *testing.T) {
	s := newTestStore(t)

	// same unique name under two ids: only the first can be stored
	res := Upsert(context.Background(), s, []models.Type{
		{ID: 1, Name: "normal"},
		{ID: 2, Name: "normal"},
		{ID: 3, Name: "fighting"},
	})

	assert.Equal(t, 2, res.Applied)
	assert.Equal(t, 1, res.Failed)
	assert.Error(t, res.Err())

	var n int64
	require.NoError(t, s.DB().Model(&models.Type{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestUpsertSQLShape(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)
	s := New(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `types` .* ON DUPLICATE KEY UPDATE `name`=VALUES\\(`name`\\),`name_zh_hans`=VALUES\\(`name_zh_hans`\\)").
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `types`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `types`").WillReturnError(errors.New("duplicate"))
	mock.ExpectRollback()

	res := Upsert(context.Background(), s, []models.Type{{ID: 1, Name: "normal"}, {ID: 2, Name: "fighting"}})
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 1, res.Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertLearnsetSkipsDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []models.MoveLearnset{
		{SpeciesID: 25, MoveID: 85, VersionGroupID: 25, LearnMethod: "level-up", Level: 26},
		{SpeciesID: 25, MoveID: 85, VersionGroupID: 25, LearnMethod: "level-up", Level: 26},
		{SpeciesID: 25, MoveID: 85, VersionGroupID: 25, LearnMethod: "machine", Level: 0},
		{SpeciesID: 25, MoveID: 85, VersionGroupID: 20, LearnMethod: "level-up", Level: 29},
	}

	n, err := s.InsertLearnset(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = s.InsertLearnset(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	var count int64
	require.NoError(t, s.DB().Model(&models.MoveLearnset{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestInsertMembershipIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []models.GenerationSpecies{
		{GenerationID: 1, SpeciesID: 1, VersionGroupID: 1},
		{GenerationID: 1, SpeciesID: 1, VersionGroupID: 2},
	}
	require.NoError(t, s.InsertMembership(ctx, rows).Err())
	require.NoError(t, s.InsertMembership(ctx, rows).Err())

	var count int64
	require.NoError(t, s.DB().Model(&models.GenerationSpecies{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestReplaceFormAbilities(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	has, err := s.HasFormAbilities(ctx, 25)
	require.NoError(t, err)
	assert.False(t, has)

	diff, err := s.ReplaceFormAbilities(ctx, 25, []models.FormAbility{
		{AbilityID: 9, Slot: 1},
		{AbilityID: 31, IsHidden: true, Slot: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, FormAbilityDiff{Added: 2}, diff)

	has, err = s.HasFormAbilities(ctx, 25)
	require.NoError(t, err)
	assert.True(t, has)

	diff, err = s.ReplaceFormAbilities(ctx, 25, []models.FormAbility{
		{AbilityID: 9, Slot: 1},
		{AbilityID: 9, IsHidden: true, Slot: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, FormAbilityDiff{Added: 1, Removed: 1}, diff)

	diff, err = s.ReplaceFormAbilities(ctx, 25, []models.FormAbility{
		{AbilityID: 9, Slot: 2},
		{AbilityID: 9, IsHidden: true, Slot: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, FormAbilityDiff{Updated: 1}, diff)

	var rows []models.FormAbility
	require.NoError(t, s.DB().Order("is_hidden").Find(&rows).Error)
	assert.Equal(t, []models.FormAbility{
		{FormID: 25, AbilityID: 9, IsHidden: false, Slot: 2},
		{FormID: 25, AbilityID: 9, IsHidden: true, Slot: 3},
	}, rows)
}

func TestBackfillFirstGeneration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Upsert(ctx, s, []models.VersionGroup{
		{ID: 1, Name: "red-blue", GenerationID: intPtr(1)},
		{ID: 18, Name: "sun-moon", GenerationID: intPtr(7)},
	}).Err())
	require.NoError(t, Upsert(ctx, s, []models.PokemonSpecies{
		{ID: 25, Name: "pikachu", GenerationID: intPtr(1)},
		{ID: 172, Name: "pichu", GenerationID: intPtr(2)},
	}).Err())
	require.NoError(t, Upsert(ctx, s, []models.Pokemon{
		{ID: 25, SpeciesID: 25, Name: "pikachu", IsDefault: true},
		{ID: 10100, SpeciesID: 25, Name: "pikachu-alola-cap", FormVersionGroupID: intPtr(18)},
		{ID: 172, SpeciesID: 172, Name: "pichu", IsDefault: true},
		{ID: 10999, SpeciesID: 172, Name: "pichu-unknown", FormVersionGroupID: intPtr(99)},
	}).Err())
	require.NoError(t, s.InsertMembership(ctx, []models.GenerationSpecies{
		{GenerationID: 3, SpeciesID: 25, VersionGroupID: 5},
		{GenerationID: 1, SpeciesID: 25, VersionGroupID: 1},
	}).Err())

	res, err := s.BackfillFirstGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, BackfillResult{Updated: 3, Skipped: 1}, res)

	gens := map[int]*int{}
	var forms []models.Pokemon
	require.NoError(t, s.DB().Find(&forms).Error)
	for _, f := range forms {
		gens[f.ID] = f.FirstGenerationID
	}
	assert.Equal(t, 1, *gens[25])
	assert.Equal(t, 7, *gens[10100])
	// no membership rows: species generation
	assert.Equal(t, 2, *gens[172])
	assert.Nil(t, gens[10999])

	res, err = s.BackfillFirstGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, BackfillResult{Unchanged: 3, Skipped: 1}, res)
}

func TestNameIndexAndCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Upsert(ctx, s, []models.Move{{ID: 85, Name: "thunderbolt"}, {ID: 87, Name: "thunder"}}).Err())

	idx, err := s.NameIndex(ctx, &models.Move{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"thunderbolt": 85, "thunder": 87}, idx)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["moves"])
	assert.Equal(t, int64(0), counts["pokemon_move_learnset"])
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("database is locked")))
	assert.True(t, IsRetryable(errors.New("Error 1205: Lock wait timeout exceeded")))
	assert.False(t, IsRetryable(errors.New("UNIQUE constraint failed")))
	assert.False(t, IsRetryable(nil))
}
