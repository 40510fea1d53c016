package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pmteambuilder/core/database"
	"pmteambuilder/core/lock"
	"pmteambuilder/core/progress"
	"pmteambuilder/feature/pokedex/localize"
	"pmteambuilder/feature/pokedex/models"
	"pmteambuilder/feature/pokedex/pokeapi"
	"pmteambuilder/feature/pokedex/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRefresher struct {
	invalidated int
	prewarmed   int
}

func (c *countingRefresher) Invalidate(context.Context) (int, error) {
	c.invalidated++
	return 0, nil
}

func (c *countingRefresher) Prewarm(context.Context) error {
	c.prewarmed++
	return nil
}

type testEnv struct {
	api     *fakeAPI
	orch    *Orchestrator
	store   *store.Store
	tracker *progress.Tracker
	locks   lock.Manager
	refresh *countingRefresher
}

func newTestEnv(t *testing.T, api *fakeAPI, locks lock.Manager) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	st := store.New(db, log)
	require.NoError(t, st.Migrate(ctx))

	tracker, err := progress.NewTracker(ctx, progress.NewFileStore(filepath.Join(t.TempDir(), "progress.json"), log), log)
	require.NoError(t, err)

	client := pokeapi.New(pokeapi.Config{BaseURL: api.srv.URL, TimeoutSeconds: 5, RetryMax: 0}, log)
	refresh := &countingRefresher{}

	o := New(Config{
		BatchSize:       2,
		CheckpointEvery: 2,
		Concurrency:     2,
		LockTTL:         time.Minute,
	}, 2, Deps{
		Source:    client,
		Store:     st,
		Tracker:   tracker,
		Locks:     locks,
		Localizer: localize.Default(),
		Refresher: refresh,
		Logger:    log,
	})
	o.retryWait = func(int) time.Duration { return 0 }

	return &testEnv{api: api, orch: o, store: st, tracker: tracker, locks: locks, refresh: refresh}
}

func (e *testEnv) counts(t *testing.T) map[string]int64 {
	t.Helper()
	c, err := e.store.Counts(context.Background())
	require.NoError(t, err)
	return c
}

func (e *testEnv) learnset(t *testing.T) []models.MoveLearnset {
	t.Helper()
	var rows []models.MoveLearnset
	require.NoError(t, e.store.DB().
		Order("pokemon_species_id, move_id, version_group_id, learn_method, level").
		Find(&rows).Error)
	return rows
}

var wantCounts = map[string]int64{
	"types":                      2,
	"generations":                2,
	"version_groups":             2,
	"abilities":                  2,
	"moves":                      2,
	"items":                      1,
	"pokemon_species":            2,
	"pokemon":                    3,
	"generation_pokemon_species": 2,
	"pokemon_move_learnset":      5,
	"pokemon_form_ability_map":   5,
}

func TestRunSyncsEverything(t *testing.T) {
	env := newTestEnv(t, newFakeAPI(t), lock.NewMemory())
	ctx := context.Background()

	rep, err := env.orch.Run(ctx, Options{})
	require.NoError(t, err)
	assert.True(t, rep.AllDone)
	assert.True(t, env.tracker.AllDone())
	assert.Equal(t, wantCounts, env.counts(t))
	assert.Equal(t, 1, env.refresh.invalidated)
	assert.Equal(t, 1, env.refresh.prewarmed)
	assert.Same(t, rep, env.orch.LastReport())

	var static models.Ability
	require.NoError(t, env.store.DB().First(&static, 9).Error)
	assert.Equal(t, "静电", static.NameZhHans)
	assert.Equal(t, "Has a 30% chance of paralyzing attackers.", static.DescriptionEn)
	assert.Equal(t, "身上带有静电，有时会让接触到的对手麻痹。", static.DescriptionZhHans)

	var alola models.Pokemon
	require.NoError(t, env.store.DB().First(&alola, 10100).Error)
	assert.Equal(t, "雷丘-阿罗拉", alola.FormNameZhHans)
	assert.Equal(t, "alola", alola.FormName)
	assert.Equal(t, 26, alola.SpeciesID)
	require.NotNil(t, alola.FirstGenerationID)
	assert.Equal(t, 7, *alola.FirstGenerationID)

	var pikachu models.Pokemon
	require.NoError(t, env.store.DB().First(&pikachu, 25).Error)
	assert.Equal(t, "皮卡丘", pikachu.FormNameZhHans)
	assert.Equal(t, "electric", pikachu.Type1)
	assert.Equal(t, 110, pikachu.BaseSpe)
	require.NotNil(t, pikachu.FirstGenerationID)
	assert.Equal(t, 1, *pikachu.FirstGenerationID)

	var item models.Item
	require.NoError(t, env.store.DB().First(&item, 213).Error)
	require.NotNil(t, item.GenerationID)
	assert.Equal(t, 2, *item.GenerationID)

	assert.True(t, env.tracker.IsDone(progress.SpeciesLearnsetKey(26)))
	assert.True(t, env.tracker.IsDone(StageFormAbilities))
}

func TestRerunIsIdempotent(t *testing.T) {
	env := newTestEnv(t, newFakeAPI(t), lock.NewMemory())
	ctx := context.Background()

	_, err := env.orch.Run(ctx, Options{})
	require.NoError(t, err)

	var before models.Ability
	require.NoError(t, env.store.DB().First(&before, 9).Error)
	learnsetBefore := env.learnset(t)

	// nothing to do once everything is done
	rep, err := env.orch.Run(ctx, Options{})
	require.NoError(t, err)
	assert.True(t, rep.Skipped)

	// a forced run refetches everything and changes nothing
	rep, err = env.orch.Run(ctx, Options{Force: true})
	require.NoError(t, err)
	assert.False(t, rep.Skipped)
	assert.True(t, rep.AllDone)
	assert.Equal(t, wantCounts, env.counts(t))

	var abilities []models.Ability
	require.NoError(t, env.store.DB().Where("name = ?", "static").Find(&abilities).Error)
	require.Len(t, abilities, 1)
	assert.Equal(t, before, abilities[0])
	assert.Equal(t, learnsetBefore, env.learnset(t))
	assert.Equal(t, 0, rep.FormAbilities.Failed)
}

func TestResumeAfterFailuresMatchesCleanRun(t *testing.T) {
	ctx := context.Background()

	clean := newTestEnv(t, newFakeAPI(t), lock.NewMemory())
	_, err := clean.orch.Run(ctx, Options{})
	require.NoError(t, err)

	api := newFakeAPI(t)
	api.failNext("/move/84/", 1)
	api.failNext("/pokemon/10100/", 1)
	env := newTestEnv(t, api, lock.NewMemory())

	rep, err := env.orch.Run(ctx, Options{})
	require.NoError(t, err)
	assert.False(t, rep.AllDone)
	assert.False(t, env.tracker.IsDone(StageMoves))
	assert.True(t, env.tracker.IsDone(StageTypes))
	// pikachu learns thunder-shock, which is missing until moves complete
	assert.False(t, env.tracker.IsDone(progress.SpeciesLearnsetKey(25)))

	rep, err = env.orch.Run(ctx, Options{})
	require.NoError(t, err)
	assert.True(t, rep.AllDone)

	for _, s := range rep.Stages {
		if s.Stage == StageTypes {
			assert.True(t, s.Skipped)
		}
	}
	assert.Equal(t, 1, rep.Learnset.AlreadyDone)
	assert.Equal(t, clean.counts(t), env.counts(t))
	assert.Equal(t, clean.learnset(t), env.learnset(t))
}

func TestFirstPageFailureAbortsRun(t *testing.T) {
	api := newFakeAPI(t)
	api.failNext("/type", 1)
	env := newTestEnv(t, api, lock.NewMemory())

	rep, err := env.orch.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.NotEmpty(t, rep.Error)
	assert.False(t, env.tracker.AllDone())
	assert.Equal(t, int64(0), env.counts(t)["types"])
}

func TestStageLockContentionSkipsStage(t *testing.T) {
	locks := lock.NewMemory()
	ctx := context.Background()

	ok, err := locks.Acquire(ctx, lock.StageKey(StageTypes), "another-worker", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	env := newTestEnv(t, newFakeAPI(t), locks)
	rep, err := env.orch.Run(ctx, Options{Only: []string{StageTypes, StageGenerations}})
	require.NoError(t, err)
	require.Len(t, rep.Stages, 2)

	assert.True(t, rep.Stages[0].Contended)
	assert.True(t, rep.Stages[1].Completed)
	assert.Equal(t, int64(0), env.counts(t)["types"])
	assert.Equal(t, int64(2), env.counts(t)["generations"])
	assert.False(t, rep.AllDone)
}

func TestEntityLockContentionLeavesStageOpen(t *testing.T) {
	locks := lock.NewMemory()
	ctx := context.Background()
	env := newTestEnv(t, newFakeAPI(t), locks)

	_, err := env.orch.Run(ctx, Options{Only: []string{StageTypes, StageGenerations, StageVersionGroups, StageMoves, StagePokemon}})
	require.NoError(t, err)

	ok, err := locks.Acquire(ctx, lock.SpeciesLearnsetKey(25), "another-worker", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	rep, err := env.orch.Run(ctx, Options{Only: []string{StageLearnset}})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Learnset.Contended)
	assert.Equal(t, 1, rep.Learnset.Processed)
	assert.False(t, rep.Learnset.Completed)
	assert.False(t, env.tracker.IsDone(StageLearnset))
}

func TestFormAbilitiesSkipExistingUnlessForced(t *testing.T) {
	env := newTestEnv(t, newFakeAPI(t), lock.NewMemory())
	ctx := context.Background()

	_, err := env.orch.Run(ctx, Options{})
	require.NoError(t, err)
	hits := env.api.hitCount("/pokemon/25/")

	// clear the done markers; existing mappings alone keep the forms skipped
	require.NoError(t, env.tracker.Reset(ctx))
	rep, err := env.orch.Run(ctx, Options{Only: []string{StageFormAbilities}})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.FormAbilities.AlreadyDone)
	assert.Equal(t, hits, env.api.hitCount("/pokemon/25/"))

	rep, err = env.orch.Run(ctx, Options{Only: []string{StageFormAbilities}, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.FormAbilities.Processed)
	assert.Equal(t, int64(0), rep.FormAbilities.Rows)
	assert.Equal(t, hits+1, env.api.hitCount("/pokemon/25/"))
}

func TestTriggerAsyncRejectsConcurrentRun(t *testing.T) {
	api := newFakeAPI(t)
	gate := make(chan struct{})
	api.mu.Lock()
	api.gate = gate
	api.mu.Unlock()
	env := newTestEnv(t, api, lock.NewMemory())
	ctx := context.Background()

	require.NoError(t, env.orch.TriggerAsync(ctx, false))
	assert.True(t, env.orch.Running())

	assert.ErrorIs(t, env.orch.TriggerAsync(ctx, true), ErrAlreadyRunning)
	_, err := env.orch.Run(ctx, Options{})
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(gate)
	assert.Eventually(t, func() bool { return !env.orch.Running() }, 10*time.Second, 10*time.Millisecond)
	require.NotNil(t, env.orch.LastReport())
	assert.True(t, env.orch.LastReport().AllDone)
}

func (e *testEnv) setPokemon(body string, id int) {
	e.api.mu.Lock()
	defer e.api.mu.Unlock()
	e.api.details[fmt.Sprintf("/pokemon/%d/", id)] = body
}

func TestInterruptedForcedRefreshResumesEveryEntity(t *testing.T) {
	env := newTestEnv(t, newFakeAPI(t), lock.NewMemory())
	ctx := context.Background()

	_, err := env.orch.Run(ctx, Options{})
	require.NoError(t, err)
	require.Len(t, env.learnset(t), 5)

	// pikachu learns thunderbolt in sun-moon too
	abilities := `{"ability":` + named("ability", 9, "static") + `,"is_hidden":false,"slot":1},` +
		`{"ability":` + named("ability", 31, "lightning-rod") + `,"is_hidden":true,"slot":3}`
	env.setPokemon(pokemonBody(25, "pikachu", true, "pikachu", 25, []string{
		learn("thunderbolt", 85, "machine", 0, "red-blue", 1),
		learn("thunderbolt", 85, "machine", 0, "sun-moon", 18),
		learn("thunder-shock", 84, "level-up", 1, "red-blue", 1),
		learn("thunder-shock", 84, "level-up", 1, "sun-moon", 18),
	}, abilities), 25)
	env.api.failNext("/pokemon/25/", 2)

	rep, err := env.orch.Run(ctx, Options{Force: true})
	require.NoError(t, err)
	assert.False(t, rep.AllDone)
	assert.False(t, env.tracker.IsDone(progress.SpeciesLearnsetKey(25)))
	assert.True(t, env.tracker.IsDone(refreshKey(StageLearnset)))

	rep, err = env.orch.Run(ctx, Options{})
	require.NoError(t, err)
	assert.True(t, rep.AllDone)
	assert.Equal(t, 1, rep.Learnset.Processed)
	assert.False(t, env.tracker.IsDone(refreshKey(StageLearnset)))

	rows := env.learnset(t)
	require.Len(t, rows, 6)
	assert.Contains(t, rows, models.MoveLearnset{
		SpeciesID: 25, MoveID: 85, VersionGroupID: 18, LearnMethod: "machine", Level: 0,
	})
}

func TestInterruptedForcedRefreshRewritesFormAbilities(t *testing.T) {
	env := newTestEnv(t, newFakeAPI(t), lock.NewMemory())
	ctx := context.Background()

	_, err := env.orch.Run(ctx, Options{})
	require.NoError(t, err)

	// pikachu loses lightning-rod upstream
	env.setPokemon(pokemonBody(25, "pikachu", true, "pikachu", 25, nil,
		`{"ability":`+named("ability", 9, "static")+`,"is_hidden":false,"slot":1}`), 25)
	env.api.failNext("/pokemon/25/", 1)

	rep, err := env.orch.Run(ctx, Options{Only: []string{StageFormAbilities}, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.FormAbilities.Failed)
	assert.False(t, rep.FormAbilities.Completed)

	// the existing mapping of form 25 must not count as done while the refresh is open
	rep, err = env.orch.Run(ctx, Options{Only: []string{StageFormAbilities}})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.FormAbilities.Processed)
	assert.Equal(t, 2, rep.FormAbilities.AlreadyDone)
	assert.True(t, rep.FormAbilities.Completed)
	assert.False(t, env.tracker.IsDone(refreshKey(StageFormAbilities)))

	var mapped int64
	require.NoError(t, env.store.DB().Model(&models.FormAbility{}).Where("pokemon_form_id = ?", 25).Count(&mapped).Error)
	assert.Equal(t, int64(1), mapped)
}
