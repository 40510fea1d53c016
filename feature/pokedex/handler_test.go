package pokedex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"pmteambuilder/feature/pokedex/models"
	"pmteambuilder/feature/pokedex/query"
	pokesync "pmteambuilder/feature/pokedex/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReader struct {
	mock.Mock
}

func (m *mockReader) ListPokemon(ctx context.Context, f query.PokemonFilter) (*models.PokemonPage, error) {
	args := m.Called(ctx, f)
	if p := args.Get(0); p != nil {
		return p.(*models.PokemonPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReader) ListMoves(ctx context.Context, f query.ListFilter) ([]models.Move, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Move), args.Error(1)
}

func (m *mockReader) ListAbilities(ctx context.Context, f query.ListFilter) ([]models.Ability, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Ability), args.Error(1)
}

func (m *mockReader) ListItems(ctx context.Context, f query.ListFilter) ([]models.Item, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockReader) LearnableMoves(ctx context.Context, speciesID, versionGroupID int) ([]models.LearnableMove, error) {
	args := m.Called(ctx, speciesID, versionGroupID)
	return args.Get(0).([]models.LearnableMove), args.Error(1)
}

func (m *mockReader) LearnableMovesByGeneration(ctx context.Context, speciesID, generationID int) ([]models.LearnableMove, error) {
	args := m.Called(ctx, speciesID, generationID)
	return args.Get(0).([]models.LearnableMove), args.Error(1)
}

func (m *mockReader) FormAbilities(ctx context.Context, formID int) ([]models.FormAbilityView, error) {
	args := m.Called(ctx, formID)
	return args.Get(0).([]models.FormAbilityView), args.Error(1)
}

func (m *mockReader) SpeciesAbilities(ctx context.Context, speciesID int) ([]models.FormAbilityView, error) {
	args := m.Called(ctx, speciesID)
	return args.Get(0).([]models.FormAbilityView), args.Error(1)
}

func (m *mockReader) GenerationsWithVersionGroups(ctx context.Context) ([]models.GenerationView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.GenerationView), args.Error(1)
}

func (m *mockReader) Invalidate(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockReader) Prewarm(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) TriggerAsync(ctx context.Context, force bool) error {
	return m.Called(ctx, force).Error(0)
}

func (m *mockSyncer) Running() bool {
	return m.Called().Bool(0)
}

func (m *mockSyncer) LastReport() *pokesync.Report {
	if r := m.Called().Get(0); r != nil {
		return r.(*pokesync.Report)
	}
	return nil
}

func setupTestApp(t *testing.T) (*fiber.App, *mockReader, *mockSyncer) {
	app := fiber.New()
	reader := new(mockReader)
	syncer := new(mockSyncer)
	require.NoError(t, NewFeature(reader, syncer, zap.NewNop()).Load(app))
	return app, reader, syncer
}

func do(t *testing.T, app *fiber.App, method, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func intPtr(v int) *int { return &v }

func TestHandleListPokemon(t *testing.T) {
	app, reader, _ := setupTestApp(t)

	want := query.PokemonFilter{
		Limit:        20,
		Offset:       40,
		GenerationID: intPtr(7),
		Search:       "raichu",
		Types:        []string{"electric", "psychic"},
	}
	page := &models.PokemonPage{Count: 1, Results: []models.PokemonSummary{{ID: 10100, Name: "raichu-alola", DisplayName: "雷丘-阿罗拉"}}}
	reader.On("ListPokemon", mock.Anything, want).Return(page, nil)

	status, body := do(t, app, "GET", "/pokemon?limit=20&offset=40&generation=7&search=raichu&types=electric,%20psychic")
	assert.Equal(t, 200, status)

	var got models.PokemonPage
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, int64(1), got.Count)
	assert.Equal(t, "雷丘-阿罗拉", got.Results[0].DisplayName)
	reader.AssertExpectations(t)
}

func TestHandleListPokemonRejectsBadGeneration(t *testing.T) {
	app, reader, _ := setupTestApp(t)

	status, _ := do(t, app, "GET", "/pokemon?generation=abc")
	assert.Equal(t, 400, status)
	reader.AssertNotCalled(t, "ListPokemon", mock.Anything, mock.Anything)
}

func TestHandleLists(t *testing.T) {
	app, reader, _ := setupTestApp(t)

	reader.On("ListMoves", mock.Anything, query.ListFilter{Categories: []string{"physical", "special"}}).
		Return([]models.Move{{ID: 85, Name: "thunderbolt"}}, nil)
	reader.On("ListAbilities", mock.Anything, query.ListFilter{GenerationID: intPtr(3)}).
		Return([]models.Ability{{ID: 9, Name: "static"}}, nil)
	reader.On("ListItems", mock.Anything, query.ListFilter{Limit: 5}).
		Return([]models.Item{}, nil)

	status, body := do(t, app, "GET", "/moves?categories=physical,special")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "thunderbolt")

	status, body = do(t, app, "GET", "/abilities?generation=3")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "static")

	status, body = do(t, app, "GET", "/items?limit=5")
	assert.Equal(t, 200, status)
	assert.Equal(t, "[]", body)

	reader.AssertExpectations(t)
}

func TestHandleLearnableMoves(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		setup  func(r *mockReader)
		status int
	}{
		{
			name: "By Version Group",
			path: "/species/25/moves?version_group=18",
			setup: func(r *mockReader) {
				r.On("LearnableMoves", mock.Anything, 25, 18).Return([]models.LearnableMove{{MoveID: 85}}, nil)
			},
			status: 200,
		},
		{
			name: "By Generation",
			path: "/species/25/moves?generation=1",
			setup: func(r *mockReader) {
				r.On("LearnableMovesByGeneration", mock.Anything, 25, 1).Return([]models.LearnableMove{}, nil)
			},
			status: 200,
		},
		{
			name:   "Missing Scope",
			path:   "/species/25/moves",
			status: 400,
		},
		{
			name:   "Both Scopes",
			path:   "/species/25/moves?generation=1&version_group=1",
			status: 400,
		},
		{
			name:   "Bad Species",
			path:   "/species/pikachu/moves?generation=1",
			status: 400,
		},
		{
			name: "Unknown Species",
			path: "/species/9999/moves?version_group=18",
			setup: func(r *mockReader) {
				r.On("LearnableMoves", mock.Anything, 9999, 18).
					Return([]models.LearnableMove(nil), fmt.Errorf("species 9999: %w", query.ErrNotFound))
			},
			status: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, reader, _ := setupTestApp(t)
			if tt.setup != nil {
				tt.setup(reader)
			}
			status, _ := do(t, app, "GET", tt.path)
			assert.Equal(t, tt.status, status)
			reader.AssertExpectations(t)
		})
	}
}

func TestHandleAbilities(t *testing.T) {
	app, reader, _ := setupTestApp(t)

	reader.On("FormAbilities", mock.Anything, 10100).
		Return([]models.FormAbilityView{{AbilityID: 207, Name: "surge-surfer"}}, nil)
	reader.On("FormAbilities", mock.Anything, 404).
		Return([]models.FormAbilityView(nil), fmt.Errorf("form 404: %w", query.ErrNotFound))
	reader.On("SpeciesAbilities", mock.Anything, 26).
		Return([]models.FormAbilityView{{AbilityID: 9, Name: "static"}}, nil)

	status, body := do(t, app, "GET", "/forms/10100/abilities")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "surge-surfer")

	status, _ = do(t, app, "GET", "/forms/404/abilities")
	assert.Equal(t, 404, status)

	status, body = do(t, app, "GET", "/species/26/abilities")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "static")
}

func TestHandleQueryFailureServesEmptyResult(t *testing.T) {
	app, reader, _ := setupTestApp(t)
	reader.On("GenerationsWithVersionGroups", mock.Anything).
		Return([]models.GenerationView(nil), assert.AnError)

	reader.On("ListPokemon", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	status, body := do(t, app, "GET", "/generations")
	assert.Equal(t, 200, status)
	assert.Equal(t, "[]", body)

	status, body = do(t, app, "GET", "/pokemon")
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"count":0,"results":[]}`, body)
}

func TestHandleTriggerSync(t *testing.T) {
	t.Run("Started", func(t *testing.T) {
		app, _, syncer := setupTestApp(t)
		syncer.On("TriggerAsync", mock.Anything, true).Return(nil)

		status, body := do(t, app, "POST", "/admin/sync?force=true")
		assert.Equal(t, 202, status)
		assert.JSONEq(t, `{"status":"started","force":true}`, body)
		syncer.AssertExpectations(t)
	})

	t.Run("Already Running", func(t *testing.T) {
		app, _, syncer := setupTestApp(t)
		syncer.On("TriggerAsync", mock.Anything, false).Return(pokesync.ErrAlreadyRunning)

		status, _ := do(t, app, "POST", "/admin/sync")
		assert.Equal(t, 409, status)
	})
}

func TestHandleSyncStatus(t *testing.T) {
	app, _, syncer := setupTestApp(t)
	syncer.On("Running").Return(true)
	syncer.On("LastReport").Return(&pokesync.Report{AllDone: true})

	status, body := do(t, app, "GET", "/admin/sync")
	assert.Equal(t, 200, status)

	var got struct {
		Running bool            `json:"running"`
		Last    pokesync.Report `json:"last"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.True(t, got.Running)
	assert.True(t, got.Last.AllDone)
}

func TestHandleCacheRefresh(t *testing.T) {
	t.Run("Refreshed", func(t *testing.T) {
		app, reader, _ := setupTestApp(t)
		reader.On("Invalidate", mock.Anything).Return(7, nil)
		reader.On("Prewarm", mock.Anything).Return(nil)

		status, body := do(t, app, "POST", "/admin/cache/refresh")
		assert.Equal(t, 200, status)
		assert.JSONEq(t, `{"status":"refreshed","removed":7}`, body)
	})

	t.Run("Prewarm Fails", func(t *testing.T) {
		app, reader, _ := setupTestApp(t)
		reader.On("Invalidate", mock.Anything).Return(0, nil)
		reader.On("Prewarm", mock.Anything).Return(assert.AnError)

		status, body := do(t, app, "POST", "/admin/cache/refresh")
		assert.Equal(t, 200, status)
		assert.Contains(t, body, `"status":"partial"`)
	})

	t.Run("Invalidate Fails", func(t *testing.T) {
		app, reader, _ := setupTestApp(t)
		reader.On("Invalidate", mock.Anything).Return(0, assert.AnError)

		status, _ := do(t, app, "POST", "/admin/cache/refresh")
		assert.Equal(t, 500, status)
		reader.AssertNotCalled(t, "Prewarm", mock.Anything)
	})
}

func TestFeature(t *testing.T) {
	f := NewFeature(new(mockReader), nil, zap.NewNop())
	assert.Equal(t, "pokedex", f.Name())
	assert.True(t, f.IsEnabled())

	app := fiber.New()
	require.NoError(t, f.Load(app))

	// admin sync routes are absent without a syncer
	status, _ := do(t, app, "POST", "/admin/sync")
	assert.Equal(t, 404, status)

	assert.False(t, NewFeature(nil, nil, zap.NewNop()).IsEnabled())
}

var _ Reader = (*query.Service)(nil)
var _ Syncer = (*pokesync.Orchestrator)(nil)
