package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"pmteambuilder/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	opts := Options{
		Client: mockClient,
		Bucket: "test-bucket",
		Object: "sync/progress.json",
		Stages: []string{"types", "generations"},
	}
	svc := NewService(setupDB(t), halfSynced(), opts, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient
}

func decodeBody(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := decodeBody(t, app, "/integrity/schema")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["matched"])
	assert.Equal(t, "sqlite", body["dialect"])
}

func TestHandleSyncCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := decodeBody(t, app, "/integrity/sync")
	assert.Equal(t, 200, status)
	assert.Equal(t, false, body["all_done"])
	assert.Equal(t, []any{"types"}, body["done"])
	assert.Equal(t, map[string]any{"generations": float64(4)}, body["in_progress"])
	assert.Len(t, body["empty_tables"], 11)
}

func TestHandleStorageCheck(t *testing.T) {
	t.Run("No Checkpoint", func(t *testing.T) {
		app, mockClient := setupTestApp(t)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		mockClient.On("GetObject", mock.Anything, "test-bucket", "sync/progress.json", mock.Anything).
			Return(nil, mocks.ErrNoSuchKey)

		status, body := decodeBody(t, app, "/integrity/storage")
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["bucket_exists"])
		assert.Equal(t, false, body["object_exists"])
	})

	t.Run("Backend Down", func(t *testing.T) {
		app, mockClient := setupTestApp(t)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

		status, body := decodeBody(t, app, "/integrity/storage")
		assert.Equal(t, 500, status)
		assert.Contains(t, body["error"], "failed to check bucket existence")
	})
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

	status, body := decodeBody(t, app, "/integrity")
	assert.Equal(t, 200, status)

	assert.Contains(t, body, "schema")
	assert.Contains(t, body, "sync")
	storage := body["storage"].(map[string]any)
	assert.Equal(t, "error", storage["status"])
}

func TestLoader(t *testing.T) {
	feature := NewFeature(nil, nil, Options{}, zap.NewNop())

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
