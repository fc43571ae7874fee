package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"itsour/internal/config"
	"itsour/internal/database"
	"itsour/internal/search"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-used-only-in-tests"

// fakeIndexer records index traffic in memory. searchFn defaults to an
// empty result like an unreachable engine.
type fakeIndexer struct {
	upserts  []search.Document
	deletes  []uint
	ensured  int
	searchFn func(string) []uint
}

func (f *fakeIndexer) EnsureIndex(context.Context) { f.ensured++ }
func (f *fakeIndexer) Upsert(_ context.Context, doc search.Document) {
	f.upserts = append(f.upserts, doc)
}
func (f *fakeIndexer) Delete(_ context.Context, id uint) {
	f.deletes = append(f.deletes, id)
}
func (f *fakeIndexer) Search(_ context.Context, query string) []uint {
	if f.searchFn == nil {
		return nil
	}
	return f.searchFn(query)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:             "0",
		Env:              "test",
		DBDriver:         "sqlite",
		JWTSecret:        testJWTSecret,
		AdminUsername:    "admin",
		AdminPassword:    "admin123",
		ElasticsearchURL: "http://localhost:9200",
		SearchTimeoutSec: 1,
		UploadDir:        t.TempDir(),
		DefaultAuthor:    "Itsour",
	}
}

// newTestApp builds a full application against an in-memory database and a
// recording fake index.
func newTestApp(t *testing.T) (*fiber.App, *fakeIndexer) {
	t.Helper()
	return newTestAppWithConfig(t, testConfig(t))
}

func newTestAppWithConfig(t *testing.T, cfg *config.Config) (*fiber.App, *fakeIndexer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	indexer := &fakeIndexer{}
	srv := NewServerWithDeps(cfg, db, indexer)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app, indexer
}

// adminToken signs a token the way the login handler does.
func adminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// doJSON performs a JSON request against the app, authenticated when token
// is non-empty, and decodes the response body into out (unless nil).
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	_ = resp.Body.Close()
	return resp
}

// createArticle posts an article and returns the decoded response.
func createArticle(t *testing.T, app *fiber.App, token string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	var created map[string]interface{}
	resp := doJSON(t, app, http.MethodPost, "/api/articles/", token, body, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return created
}
