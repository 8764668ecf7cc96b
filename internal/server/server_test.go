package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"smartchecklist/internal/cache"
	"smartchecklist/internal/config"
	"smartchecklist/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

const testSecret = "test-secret-key-12345678901234567890123456789012"

func testConfig() *config.Config {
	return &config.Config{
		Env:           "test",
		JWTSecret:     testSecret,
		TokenTTLHours: 1,
		FeatureFlags:  "cte_subtree_delete=on",
		MaxTreeDepth:  32,
	}
}

// setupApp returns a fully wired app over an in-memory database. Redis is
// optional.
func setupApp(t *testing.T, rdb *redis.Client) (*fiber.App, *Server) {
	t.Helper()
	s, err := NewServerWithDeps(testConfig(), testutil.NewSQLiteDB(t), rdb)
	require.NoError(t, err)
	t.Cleanup(func() { cache.SetClient(nil) })
	return s.newApp(), s
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
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
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp, out
}

func register(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "password1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func idOf(t *testing.T, body map[string]any) uint {
	t.Helper()
	id, ok := body["id"].(float64)
	require.True(t, ok, "missing id in %v", body)
	return uint(id)
}

func TestHealthChecks(t *testing.T) {
	app, _ := setupApp(t, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "up", body["status"])

	resp, body = doJSON(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "disabled", checks["redis"])
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "item ID", humanizeParam("itemId"))
	assert.Equal(t, "parent item ID", humanizeParam("parentItemId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestIDText(t *testing.T) {
	cases := map[string]idText{
		`{"p": 12}`:    "12",
		`{"p": "12"}`:  "12",
		`{"p": null}`:  "",
		`{"p": "abc"}`: "abc",
		`{}`:           "",
	}
	for raw, want := range cases {
		var v struct {
			P idText `json:"p"`
		}
		require.NoError(t, json.Unmarshal([]byte(raw), &v), raw)
		assert.Equal(t, want, v.P, raw)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := setupApp(t, nil)

	for _, path := range []string{"/api/checklists", "/api/checklists/1", "/api/checklists/1/items", "/api/auth/me"} {
		resp, body := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "Authentication required", body["error"], path)
	}

	resp, _ := doJSON(t, app, http.MethodGet, "/api/checklists", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app, _ := setupApp(t, rdb)

	token := register(t, app, "dora")
	resp, _ := doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", body["error"])
}

func TestAuthHandlers(t *testing.T) {
	app, _ := setupApp(t, nil)

	token := register(t, app, "erin")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "erin",
		"password": "password1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body["code"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "erin",
		"password": "wrong-password1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or password", body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "erin",
		"password": "password1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "erin", user["username"])
	assert.NotContains(t, user, "password")

	resp, body = doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "erin", body["username"])
}

func TestFeatureFlagsRoute(t *testing.T) {
	app, _ := setupApp(t, nil)
	token := register(t, app, "frank")

	resp, body := doJSON(t, app, http.MethodGet, "/api/feature-flags", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	evaluated := body["evaluated"].(map[string]any)
	assert.Equal(t, true, evaluated["cte_subtree_delete"])
}

func checklistPath(id uint, rest ...string) string {
	p := fmt.Sprintf("/api/checklists/%d", id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
