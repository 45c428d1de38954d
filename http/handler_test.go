package http_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth-im/hearth/database"
	hearthhttp "github.com/hearth-im/hearth/http"
)

func newTestHandler(t *testing.T) *hearthhttp.Handler {
	t.Helper()

	conn, err := database.New("master", database.Config{
		Name: "sqlite",
		Args: map[string]any{"database": ":memory:"},
	}, []string{"main"})
	require.NoError(t, err)

	return hearthhttp.NewHandler(&hearthhttp.HandlerConfig{}, []hearthhttp.Database{conn})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthz", nil)
	handler.Router().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestListDatabases(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/databases", nil)
	handler.Router().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)

	var body []struct {
		Name       string   `json:"name"`
		Backend    string   `json:"backend"`
		DataStores []string `json:"data_stores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "master", body[0].Name)
	assert.Equal(t, "sqlite", body[0].Backend)
	assert.Equal(t, []string{"main"}, body[0].DataStores)
}

func TestHealth_DatabaseDown(t *testing.T) {
	t.Parallel()

	// a postgres database nobody is listening on
	conn, err := database.New("master", database.Config{
		Name: "postgres",
		Args: map[string]any{
			"host":            "127.0.0.1",
			"port":            1,
			"user":            "nobody",
			"database":        "nothing",
			"sslmode":         "disable",
			"connect_timeout": 1,
		},
	}, []string{"main"})
	require.NoError(t, err)

	handler := hearthhttp.NewHandler(&hearthhttp.HandlerConfig{}, []hearthhttp.Database{conn})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthz", nil)
	handler.Router().ServeHTTP(rec, req)

	require.Equal(t, 503, rec.Code)

	var body hearthhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "database_unavailable", body.Error)
}
