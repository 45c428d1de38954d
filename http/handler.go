// Package http exposes hearth's admin HTTP surface: health checks over the
// configured database pools and a read-only view of the database layout.
package http

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Database is the view of a configured physical database the admin surface
// needs. Satisfied by database.ConnectionConfig.
type Database interface {
	Name() string
	Kind() string
	DataStores() []string
	Pool(ctx context.Context) (*sql.DB, error)
}

// CORSConfig holds the CORS settings for the admin surface.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// HandlerConfig configures the admin handler.
type HandlerConfig struct {
	CORS CORSConfig
}

// Handler serves the admin endpoints.
type Handler struct {
	config    HandlerConfig
	databases []Database
}

// NewHandler creates a new Handler over the given databases.
func NewHandler(config *HandlerConfig, databases []Database) *Handler {
	return &Handler{
		config:    *config,
		databases: databases,
	}
}

// Router returns an http.Handler with the admin routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/healthz", h.health)
	r.Get("/databases", h.listDatabases)

	return r
}

// health pings every configured database through its pool. The first
// failure reports 503 with the failing database's label.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	for _, db := range h.databases {
		pool, err := db.Pool(ctx)
		if err != nil {
			WriteError(w, http.StatusServiceUnavailable, "database_unavailable", db.Name())
			return
		}
		if err := pool.PingContext(ctx); err != nil {
			WriteError(w, http.StatusServiceUnavailable, "database_unavailable", db.Name())
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type databaseInfo struct {
	Name       string   `json:"name"`
	Backend    string   `json:"backend"`
	DataStores []string `json:"data_stores"`
}

func (h *Handler) listDatabases(w http.ResponseWriter, r *http.Request) {
	infos := make([]databaseInfo, 0, len(h.databases))
	for _, db := range h.databases {
		infos = append(infos, databaseInfo{
			Name:       db.Name(),
			Backend:    db.Kind(),
			DataStores: db.DataStores(),
		})
	}

	WriteJSON(w, http.StatusOK, infos)
}
