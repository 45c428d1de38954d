package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/hearth-im/hearth/database"
	"github.com/hearth-im/hearth/database/sqlite"
)

// DefaultDatabaseFile is the SQLite file created under the data directory
// when the config has no database section.
const DefaultDatabaseFile = "homeserver.db"

// MainStore is the data store every database section must serve when no
// explicit assignment is given.
const MainStore = "main"

// DatabaseSection is the resolved, process-wide database configuration.
// It is built once at startup and immutable thereafter, except for the
// lazily created pool inside each ConnectionConfig.
type DatabaseSection struct {
	// EventCacheSize is the number of events to cache in memory.
	EventCacheSize int

	// Databases holds one entry per physical database, in config order.
	Databases []*database.ConnectionConfig
}

// ForStore returns the database a logical data store is assigned to.
func (s *DatabaseSection) ForStore(name string) (*database.ConnectionConfig, bool) {
	for _, db := range s.Databases {
		if slices.Contains(db.DataStores(), name) {
			return db, true
		}
	}
	return nil, false
}

// ResolveOptions carries the non-file inputs to database resolution.
type ResolveOptions struct {
	// DataDir is the server data directory, used for the default SQLite
	// database path.
	DataDir string

	// BaseDir is the directory relative paths are resolved against.
	BaseDir string

	// DatabasePath is the CLI override for the SQLite database file.
	// Empty means no override. The sqlite.MemoryPath sentinel is passed
	// through verbatim.
	DatabasePath string
}

// ResolveDatabases merges the raw database section with built-in defaults
// and CLI overrides into the effective DatabaseSection.
//
// A missing database block yields a single SQLite database under DataDir.
// The legacy single `database:` form is normalized into a one-element list.
// The CLI database path applies only to SQLite entries; on other backends
// it is ignored. Any unsupported backend identifier is a fatal error.
func ResolveDatabases(cfg *Config, opts ResolveOptions) (*DatabaseSection, error) {
	sizeExpr := cfg.EventCacheSize
	if sizeExpr == "" {
		sizeExpr = DefaultEventCacheSize
	}
	cacheSize, err := ParseSize(sizeExpr)
	if err != nil {
		return nil, fmt.Errorf("event_cache_size: %w", err)
	}

	entries := cfg.Databases
	if len(entries) == 0 {
		if cfg.Database != nil {
			entries = []DatabaseEntry{*cfg.Database}
		} else {
			entries = []DatabaseEntry{{
				Name: sqlite.Kind,
				Args: map[string]any{
					"database": filepath.Join(opts.DataDir, DefaultDatabaseFile),
				},
			}}
		}
	}

	section := &DatabaseSection{EventCacheSize: cacheSize}
	for i, entry := range entries {
		label := entry.Label
		if label == "" {
			label = defaultLabel(i, len(entries))
		}

		stores := entry.DataStores
		if len(stores) == 0 && len(entries) == 1 {
			stores = []string{MainStore}
		}

		conn, err := database.New(label, database.Config{
			Name: entry.Name,
			Args: overrideDatabasePath(entry, opts),
		}, stores)
		if err != nil {
			return nil, fmt.Errorf("database %s: %w", label, err)
		}
		section.Databases = append(section.Databases, conn)
	}

	return section, nil
}

// overrideDatabasePath applies the CLI database-path override to a SQLite
// entry, resolving it against BaseDir unless it is the in-memory sentinel.
// Non-SQLite entries are returned untouched; the override is not an error
// for them. The entry's own args map is never modified.
func overrideDatabasePath(entry DatabaseEntry, opts ResolveOptions) map[string]any {
	if opts.DatabasePath == "" || entry.Name != sqlite.Kind {
		return entry.Args
	}

	path := opts.DatabasePath
	if path != sqlite.MemoryPath {
		path = absPath(opts.BaseDir, path)
	}

	args := maps.Clone(entry.Args)
	if args == nil {
		args = make(map[string]any, 1)
	}
	args["database"] = path
	return args
}

func defaultLabel(i, total int) string {
	if total == 1 {
		return "master"
	}
	return fmt.Sprintf("database-%d", i)
}

func absPath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
