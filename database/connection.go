package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/hearth-im/hearth"
	"github.com/hearth-im/hearth/database/sqlite"
)

// Pool sizing used when the config supplies no cp_min/cp_max.
const (
	defaultPoolMin = 3
	defaultPoolMax = 5
)

// Config mirrors one entry of the `database` section of the main config:
// the backend identifier and the arguments handed to its connector,
// including any cp_* pool-control arguments.
type Config struct {
	Name string
	Args map[string]any
}

// ConnectionConfig holds the validated, normalized configuration for one
// physical database, the list of logical data stores assigned to it, and
// the lazily created connection pool.
//
// The entity itself is immutable after New apart from the pool slot, which
// is guarded for concurrent first use.
type ConnectionConfig struct {
	label  string
	kind   string
	args   map[string]any
	stores []string
	engine hearth.Engine
	id     string

	mu   sync.Mutex
	pool *sql.DB
}

// New validates cfg against the engine registry and returns the connection
// config for one physical database. label is used only for diagnostics.
//
// For the sqlite backend the pool-control arguments are forced to a single
// non-shared connection, overwriting any caller-supplied values for those
// keys; the embedded driver does not support sharing one connection across
// goroutines. All other arguments are preserved. No connection is opened.
func New(label string, cfg Config, dataStores []string) (*ConnectionConfig, error) {
	engine, err := Lookup(cfg.Name)
	if err != nil {
		return nil, err
	}

	args := maps.Clone(cfg.Args)
	if args == nil {
		args = make(map[string]any)
	}
	if cfg.Name == sqlite.Kind {
		args[hearth.PoolArgMin] = 1
		args[hearth.PoolArgMax] = 1
		args[hearth.PoolArgShared] = false
	}

	return &ConnectionConfig{
		label:  label,
		kind:   cfg.Name,
		args:   args,
		stores: slices.Clone(dataStores),
		engine: engine,
		id:     uuid.NewString(),
	}, nil
}

// Name returns the diagnostic label for this database.
func (c *ConnectionConfig) Name() string { return c.label }

// Kind returns the backend identifier.
func (c *ConnectionConfig) Kind() string { return c.kind }

// DataStores returns the logical data stores assigned to this database.
func (c *ConnectionConfig) DataStores() []string { return slices.Clone(c.stores) }

// Args returns a copy of the normalized connection arguments, pool-control
// keys included.
func (c *ConnectionConfig) Args() map[string]any { return maps.Clone(c.args) }

// Pool returns the connection pool for this database, creating it on first
// use. At most one pool is ever created per ConnectionConfig; concurrent
// first callers observe a single construction. A failed construction is not
// cached, so a later call may retry.
//
// The pool is verified with a ping under ctx before it is published.
func (c *ConnectionConfig) Pool(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		return c.pool, nil
	}

	connector, err := c.connector()
	if err != nil {
		return nil, fmt.Errorf("database %s: %w", c.label, err)
	}

	db := sql.OpenDB(connector)
	min, max := c.poolSize()
	db.SetMaxIdleConns(min)
	db.SetMaxOpenConns(max)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create pool for database %s: %w", c.label, err)
	}

	slog.Info("database pool created",
		"db", c.label, "backend", c.kind, "pool_id", c.id, "max_conns", max)

	c.pool = db
	return db, nil
}

// BareConn opens a new connection outside the pool, for one-off
// administrative operations that must not consume a pooled slot. All
// pool-control arguments are stripped before the connect. The caller owns
// the connection and must Close it; every call opens a fresh one.
func (c *ConnectionConfig) BareConn(ctx context.Context) (*BareConn, error) {
	connector, err := c.connector()
	if err != nil {
		return nil, fmt.Errorf("database %s: %w", c.label, err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect database %s: %w", c.label, err)
	}

	return &BareConn{Conn: conn, db: db}, nil
}

// connector wraps the engine's connector so that every new connection,
// pooled or bare, receives the engine's session initialization.
func (c *ConnectionConfig) connector() (driver.Connector, error) {
	base, err := c.engine.Connector(hearth.StripPoolArgs(c.args))
	if err != nil {
		return nil, err
	}
	return &sessionConnector{base: base, engine: c.engine}, nil
}

func (c *ConnectionConfig) poolSize() (min, max int) {
	min, max = defaultPoolMin, defaultPoolMax
	if v, ok := c.args[hearth.PoolArgMin]; ok {
		min = cast.ToInt(v)
	}
	if v, ok := c.args[hearth.PoolArgMax]; ok {
		max = cast.ToInt(v)
	}
	if v, ok := c.args[hearth.PoolArgShared]; ok && !cast.ToBool(v) {
		max = 1
	}
	if max < 1 {
		max = 1
	}
	if min > max {
		min = max
	}
	return min, max
}

// BareConn is a single unpooled database connection.
type BareConn struct {
	*sql.Conn

	db *sql.DB
}

// Close releases the connection and its backing handle.
func (b *BareConn) Close() error {
	err := b.Conn.Close()
	if cerr := b.db.Close(); err == nil {
		err = cerr
	}
	return err
}
