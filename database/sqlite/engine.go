// Package sqlite implements the embedded-file database engine on top of
// modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql/driver"
	"fmt"
	"net/url"

	"github.com/spf13/cast"
	sqlitedriver "modernc.org/sqlite"
)

// Kind is the backend identifier for this engine.
const Kind = "sqlite"

// MemoryPath is the sentinel database path for a transient in-memory
// database. It is never resolved against the filesystem.
const MemoryPath = ":memory:"

// Engine drives an embedded SQLite database file. A single driver-level
// connection must not be used from multiple goroutines at once, which is why
// the database package pins SQLite pools to one connection.
type Engine struct{}

func (Engine) Kind() string { return Kind }

// Connector builds a connector for the database file named by the
// "database" argument. Any remaining arguments are appended to the DSN as
// query parameters (e.g. _pragma, _time_format).
func (Engine) Connector(args map[string]any) (driver.Connector, error) {
	path := cast.ToString(args["database"])
	if path == "" {
		return nil, fmt.Errorf("sqlite: missing required arg %q", "database")
	}

	dsn := path
	if len(args) > 1 {
		params := url.Values{}
		for k, v := range args {
			if k == "database" {
				continue
			}
			params.Add(k, cast.ToString(v))
		}
		dsn = path + "?" + params.Encode()
	}

	return dsnConnector{dsn: dsn, driver: &sqlitedriver.Driver{}}, nil
}

// OnNewConnection enables foreign-key enforcement, which SQLite leaves off
// per connection by default.
func (Engine) OnNewConnection(ctx context.Context, conn driver.Conn) error {
	execer, ok := conn.(driver.ExecerContext)
	if !ok {
		return fmt.Errorf("sqlite: driver connection does not support ExecContext")
	}
	if _, err := execer.ExecContext(ctx, "PRAGMA foreign_keys = ON", nil); err != nil {
		return fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	return nil
}

// dsnConnector adapts the driver's string-DSN Open to the connector
// interface used by the pool layer.
type dsnConnector struct {
	dsn    string
	driver driver.Driver
}

func (c dsnConnector) Connect(context.Context) (driver.Conn, error) {
	return c.driver.Open(c.dsn)
}

func (c dsnConnector) Driver() driver.Driver { return c.driver }
