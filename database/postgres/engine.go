// Package postgres implements the client/server database engine on top of
// jackc/pgx.
package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cast"
)

// Kind is the backend identifier for this engine.
const Kind = "postgres"

// Engine drives a PostgreSQL server through pgx's database/sql adapter.
type Engine struct{}

func (Engine) Kind() string { return Kind }

// Connector builds a connector from libpq-style connection arguments
// (host, port, user, password, database, sslmode, ...). The "database" key
// is translated to pgx's "dbname".
func (Engine) Connector(args map[string]any) (driver.Connector, error) {
	cfg, err := pgx.ParseConfig(buildDSN(args))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse connection args: %w", err)
	}
	return stdlib.GetConnector(*cfg), nil
}

// OnNewConnection pins the session to repeatable-read isolation so that all
// data-store transactions observe a stable snapshot.
func (Engine) OnNewConnection(ctx context.Context, conn driver.Conn) error {
	execer, ok := conn.(driver.ExecerContext)
	if !ok {
		return fmt.Errorf("postgres: driver connection does not support ExecContext")
	}
	stmt := "SET default_transaction_isolation TO 'repeatable read'"
	if _, err := execer.ExecContext(ctx, stmt, nil); err != nil {
		return fmt.Errorf("postgres: set isolation level: %w", err)
	}
	return nil
}

// buildDSN renders args as a keyword/value connection string. Keys are
// emitted in sorted order so the result is deterministic.
func buildDSN(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		key := k
		if key == "database" {
			key = "dbname"
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString("='")
		b.WriteString(escape(cast.ToString(args[k])))
		b.WriteByte('\'')
	}
	return b.String()
}

func escape(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
