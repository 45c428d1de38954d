package hearth

import (
	"context"
	"database/sql/driver"
	"strings"
)

// Engine describes one supported database backend. Implementations live in
// database/sqlite and database/postgres and are looked up through the
// registry in the database package; code elsewhere never branches on the
// backend identifier directly.
type Engine interface {
	// Kind returns the backend identifier, e.g. "sqlite" or "postgres".
	Kind() string

	// Connector builds a driver-level connector from backend-native
	// connection arguments. Pool-control arguments have already been
	// stripped by the caller.
	Connector(args map[string]any) (driver.Connector, error)

	// OnNewConnection applies backend-specific session initialization to a
	// freshly opened connection. It runs once per connection, pooled or
	// bare.
	OnNewConnection(ctx context.Context, conn driver.Conn) error
}

// Pool-control argument keys. They share the cp_ prefix so they can be
// recognized and stripped before arguments reach a driver connect.
const (
	PoolArgPrefix = "cp_"

	// PoolArgMin and PoolArgMax bound the connection pool size.
	PoolArgMin = "cp_min"
	PoolArgMax = "cp_max"

	// PoolArgShared controls whether the pool may hand out multiple
	// connections concurrently. The embedded SQLite backend forces it off.
	PoolArgShared = "cp_shared"
)

// StripPoolArgs returns a copy of args without any pool-control keys,
// leaving only backend-native connection arguments. The input map is not
// modified.
func StripPoolArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if strings.HasPrefix(k, PoolArgPrefix) {
			continue
		}
		out[k] = v
	}
	return out
}
