// Package database manages hearth's physical database connections.
//
// Each physical database the server uses is described by one
// ConnectionConfig, built from the `database` section of the main config.
// Construction validates the backend identifier against the engine registry
// and normalizes pool-control arguments, but opens nothing; the connection
// pool is created lazily on the first Pool call and shared by every logical
// data store assigned to that database. BareConn bypasses the pool entirely
// for one-off administrative work.
//
// # Supported Backends
//
//   - sqlite: embedded single-file backend (modernc.org/sqlite), pinned to a
//     single connection because the driver does not tolerate sharing one
//     connection across goroutines
//   - postgres: client/server backend using pgx's database/sql adapter
//
// Adding a backend means implementing hearth.Engine and registering it here;
// nothing else branches on the identifier.
package database
