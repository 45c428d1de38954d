// Package hearth provides the core types for hearth's persistence layer:
// pluggable database engines and the shared vocabulary for connection
// arguments.
//
// A hearth server persists its state in one or more physical databases.
// Each physical database is driven by an Engine (an embedded SQLite file or
// a PostgreSQL server) and hosts a set of logical data stores. The database
// package builds on these types to validate configuration and provision
// connection pools lazily; the config package resolves the effective set of
// databases from the config file, built-in defaults, and CLI overrides.
//
// # Key Components
//
//   - Engine: one supported database backend, exposing a connector factory
//     and a per-connection session initialization hook
//   - Pool-control argument keys (cp_*): govern pool sizing and sharing and
//     are stripped before arguments reach a driver
//
// See the database package for connection and pool lifecycle management and
// the config package for configuration resolution.
package hearth
