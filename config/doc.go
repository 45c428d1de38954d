// Package config loads and resolves hearth's configuration.
//
// Load merges built-in defaults, config files, environment variables
// (HEARTH_ prefix), and CLI flags, in increasing order of precedence, and
// validates the result. ResolveDatabases then turns the raw database
// section into the effective set of database.ConnectionConfig entities,
// applying backend defaults and the CLI database-path override. Resolution
// happens exactly once at process start; there is no runtime
// reconfiguration.
//
// GenerateDatabaseSection renders the commented example `## Database ##`
// block used in generated config files.
package config
