package database

import (
	"fmt"
	"sync"

	"github.com/hearth-im/hearth"
	"github.com/hearth-im/hearth/database/postgres"
	"github.com/hearth-im/hearth/database/sqlite"
)

// engines is the closed set of supported backends.
var (
	enginesMu sync.Mutex
	engines   = map[string]hearth.Engine{
		sqlite.Kind:   sqlite.Engine{},
		postgres.Kind: postgres.Engine{},
	}
)

// Lookup returns the engine for the given backend identifier. It is a pure
// lookup; unknown identifiers fail with hearth.ErrUnsupportedBackend.
func Lookup(kind string) (hearth.Engine, error) {
	enginesMu.Lock()
	engine, ok := engines[kind]
	enginesMu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, hearth.ErrUnsupportedBackend)
	}
	return engine, nil
}
