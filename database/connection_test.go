package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth-im/hearth"
)

// Test helpers

type fakeConn struct{}

func (fakeConn) Prepare(query string) (driver.Stmt, error) { return nil, errors.New("not implemented") }
func (fakeConn) Close() error                              { return nil }
func (fakeConn) Begin() (driver.Tx, error)                 { return nil, errors.New("not implemented") }

type fakeConnector struct {
	engine *fakeEngine
}

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()

	c.engine.connects++
	if c.engine.failConnects > 0 {
		c.engine.failConnects--
		return nil, errors.New("connection refused")
	}
	return fakeConn{}, nil
}

func (c *fakeConnector) Driver() driver.Driver { return nil }

// fakeEngine records every interaction so tests can observe what reached
// the driver layer.
type fakeEngine struct {
	mu            sync.Mutex
	connectorArgs []map[string]any
	connectors    int
	connects      int
	hooks         int
	failConnects  int
}

func (e *fakeEngine) Kind() string { return "fake" }

func (e *fakeEngine) Connector(args map[string]any) (driver.Connector, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.connectors++
	e.connectorArgs = append(e.connectorArgs, args)
	return &fakeConnector{engine: e}, nil
}

func (e *fakeEngine) OnNewConnection(ctx context.Context, conn driver.Conn) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.hooks++
	return nil
}

func registerFake(t *testing.T) *fakeEngine {
	t.Helper()

	engine := &fakeEngine{}
	enginesMu.Lock()
	engines["fake"] = engine
	enginesMu.Unlock()
	t.Cleanup(func() {
		enginesMu.Lock()
		delete(engines, "fake")
		enginesMu.Unlock()
	})
	return engine
}

// Tests

func TestNew_UnsupportedBackend(t *testing.T) {
	for _, kind := range []string{"mysql", "sqlite3", "psycopg2", ""} {
		_, err := New("master", Config{Name: kind}, nil)
		require.Error(t, err, "kind %q", kind)
		assert.ErrorIs(t, err, hearth.ErrUnsupportedBackend)
	}
}

func TestNew_SQLiteForcesSinglePoolArgs(t *testing.T) {
	callerArgs := map[string]any{
		"database":           "test.db",
		hearth.PoolArgMin:    5,
		hearth.PoolArgMax:    5,
		hearth.PoolArgShared: true,
	}

	conn, err := New("master", Config{Name: "sqlite", Args: callerArgs}, nil)
	require.NoError(t, err)

	args := conn.Args()
	assert.Equal(t, 1, args[hearth.PoolArgMin])
	assert.Equal(t, 1, args[hearth.PoolArgMax])
	assert.Equal(t, false, args[hearth.PoolArgShared])
	assert.Equal(t, "test.db", args["database"], "non-pool args must be preserved")

	// the caller's map must not have been rewritten
	assert.Equal(t, 5, callerArgs[hearth.PoolArgMin])
	assert.Equal(t, true, callerArgs[hearth.PoolArgShared])
}

func TestNew_NoConnectionAtConstruction(t *testing.T) {
	engine := registerFake(t)

	_, err := New("master", Config{Name: "fake"}, nil)
	require.NoError(t, err)

	assert.Zero(t, engine.connectors)
	assert.Zero(t, engine.connects)
}

func TestPool_ExactlyOnceUnderConcurrency(t *testing.T) {
	engine := registerFake(t)

	conn, err := New("master", Config{Name: "fake", Args: map[string]any{hearth.PoolArgMax: 4}}, nil)
	require.NoError(t, err)

	const n = 32
	pools := make([]*sql.DB, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pools[i], errs[i] = conn.Pool(context.Background())
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Same(t, pools[0], pools[i])
	}
	assert.Equal(t, 1, engine.connectors, "pool must be constructed exactly once")
}

func TestPool_FailedConstructionIsRetried(t *testing.T) {
	engine := registerFake(t)
	engine.failConnects = 1

	conn, err := New("master", Config{Name: "fake"}, nil)
	require.NoError(t, err)

	_, err = conn.Pool(context.Background())
	require.Error(t, err)

	pool, err := conn.Pool(context.Background())
	require.NoError(t, err)

	again, err := conn.Pool(context.Background())
	require.NoError(t, err)
	assert.Same(t, pool, again)
}

func TestBareConn_StripsPoolArgs(t *testing.T) {
	engine := registerFake(t)

	conn, err := New("master", Config{Name: "fake", Args: map[string]any{
		"host":               "db.example.com",
		hearth.PoolArgMin:    2,
		hearth.PoolArgMax:    8,
		hearth.PoolArgShared: true,
	}}, nil)
	require.NoError(t, err)

	bare, err := conn.BareConn(context.Background())
	require.NoError(t, err)
	defer func() { _ = bare.Close() }()

	require.Len(t, engine.connectorArgs, 1)
	args := engine.connectorArgs[0]
	assert.Equal(t, "db.example.com", args["host"])
	for key := range args {
		assert.False(t, strings.HasPrefix(key, hearth.PoolArgPrefix),
			"pool-control arg %q reached the driver", key)
	}
}

func TestBareConn_NewConnectionEachCall(t *testing.T) {
	engine := registerFake(t)

	conn, err := New("master", Config{Name: "fake"}, nil)
	require.NoError(t, err)

	first, err := conn.BareConn(context.Background())
	require.NoError(t, err)
	second, err := conn.BareConn(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, engine.connects)

	require.NoError(t, first.Close())
	require.NoError(t, second.Close())
}

func TestOnNewConnection_RunsForPooledAndBare(t *testing.T) {
	engine := registerFake(t)

	conn, err := New("master", Config{Name: "fake"}, nil)
	require.NoError(t, err)

	_, err = conn.Pool(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, engine.hooks, "pool ping opens one initialized connection")

	bare, err := conn.BareConn(context.Background())
	require.NoError(t, err)
	defer func() { _ = bare.Close() }()

	assert.Equal(t, 2, engine.hooks)
}

func TestDataStores_Copied(t *testing.T) {
	stores := []string{"main", "state"}

	conn, err := New("master", Config{Name: "sqlite", Args: map[string]any{"database": "test.db"}}, stores)
	require.NoError(t, err)

	got := conn.DataStores()
	require.Equal(t, stores, got)

	got[0] = "mutated"
	assert.Equal(t, []string{"main", "state"}, conn.DataStores())
}
