package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/hearth-im/hearth/database"
)

// startTestDatabase runs a throwaway postgres container and returns the
// connection args for it.
func startTestDatabase(t *testing.T) map[string]any {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := pgcontainer.Run(ctx,
		"postgres:18-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		pgcontainer.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return map[string]any{
		"host":     host,
		"port":     port.Port(),
		"user":     "testuser",
		"password": "testpass",
		"database": "testdb",
		"sslmode":  "disable",
	}
}

func TestEngine_PoolAndSessionSetup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	args := startTestDatabase(t)

	conn, err := database.New("master", database.Config{Name: "postgres", Args: args}, []string{"main"})
	require.NoError(t, err)

	pool, err := conn.Pool(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	var isolation string
	err = pool.QueryRowContext(ctx, "SHOW default_transaction_isolation").Scan(&isolation)
	require.NoError(t, err)
	assert.Equal(t, "repeatable read", isolation)
}

func TestEngine_BareConn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	args := startTestDatabase(t)

	conn, err := database.New("master", database.Config{Name: "postgres", Args: args}, []string{"main"})
	require.NoError(t, err)

	bare, err := conn.BareConn(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bare.Close() })

	var isolation string
	err = bare.QueryRowContext(ctx, "SHOW default_transaction_isolation").Scan(&isolation)
	require.NoError(t, err)
	assert.Equal(t, "repeatable read", isolation)
}
