package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/nkiryanov/memoria/internal/db"
)

const postgresImage = "postgres:17-alpine"

type PostgresContainer struct {
	// Pool to migrated database
	Pool *pgxpool.Pool

	// Connection string, for code that connects on its own
	DSN string

	Terminate func()
}

// Start container with migrated memoria schema
// Fails the test if anything goes wrong, so the container is ready when it returns
func StartPostgresContainer(t *testing.T) PostgresContainer {
	t.Helper()

	out, err := exec.Command("docker", "info", "--format", "{{.ServerVersion}}").CombinedOutput()
	if err != nil {
		t.Fatalf("test failed: docker not available or not running. Err:%s", out)
	}

	port, err := RandomPort()
	require.NoError(t, err, "can't acquire random port to start postgres")

	container, err := postgres.Run(t.Context(),
		postgresImage,
		postgres.WithDatabase("memoria-test"),
		postgres.WithUsername("memoria"),
		postgres.WithPassword("pwd"),
		postgres.BasicWaitStrategies(),
		testcontainers.CustomizeRequestOption(func(req *testcontainers.GenericContainerRequest) error {
			req.ExposedPorts = []string{fmt.Sprintf("%d:5432", port)}
			return nil
		}),
	)
	require.NoError(t, err, "can't start postgres container")

	dsn, err := container.ConnectionString(t.Context(), "sslmode=disable")
	require.NoError(t, err, "can't get postgres connection string")
	t.Logf("Container with pg started, DSN=%v", dsn)

	pool, err := db.ConnectAndMigrate(t.Context(), dsn)
	require.NoError(t, err, "can't connect to postgres or migrate schema")

	return PostgresContainer{
		Pool: pool,
		DSN:  dsn,
		Terminate: func() {
			pool.Close()
			testcontainers.CleanupContainer(t, container)
		},
	}
}

type beginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// Run testFunc inside transaction rolled back at the end
// So every test starts with empty tables
func WithTx(db beginner, t *testing.T, testFunc func(tx pgx.Tx)) {
	tx, err := db.Begin(t.Context())
	require.NoError(t, err)

	defer func() {
		require.NoError(t, tx.Rollback(t.Context()))
	}()

	testFunc(tx)
}
