package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fundchain/riskd/pkg/postgres"
)

// Postgres is a PostgreSQL server with an open pool that lives for the
// duration of a test.
type Postgres struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	Pool      *pgxpool.Pool
}

// StartPostgres runs PostgreSQL, opens a pool against it and registers both
// for teardown with t.Cleanup.
func StartPostgres(ctx context.Context, t *testing.T) *Postgres {
	t.Helper()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("riskd"),
		tcpostgres.WithUsername("riskd"),
		tcpostgres.WithPassword("riskd"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	pg := &Postgres{Container: container}
	t.Cleanup(pg.stop(t))

	pg.DSN, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pg.Pool, err = postgres.NewPool(ctx, postgres.Config{URL: pg.DSN, MaxConns: 4})
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}

	return pg
}

// Migrate applies the migrations at source (e.g. "file://../../../migrations").
func (pg *Postgres) Migrate(t *testing.T, source string) {
	t.Helper()
	if err := postgres.RunMigrations(pg.DSN, source); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
}

// Truncate empties the given tables between subtests.
func (pg *Postgres) Truncate(ctx context.Context, t *testing.T, tables ...string) {
	t.Helper()
	for _, table := range tables {
		if _, err := pg.Pool.Exec(ctx, "TRUNCATE "+pgx.Identifier{table}.Sanitize()+" CASCADE"); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}

func (pg *Postgres) stop(t *testing.T) func() {
	return func() {
		if pg.Pool != nil {
			pg.Pool.Close()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.Container.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate postgres container: %v", err)
		}
	}
}
