// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

/*
Package pgtest starts a disposable PostgreSQL server for repository tests.

The server runs in a container managed by testcontainers-go and receives the
same migrations the API applies at startup. Tests are skipped when no
container runtime is reachable.

Usage:

	pool := pgtest.NewPool(t)
	pgtest.Reset(t, pool)
*/
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/migration"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

const image = "postgres:16-alpine"

// NewPool starts a migrated PostgreSQL container and returns a pool bound to
// it. The container and the pool are released when the test ends.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		image,
		tcpostgres.WithDatabase("yamdb"),
		tcpostgres.WithUsername("yamdb"),
		tcpostgres.WithPassword("yamdb"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, migrationsDir(), logger))

	pool, err := postgres.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// Reset empties every table and restarts the ID sequences.
func Reset(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE "+
		schema.Comment.Table+", "+
		schema.Review.Table+", "+
		schema.TitleGenre.Table+", "+
		schema.Title.Table+", "+
		schema.Genre.Table+", "+
		schema.Category.Table+", "+
		schema.Account.Table+
		" RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

// migrationsDir locates data/migrations relative to this file, so tests work
// from any package directory.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
