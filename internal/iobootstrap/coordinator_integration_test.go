package iobootstrap_test

import (
	"context"
	"testing"

	"github.com/gnames/gndocs/internal/iobootstrap"
	"github.com/gnames/gndocs/internal/iocorpus"
	"github.com/gnames/gndocs/internal/iodb"
	"github.com/gnames/gndocs/internal/ioschema"
	"github.com/gnames/gndocs/internal/ioseq"
	"github.com/gnames/gndocs/internal/iotesting"
	"github.com/gnames/gndocs/pkg/config"
	"github.com/gnames/gndocs/pkg/lifecycle"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, iotesting.GetTestDatabaseConfig()))
	t.Cleanup(func() { _ = op.Close() })
	require.NoError(t, op.WaitReady(ctx))

	pool := op.Pool()
	_, err := pool.Exec(ctx, "DROP TABLE IF EXISTS analyses, documents CASCADE")
	require.NoError(t, err)
	return pool
}

func realCoordinator(pool *pgxpool.Pool, cfg *config.Config) lifecycle.Bootstrapper {
	return iobootstrap.NewCoordinator(
		pool, cfg,
		ioschema.NewManager(),
		iocorpus.NewLoader(cfg.Corpus.Extension),
		ioseq.NewRepairer(),
	)
}

type docRow struct {
	ID       int64
	Filename string
	Content  string
}

// snapshot returns every document ordered by id.
func snapshot(t *testing.T, pool *pgxpool.Pool) []docRow {
	t.Helper()
	rows, err := pool.Query(context.Background(),
		"SELECT id, filename, content FROM documents ORDER BY id")
	require.NoError(t, err)
	res, err := pgx.CollectRows(rows, pgx.RowToStructByPos[docRow])
	require.NoError(t, err)
	return res
}

func countDocs(t *testing.T, pool *pgxpool.Pool) int {
	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM documents").Scan(&n))
	return n
}

func TestBootstrap_ConcurrentReplicas(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pool := setupPool(t)
	cfg := testConfig(t)
	c := realCoordinator(pool, cfg)

	const replicas = 8
	var g errgroup.Group
	results := make([]bool, replicas)
	for i := range replicas {
		g.Go(func() error {
			res, err := c.Run(context.Background())
			if err != nil {
				return err
			}
			results[i] = res.Acquired
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Contains(t, results, true, "at least one replica initializes")
	assert.Equal(t, 2, countDocs(t, pool), "corpus converges without duplicates")

	var id int64
	err := pool.QueryRow(context.Background(),
		"INSERT INTO documents (filename, content) VALUES ('new.txt', '') RETURNING id",
	).Scan(&id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id, "sequence is ahead of loaded ids")
}

func TestBootstrap_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pool := setupPool(t)
	c := realCoordinator(pool, testConfig(t))

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Acquired)
	first := snapshot(t, pool)
	require.Len(t, first, 2)

	for range 2 {
		res, err = c.Run(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Acquired, "sequential runs each take the lock")
		assert.Equal(t, int64(3), res.NextID)
		assert.Equal(t, first, snapshot(t, pool),
			"ids, names and content do not change on rerun")
	}
}

func TestBootstrap_LockHeldElsewhere(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pool := setupPool(t)
	cfg := testConfig(t)

	holder, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback(ctx) }()
	_, err = holder.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", cfg.Bootstrap.LockKey)
	require.NoError(t, err)

	c := realCoordinator(pool, cfg)
	var g errgroup.Group
	for range 4 {
		g.Go(func() error {
			res, err := c.Run(ctx)
			if err != nil {
				return err
			}
			assert.False(t, res.Acquired)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var exists bool
	require.NoError(t, pool.QueryRow(ctx,
		"SELECT to_regclass('public.documents') IS NOT NULL").Scan(&exists))
	assert.False(t, exists, "replicas without the lock write nothing")
}

func TestBootstrap_Cascade(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pool := setupPool(t)
	_, err := realCoordinator(pool, testConfig(t)).Run(ctx)
	require.NoError(t, err)

	_, err = pool.Exec(ctx,
		"INSERT INTO analyses (document_id, tokens) SELECT id, '[]' FROM documents WHERE filename = 'one.txt'")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, "DELETE FROM documents WHERE filename = 'one.txt'")
	require.NoError(t, err)

	var n int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM analyses").Scan(&n))
	assert.Zero(t, n, "analysis is deleted with its document")
}
