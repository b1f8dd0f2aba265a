// Package iobootstrap runs startup initialization that is safe when
// many service replicas start at once against one database.
//
// Every replica calls Run. Inside one transaction it tries a PostgreSQL
// advisory lock without waiting. The replica that gets the lock creates
// the schema, loads the corpus and repairs the documents sequence, then
// commits. Others commit the empty transaction and continue. The lock is
// transaction-scoped, so COMMIT or ROLLBACK releases it and there is no
// unlock call.
package iobootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gndocs/pkg/config"
	"github.com/gnames/gndocs/pkg/db"
	"github.com/gnames/gndocs/pkg/lifecycle"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tryLockSQL = `SELECT pg_try_advisory_xact_lock($1)`

type coordinator struct {
	db      db.TxBeginner
	lockKey int64
	dir     string
	schema  lifecycle.SchemaManager
	corpus  lifecycle.CorpusLoader
	seq     lifecycle.SequenceRepairer
}

// NewCoordinator creates a Bootstrapper. The transaction source is
// normally the pgx pool of the process. Lock key and corpus directory
// come from cfg.
func NewCoordinator(
	b db.TxBeginner,
	cfg *config.Config,
	sm lifecycle.SchemaManager,
	cl lifecycle.CorpusLoader,
	sr lifecycle.SequenceRepairer,
) lifecycle.Bootstrapper {
	// a nil pool stored in the interface would not compare to nil
	if p, ok := b.(*pgxpool.Pool); ok && p == nil {
		b = nil
	}
	return &coordinator{
		db:      b,
		lockKey: cfg.Bootstrap.LockKey,
		dir:     cfg.Corpus.Dir,
		schema:  sm,
		corpus:  cl,
		seq:     sr,
	}
}

// Run performs one bootstrap attempt.
func (c *coordinator) Run(
	ctx context.Context,
) (*lifecycle.BootstrapResult, error) {
	start := time.Now()
	res, err := c.run(ctx)
	res.Duration = time.Since(start)

	outcome := outcomeSkipped
	switch {
	case err != nil:
		outcome = outcomeFailed
	case res.Acquired:
		outcome = outcomeInitialized
	}
	recordAttempt(outcome, res.Duration.Seconds())
	return res, err
}

func (c *coordinator) run(
	ctx context.Context,
) (*lifecycle.BootstrapResult, error) {
	res := &lifecycle.BootstrapResult{}
	if c.db == nil {
		return res, NotConnectedError()
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return res, CancelledError(err)
		}
		return res, BeginTxError(err)
	}
	// no-op after a successful Commit
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	var acquired bool
	err = tx.QueryRow(ctx, tryLockSQL, c.lockKey).Scan(&acquired)
	if err != nil {
		if ctx.Err() != nil {
			return res, CancelledError(err)
		}
		return res, LockError(c.lockKey, err)
	}

	if !acquired {
		slog.Info("Bootstrap lock is held by another replica, skipping",
			"lock_key", c.lockKey)
		if err = tx.Commit(ctx); err != nil {
			return res, CommitTxError(err)
		}
		return res, nil
	}
	res.Acquired = true
	slog.Info("Bootstrap lock acquired", "lock_key", c.lockKey)

	if err = c.schema.Create(ctx, tx); err != nil {
		return res, err
	}

	stats, err := c.corpus.Load(ctx, tx, c.dir)
	if err != nil {
		return res, err
	}
	res.Corpus = stats

	res.NextID, err = c.seq.Repair(ctx, tx)
	if err != nil {
		return res, err
	}

	if err = tx.Commit(ctx); err != nil {
		return res, CommitTxError(err)
	}
	recordCorpus(stats.Processed, stats.Skipped)

	slog.Info("Bootstrap finished",
		"documents_loaded", stats.Processed,
		"files_skipped", stats.Skipped,
		"next_id", res.NextID,
	)
	return res, nil
}
