package cmd

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gndocs/internal/iobootstrap"
	"github.com/gnames/gndocs/internal/iocorpus"
	"github.com/gnames/gndocs/internal/iodb"
	"github.com/gnames/gndocs/internal/ioschema"
	"github.com/gnames/gndocs/internal/ioseq"
	"github.com/gnames/gndocs/pkg/db"
	"github.com/gnames/gndocs/pkg/lifecycle"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5/pgxpool"
)

// connect creates the pool and waits until PostgreSQL answers.
func connect(ctx context.Context) (db.Operator, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	if err := op.WaitReady(ctx); err != nil {
		op.Close()
		return nil, err
	}

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)
	return op, nil
}

func newBootstrapper(
	pool *pgxpool.Pool,
	opts ...iocorpus.Option,
) lifecycle.Bootstrapper {
	return iobootstrap.NewCoordinator(
		pool, cfg,
		ioschema.NewManager(),
		iocorpus.NewLoader(cfg.Corpus.Extension, opts...),
		ioseq.NewRepairer(),
	)
}

func reportBootstrap(res *lifecycle.BootstrapResult) {
	if !res.Acquired {
		gn.Info("Bootstrap is done by another replica, nothing to do")
		return
	}

	gn.Info("Bootstrap finished in <em>%s</em>",
		gnfmt.TimeString(res.Duration.Seconds()))
	if res.Corpus != nil {
		gn.Info("Corpus <em>%s</em>: loaded %s files, skipped %s",
			cfg.Corpus.Dir,
			humanize.Comma(int64(res.Corpus.Processed)),
			humanize.Comma(int64(res.Corpus.Skipped)))
		for _, f := range res.Corpus.SkippedFiles {
			gn.Warn("Skipped <em>%s</em>", f)
		}
	}
	gn.Info("Next document id: <em>%s</em>", humanize.Comma(res.NextID))
}
