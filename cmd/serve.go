/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gnames/gn"
	"github.com/gnames/gndocs/internal/ioanalysis"
	"github.com/gnames/gndocs/internal/iodocs"
	"github.com/gnames/gndocs/internal/ioseq"
	"github.com/gnames/gndocs/internal/ioweb"
	"github.com/gnames/gndocs/pkg/nlp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// getServeCmd returns the serve command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run bootstrap and serve the HTTP API",
		Long: `Start a service replica.

This command:
  1. Connects to PostgreSQL and waits until it answers
  2. Runs bootstrap: schema, corpus documents and ID generator repair.
     Only one replica at a time does it, others skip.
  3. Serves documents and analyses over HTTP until SIGINT or SIGTERM

A failed bootstrap is logged and the replica serves whatever the
database already has.

Examples:
  gndocs serve
  gndocs serve --port 8080 --corpus ./texts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runServe(cmd.Context())
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	serveCmd.Flags().IntP("port", "p", 0, "HTTP port")
	serveCmd.Flags().StringP("corpus", "c", "", "directory with seed documents")

	return serveCmd
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()
	pool := op.Pool()

	res, err := newBootstrapper(pool).Run(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		slog.Error("Bootstrap failed, serving existing data", "error", err)
	} else {
		reportBootstrap(res)
	}

	analyses, err := ioanalysis.NewStore(pool)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := ioweb.NewRouter(ioweb.Deps{
		Docs:     iodocs.NewStore(pool, ioseq.NewRepairer()),
		Analyses: analyses,
		Analyzer: nlp.NewShared(nlp.NewRuleAnalyzer),
		Ping:     pool.Ping,
	})
	srv := ioweb.NewServer(cfg.Server.Port, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gn.Info("Serving HTTP on port <em>%d</em>", cfg.Server.Port)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down HTTP server")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err = g.Wait(); err != nil {
		return err
	}
	gn.Info("Server stopped")
	return nil
}
