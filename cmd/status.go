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

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gndocs/internal/ioanalysis"
	"github.com/gnames/gndocs/internal/iodocs"
	"github.com/gnames/gndocs/internal/ioschema"
	"github.com/gnames/gndocs/internal/ioseq"
	"github.com/spf13/cobra"
)

// getStatusCmd returns the status command.
func getStatusCmd() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show schema presence and document counts",
		Long: `Report whether the GNdocs schema exists and how many documents
and analyses are stored.

Examples:
  gndocs status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runStatus(cmd.Context())
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return statusCmd
}

func runStatus(ctx context.Context) error {

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()
	pool := op.Pool()

	exists, err := ioschema.NewManager().Exists(ctx, pool)
	if err != nil {
		return err
	}
	if !exists {
		gn.Warn("Schema is not created yet. Run <em>'gndocs init'</em> or start <em>'gndocs serve'</em>")
		return nil
	}

	docs, err := iodocs.NewStore(pool, ioseq.NewRepairer()).Count(ctx)
	if err != nil {
		return err
	}

	analyses, err := ioanalysis.NewStore(pool)
	if err != nil {
		return err
	}
	analysed, err := analyses.Count(ctx)
	if err != nil {
		return err
	}

	gn.Info("Schema: <em>present</em>")
	gn.Info("Documents: <em>%s</em>", humanize.Comma(docs))
	gn.Info("Analyses: <em>%s</em>", humanize.Comma(analysed))
	return nil
}
