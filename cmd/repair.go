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
	"github.com/gnames/gndocs/internal/ioseq"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
)

// getRepairCmd returns the repair command.
func getRepairCmd() *cobra.Command {
	repairCmd := &cobra.Command{
		Use:   "repair",
		Short: "Repair the documents ID generator",
		Long: `Set the documents ID sequence so the next generated ID is
max(id)+1.

Bootstrap and uploads repair the sequence themselves. This command is
for databases changed by other tools, for example after a manual
restore with explicit IDs.

Examples:
  gndocs repair`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRepair(cmd.Context())
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return repairCmd
}

func runRepair(ctx context.Context) error {

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	var next int64
	err = pgx.BeginFunc(ctx, op.Pool(), func(tx pgx.Tx) (err error) {
		next, err = ioseq.NewRepairer().Repair(ctx, tx)
		return err
	})
	if err != nil {
		return err
	}

	gn.Info("Next document id: <em>%s</em>", humanize.Comma(next))
	return nil
}
