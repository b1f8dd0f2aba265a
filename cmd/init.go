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

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/internal/iocorpus"
	"github.com/spf13/cobra"
)

// getInitCmd returns the init command.
func getInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Run one bootstrap attempt and exit",
		Long: `Run bootstrap once without starting the HTTP server.

This command:
  1. Connects to PostgreSQL and waits until it answers
  2. Tries to take the bootstrap advisory lock without waiting
  3. If the lock is taken, creates the schema, loads corpus documents
     and repairs the documents ID generator in one transaction
  4. Reports whether this process did the initialization

Running it many times, or from many hosts at once, is safe.

Examples:
  gndocs init
  gndocs init --corpus /app/texts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runInit(cmd.Context())
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	initCmd.Flags().StringP("corpus", "c", "", "directory with seed documents")

	return initCmd
}

func runInit(ctx context.Context) error {

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	bs := newBootstrapper(
		op.Pool(),
		iocorpus.OptProgress(iocorpus.NewProgressBar()),
	)
	res, err := bs.Run(ctx)
	if err != nil {
		return err
	}

	reportBootstrap(res)
	return nil
}
