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
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/internal/ioconfig"
	"github.com/gnames/gndocs/pkg/config"
	"github.com/spf13/cobra"
)

// getConfigCmd returns the config command.
func getConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Long: `Print the configuration gndocs uses after merging config.yaml,
GNDOCS_* environment variables and built-in defaults.

The config file is checked for unknown settings first. The database
password is masked.

Examples:
  gndocs config
  GNDOCS_CORPUS_DIR=/data gndocs config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runConfig(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return configCmd
}

func runConfig(cmd *cobra.Command) error {
	path := config.ConfigFilePath(cfg.HomeDir)
	if err := ioconfig.ValidateFile(path); err != nil {
		return err
	}

	out, err := ioconfig.Dump(cfg)
	if err != nil {
		return err
	}

	gn.Info("Config file: <em>%s</em>", path)
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
