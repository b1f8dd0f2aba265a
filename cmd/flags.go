package cmd

import (
	"github.com/gnames/gndocs/pkg/config"
	"github.com/spf13/cobra"
)

type funcFlag func(cmd *cobra.Command)

// applyFlags moves values of changed command flags into the config.
func applyFlags(cmd *cobra.Command) {
	for _, f := range []funcFlag{portFlag, corpusFlag} {
		f(cmd)
	}
}

func portFlag(cmd *cobra.Command) {
	f := cmd.Flags().Lookup("port")
	if f == nil || !f.Changed {
		return
	}
	port, _ := cmd.Flags().GetInt("port")
	cfg.Update([]config.Option{config.OptServerPort(port)})
}

func corpusFlag(cmd *cobra.Command) {
	f := cmd.Flags().Lookup("corpus")
	if f == nil || !f.Changed {
		return
	}
	dir, _ := cmd.Flags().GetString("corpus")
	cfg.Update([]config.Option{config.OptCorpusDir(dir)})
}
