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
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gndocs/internal/iofs"
	"github.com/gnames/gndocs/internal/iologger"
	app "github.com/gnames/gndocs/pkg"
	"github.com/gnames/gndocs/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = getRootCmd()

func getRootCmd() *cobra.Command {
	res := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gndocs",
		Short:   "Text documents and their linguistic analysis in PostgreSQL",
		Long: `GNdocs stores UTF-8 text documents in PostgreSQL, analyzes them
and serves documents and analyses over HTTP.

Every replica of the service runs a bootstrap at startup. The bootstrap
creates the database schema, loads seed documents from a corpus
directory and repairs the documents ID generator. Replicas coordinate
through a PostgreSQL advisory lock, only one of them does the work.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNDOCS_*)
  3. Config file (~/.config/gndocs/config.yaml)
  4. Built-in defaults

Environment Variables:
  GNDOCS_DATABASE_HOST            PostgreSQL host
  GNDOCS_DATABASE_PORT            PostgreSQL port
  GNDOCS_DATABASE_USER            PostgreSQL user
  GNDOCS_DATABASE_PASSWORD        PostgreSQL password
  GNDOCS_DATABASE_DATABASE        Database name
  GNDOCS_DATABASE_READY_TIMEOUT   Seconds to wait for PostgreSQL
  GNDOCS_BOOTSTRAP_LOCK_KEY       Advisory lock key of the deployment
  GNDOCS_CORPUS_DIR               Directory with seed documents
  GNDOCS_SERVER_PORT              HTTP port
  GNDOCS_LOG_LEVEL                Log level (debug/info/warn/error)`,
		PersistentPreRunE: bootstrap,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Remove the automatic "gndocs version" prefix
	res.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	res.Flags().BoolP("version", "V", false, "version for gndocs")

	res.AddCommand(
		getServeCmd(),
		getInitCmd(),
		getRepairCmd(),
		getStatusCmd(),
		getConfigCmd(),
	)
	return res
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.New().Log
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Flags of the running subcommand override everything else
	applyFlags(cmd)

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	setDefaults(v)

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// setDefaults registers built-in values, so that settings commented
// out in config.yaml and not given by environment keep them.
func setDefaults(v *viper.Viper) {
	def := config.New()
	v.SetDefault("database.host", def.Database.Host)
	v.SetDefault("database.port", def.Database.Port)
	v.SetDefault("database.user", def.Database.User)
	v.SetDefault("database.password", def.Database.Password)
	v.SetDefault("database.database", def.Database.Database)
	v.SetDefault("database.ssl_mode", def.Database.SSLMode)
	v.SetDefault("database.max_conns", def.Database.MaxConns)
	v.SetDefault("database.ready_timeout", def.Database.ReadyTimeout)
	v.SetDefault("bootstrap.lock_key", def.Bootstrap.LockKey)
	v.SetDefault("corpus.dir", def.Corpus.Dir)
	v.SetDefault("corpus.extension", def.Corpus.Extension)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.destination", def.Log.Destination)
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GNDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "GNDOCS_DATABASE_HOST")
	v.BindEnv("database.port", "GNDOCS_DATABASE_PORT")
	v.BindEnv("database.user", "GNDOCS_DATABASE_USER")
	v.BindEnv("database.password", "GNDOCS_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNDOCS_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNDOCS_DATABASE_SSL_MODE")
	v.BindEnv("database.max_conns", "GNDOCS_DATABASE_MAX_CONNS")
	v.BindEnv("database.ready_timeout", "GNDOCS_DATABASE_READY_TIMEOUT")

	// Bootstrap and corpus configuration
	v.BindEnv("bootstrap.lock_key", "GNDOCS_BOOTSTRAP_LOCK_KEY")
	v.BindEnv("corpus.dir", "GNDOCS_CORPUS_DIR")
	v.BindEnv("corpus.extension", "GNDOCS_CORPUS_EXTENSION")

	// Server configuration
	v.BindEnv("server.port", "GNDOCS_SERVER_PORT")

	// Log configuration
	v.BindEnv("log.level", "GNDOCS_LOG_LEVEL")
	v.BindEnv("log.format", "GNDOCS_LOG_FORMAT")
	v.BindEnv("log.destination", "GNDOCS_LOG_DESTINATION")

	v.AutomaticEnv()
}
