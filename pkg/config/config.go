// Package config provides configuration management for GNdocs.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, max_conns,
//     ready_timeout
//   - Bootstrap: lock_key
//   - Corpus: dir, extension
//   - Server: port
//   - Log: level, format, destination
//
// Runtime-only fields:
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNDOCS_ prefix with underscores for nesting:
//
//	GNDOCS_DATABASE_HOST=localhost
//	GNDOCS_DATABASE_PORT=5432
//	GNDOCS_CORPUS_DIR=/app/texts
//	GNDOCS_LOG_LEVEL=info
package config

// Config represents the complete GNdocs configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Bootstrap contains settings of the startup initialization.
	Bootstrap BootstrapConfig `mapstructure:"bootstrap" yaml:"bootstrap"`

	// Corpus describes the directory with seed documents.
	Corpus CorpusConfig `mapstructure:"corpus" yaml:"corpus"`

	// Server contains HTTP settings for the serve command.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// MaxConns is the size of the connection pool.
	MaxConns int `mapstructure:"max_conns" yaml:"max_conns"`

	// ReadyTimeout is the number of seconds to wait for PostgreSQL
	// to answer a trivial query before giving up at startup.
	ReadyTimeout int `mapstructure:"ready_timeout" yaml:"ready_timeout"`
}

// BootstrapConfig contains settings of the schema and corpus initialization
// that runs when a service replica starts.
type BootstrapConfig struct {
	// LockKey is the advisory lock key shared by all replicas.
	// Every replica of one deployment must use the same value.
	LockKey int64 `mapstructure:"lock_key" yaml:"lock_key"`
}

// CorpusConfig describes the directory with documents loaded at bootstrap.
type CorpusConfig struct {
	// Dir is the directory with seed text files. A missing directory
	// is not an error, bootstrap creates the schema only.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Extension of files to load, including the dot.
	Extension string `mapstructure:"extension" yaml:"extension"`
}

// ServerConfig contains HTTP settings.
type ServerConfig struct {
	// Port is the TCP port of the HTTP API.
	Port int `mapstructure:"port" yaml:"port"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "postgres",
			Password:     "postgres",
			Database:     "gndocs",
			SSLMode:      "disable",
			MaxConns:     10,
			ReadyTimeout: 60,
		},
		Bootstrap: BootstrapConfig{
			LockKey: DefaultLockKey,
		},
		Corpus: CorpusConfig{
			Dir:       "/app/texts",
			Extension: ".txt",
		},
		Server: ServerConfig{
			Port: 8000,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "stderr",
		},
	}

	return res
}
