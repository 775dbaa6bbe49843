package contract

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/mades/schema"
)

// Default values for configuration.
const (
	DefaultDebounce        = 800 * time.Millisecond
	DefaultCompletionDelay = 700 * time.Millisecond
	MaxDelay               = time.Minute
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration of the CLI.
// This struct is the "final, validated" config.
type Config struct {
	DataDir string

	RemoteBackend   schema.DatabaseBackend
	RemoteDBConnect string // Please use env var as this is plaintext

	Debounce        time.Duration
	CompletionDelay time.Duration

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Verbose bool
	Quiet   bool
	LogJSON bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	DataDir         string `mapstructure:"data-dir"`
	RemoteBackend   string `mapstructure:"remote-backend"`
	RemoteDBConnect string `mapstructure:"remote-db-connect"`
	Debounce        string `mapstructure:"debounce"`
	CompletionDelay string `mapstructure:"completion-delay"`
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Width           int    `mapstructure:"width"`
	Color           string `mapstructure:"color"`
	Verbose         bool   `mapstructure:"verbose"`
	Quiet           bool   `mapstructure:"quiet"`
	LogJSON         bool   `mapstructure:"log-json"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDelays(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("remote-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		dsn, err := mysql.ParseDSN(connStr)
		if err != nil {
			return fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		if dsn.DBName == "" {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("remote-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the remote backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.RemoteBackend))
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.RemoteBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.RemoteBackend]; !ok {
		return fmt.Errorf("invalid remote backend '%s'. must be sqlite, mysql, postgresql, none", input.RemoteBackend)
	}
	cfg.RemoteDBConnect = input.RemoteDBConnect
	return ValidateDatabaseConnectionString(cfg.RemoteBackend, cfg.RemoteDBConnect)
}

// validateSimpleInputs processes and validates all non-backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Verbose = input.Verbose
	cfg.Quiet = input.Quiet
	cfg.LogJSON = input.LogJSON

	if input.Verbose && input.Quiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}

	// --- 1. Data directory ---
	cfg.DataDir = strings.TrimSpace(input.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = GetDataDir()
	}
	abs, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("invalid data directory %q: %w", input.DataDir, err)
	}
	cfg.DataDir = abs

	// --- 2. Color flag ---
	color := input.Color
	if color == "" {
		color = "yes"
	}
	colors, err := ParseBoolString(color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 3. Width ---
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// --- 4. Output Validation ---
	output := input.Output
	if output == "" {
		output = string(schema.TextOut)
	}
	cfg.Output = schema.OutputMode(strings.ToLower(output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	return nil
}

// processDelays parses the debounce and completion delay durations.
func processDelays(cfg *Config, input *ConfigRawInput) error {
	debounce, err := parseDelay("debounce", input.Debounce, DefaultDebounce)
	if err != nil {
		return err
	}
	cfg.Debounce = debounce

	completion, err := parseDelay("completion-delay", input.CompletionDelay, DefaultCompletionDelay)
	if err != nil {
		return err
	}
	cfg.CompletionDelay = completion
	return nil
}

func parseDelay(name, raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", name, raw, err)
	}
	if d < 0 || d > MaxDelay {
		return 0, fmt.Errorf("%s must be between 0 and %s (received %s)", name, MaxDelay, d)
	}
	return d, nil
}
