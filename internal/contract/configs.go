package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/seisread/schema"
)

// DefaultTimezone selects the host's local zone for the file-name anchor.
const DefaultTimezone = "Local"

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a conversion.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath string
	Location  *time.Location // Zone in which the file-name date is interpreted

	Comma     bool // Comma-separated text lines
	Fraction  bool // Seconds fraction column instead of .mmm suffix
	StatsOnly bool // Suppress per-sample lines

	Output     schema.OutputMode
	OutputFile string

	UseColors bool
	Debug     bool

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	Comma         bool   `mapstructure:"comma"`
	Fraction      bool   `mapstructure:"fraction"`
	StatsOnly     bool   `mapstructure:"stats-only"`
	Output        string `mapstructure:"output"`
	OutputFile    string `mapstructure:"output-file"`
	Timezone      string `mapstructure:"timezone"`
	Color         string `mapstructure:"color"`
	Debug         bool   `mapstructure:"debug"`
	RunsBackend   string `mapstructure:"runs-backend"`
	RunsDBConnect string `mapstructure:"runs-db-connect"`
}

// Clone returns a copy of the config. Location is shared since it is immutable.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate turns raw inputs into a validated Config.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimezone(cfg, input); err != nil {
		return err
	}
	return validateRunsBackend(cfg, input)
}

// ValidateDatabaseConnectionString validates the connection string for the given backend.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
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

func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.InputPathStr) == "" {
		return fmt.Errorf("an input file is required")
	}
	cfg.InputPath = input.InputPathStr
	cfg.Comma = input.Comma
	cfg.Fraction = input.Fraction
	cfg.StatsOnly = input.StatsOnly
	cfg.OutputFile = input.OutputFile
	cfg.Debug = input.Debug

	if input.Color == "" {
		input.Color = "yes"
	}
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Output == "" {
		input.Output = string(schema.TextOut)
	}
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// processTimezone resolves the zone used to build the anchor midnight.
func processTimezone(cfg *Config, input *ConfigRawInput) error {
	name := strings.TrimSpace(input.Timezone)
	if name == "" || strings.EqualFold(name, DefaultTimezone) {
		cfg.Location = time.Local
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", input.Timezone, err)
	}
	cfg.Location = loc
	return nil
}

func validateRunsBackend(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseRunsBackend(input.RunsBackend)
	if err != nil {
		return err
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = input.RunsDBConnect
	return ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect)
}

// ParseRunsBackend maps a backend name in any case to a known backend.
// An empty name means none.
func ParseRunsBackend(name string) (schema.DatabaseBackend, error) {
	if name == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(name))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	return backend, nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	prefix := strings.TrimSpace(profilePrefix)
	if prefix == "" {
		profile.Enabled = false
		profile.Prefix = ""
		return nil
	}
	if strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("profile prefix %q must name a file, not a directory", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = prefix
	return nil
}
