package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/huangsam/seisread/core"
	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/internal/log"
	"github.com/huangsam/seisread/internal/outwriter"
	"github.com/huangsam/seisread/internal/runstore"
	"github.com/huangsam/seisread/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit statuses reported by the binary.
const (
	ExitFailure   = 1
	ExitMalformed = 2
	ExitTruncated = 3
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// startProfiling starts CPU profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		_ = cpuFile.Close()
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Profiling notes go to stderr so converted rows on stdout stay clean
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd converts one accelerometer log.
var rootCmd = &cobra.Command{
	Use:   "seisread [flags] <file>",
	Short: "Decode seismic accelerometer logs into timestamped milli-g readings.",
	Long: `Seisread decodes a binary accelerometer log into one line per reading.

The log's file name must begin with its recording date (YYYY-MM-DD); every
record's elapsed milliseconds are added to local midnight of that date.
A net and peak summary for each axis is printed after the rows.

Examples:
  # Default space-separated rows
  seisread 2024-03-01.bin

  # Comma-separated rows with fractional seconds in their own column
  seisread -c -f 2024-03-01.bin

  # Only the summary
  seisread -s 2024-03-01.bin

  # Parquet export for DuckDB or pandas
  seisread --output parquet --output-file march.parquet 2024-03-01.bin`,
	Version:            version,
	Args:               cobra.MaximumNArgs(1),
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		_, err := core.ExecuteConvert(rootCtx, cfg, runstore.Manager.GetRunStore())
		return err
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSource()

	// Set environment variable prefix
	viper.SetEnvPrefix("SEISREAD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Set defaults in Viper
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("timezone", contract.DefaultTimezone)
	viper.SetDefault("color", "yes")
	viper.SetDefault("runs-backend", schema.NoneBackend)
	viper.SetDefault("runs-db-connect", "")
}

// setConfigSource points viper at --config or at .seisread.yaml in . or $HOME.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".seisread")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	if err := contract.ProcessProfilingConfig(profile, viper.GetString("profile")); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if err := startProfiling(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle the positional argument (which Viper doesn't do).
	if len(args) == 1 {
		input.InputPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	if err := log.Init(cfg.Debug); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	outwriter.ConfigureColors(cfg.UseColors)

	// 5. A broken run store never blocks a conversion.
	if err := runstore.InitStores(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		contract.LogWarn("Run history disabled", err)
	}

	return nil
}

// loadConfigFile reads the config file if one exists.
func loadConfigFile() error {
	setConfigSource()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}

// ExitStatus maps a command error to the process exit status and the
// condition printed ahead of it.
func ExitStatus(err error) (string, int) {
	switch {
	case errors.Is(err, core.ErrMalformedFileName):
		return "Cannot anchor log", ExitMalformed
	case errors.Is(err, core.ErrTruncatedRecord):
		return "Log ends mid-record", ExitTruncated
	default:
		return "Command failed", ExitFailure
	}
}
