package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/internal/runstore"
	"github.com/huangsam/seisread/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errRunsDisabled is returned when a runs subcommand has no backend to talk to.
var errRunsDisabled = errors.New("run history is disabled; pass --runs-backend sqlite, mysql or postgresql")

// runsConfig loads only what the runs subcommands need: backend, connection
// and output file. No input log is involved.
func runsConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseRunsBackend(viper.GetString("runs-backend"))
	if err != nil {
		return err
	}
	if backend == schema.NoneBackend {
		return errRunsDisabled
	}

	connStr := viper.GetString("runs-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsSetup opens the configured run store.
func runsSetup(_ *cobra.Command, _ []string) error {
	if err := runsConfig(); err != nil {
		return err
	}
	if err := runstore.InitStores(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	return nil
}

// runsMigrateSetup validates the backend without opening the store, so
// migrations can run against a fresh database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	return runsConfig()
}

// runsCmd focused on run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of conversion runs",
	Long: `Manage the record of past conversions.

When --runs-backend is set, every conversion stores the log path, its date,
the final status and the per-axis summary.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run history statistics
  export  - Export runs to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Check run history
  seisread runs status --runs-backend sqlite

  # Export for analysis in pandas/DuckDB
  seisread runs export --runs-backend sqlite --output-file history`,
}

// runsStatusCmd shows run store status.
var runsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run history statistics and connection details",
	PreRunE: runsSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		status, err := runstore.Manager.GetRunStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		runstore.PrintRunStatus(cmd.OutOrStdout(), status)
	},
}

// runsExportCmd exports runs to a Parquet file.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export every recorded run to <output-file>.runs.parquet.

Requires: --output-file parameter

Examples:
  seisread runs export --runs-backend sqlite --output-file history
  duckdb -c "SELECT status, count(*) FROM read_parquet('history.runs.parquet') GROUP BY 1"`,
	PreRunE: runsSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := runstore.ExportRuns(rootCtx, runstore.Manager.GetRunStore(), cfg.OutputFile, cmd.OutOrStdout()); err != nil {
			contract.LogFatal("Failed to export runs", err)
		}
	},
}

// runsClearCmd clears recorded runs.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete all recorded runs. For SQLite the database file is removed;
for MySQL and PostgreSQL the runs table is dropped.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: runsMigrateSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		dbPath := cfg.RunsDBConnect
		if dbPath == "" {
			dbPath = contract.GetRunsDBFilePath()
		}
		if err := runstore.ClearRuns(cfg.RunsBackend, dbPath, cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear runs", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run history cleared successfully.")
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  seisread runs migrate --runs-backend sqlite

  # Rollback to initial state
  seisread runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
