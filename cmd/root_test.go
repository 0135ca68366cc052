package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/huangsam/seisread/core"
	"github.com/huangsam/seisread/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"malformed name", &core.MalformedFileNameError{Path: "x.bin", Name: "x"}, ExitMalformed},
		{"truncated record", &core.TruncatedRecordError{Offset: 20, Got: 3}, ExitTruncated},
		{"wrapped truncated", fmt.Errorf("convert: %w", &core.TruncatedRecordError{Offset: 0, Got: 1}), ExitTruncated},
		{"missing file", errors.New("open 2024-03-01.bin: no such file or directory"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			condition, code := ExitStatus(tt.err)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, condition)
		})
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"comma", "fraction", "stats-only"} {
		flag := rootCmd.Flags().Lookup(name)
		if assert.NotNil(t, flag, name) {
			assert.Equal(t, name[:1], flag.Shorthand)
			assert.Equal(t, "false", flag.DefValue)
		}
	}
	assert.Equal(t, "Local", rootCmd.Flags().Lookup("timezone").DefValue)
	assert.Equal(t, "none", rootCmd.PersistentFlags().Lookup("runs-backend").DefValue)
	assert.Equal(t, "-1", runsMigrateCmd.Flags().Lookup("target-version").DefValue)
}

func TestSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"version", "runs", "mcp"})

	runs := make([]string, 0, len(runsCmd.Commands()))
	for _, c := range runsCmd.Commands() {
		runs = append(runs, c.Name())
	}
	assert.ElementsMatch(t, []string{"status", "export", "clear", "migrate"}, runs)
}

func TestRunsConfig_BackendFromEnv(t *testing.T) {
	saved := *cfg
	t.Cleanup(func() { *cfg = saved })
	initConfig()

	tests := []struct {
		env      string
		expected schema.DatabaseBackend
		err      error
	}{
		{"SQLite", schema.SQLiteBackend, nil},
		{"sqlite", schema.SQLiteBackend, nil},
		{"NONE", "", errRunsDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("SEISREAD_RUNS_BACKEND", tt.env)
			err := runsConfig()
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.RunsBackend)
		})
	}

	t.Setenv("SEISREAD_RUNS_BACKEND", "redis")
	assert.Error(t, runsConfig())
}
