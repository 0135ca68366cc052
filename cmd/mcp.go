package cmd

import (
	"fmt"

	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/internal/log"
	"github.com/huangsam/seisread/internal/mcp"
	"github.com/huangsam/seisread/internal/runstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpSetup prepares a base configuration for MCP tool calls. The input file
// arrives with each tool call, so ProcessAndValidate is not used here.
func mcpSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// Any placeholder path passes validation; handlers replace it per call.
	input.InputPathStr = "-"
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// stdio carries the protocol, so logs stay at warn level on stderr
	if err := log.Init(false); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := runstore.InitStores(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		contract.LogWarn("Run history disabled", err)
	}
	return nil
}

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the seisread MCP server",
	Long: `Launch an MCP server over stdio so AI agents can summarize and decode
accelerometer logs through standard tools.

Tools:
  summarize_log - per-axis net and peak readings for one log
  decode_log    - the first readings of one log plus its summary
  list_runs     - recent conversions from the run history store`,
	PreRunE: mcpSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, runstore.Manager, version)
	},
}
