// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/seisread/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultDecodeLimit caps how many samples decode_log returns when no limit is given.
const DefaultDecodeLimit = 100

// NewMCPServer initializes and configures the seisread MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Seisread Log Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("summarize_log",
		mcp.WithDescription("Decode a seismic accelerometer log and report net and max-absolute milli-g per axis."),
		mcp.WithString("path", mcp.Description("Path to the log; its base name must be a YYYY-MM-DD date."), mcp.Required()),
		mcp.WithString("timezone", mcp.Description("IANA timezone for the file-name date. Defaults to the server setting.")),
	), h.handleSummarizeLog)

	s.AddTool(mcp.NewTool("decode_log",
		mcp.WithDescription("Decode the first samples of a seismic accelerometer log together with statistics of the whole file."),
		mcp.WithString("path", mcp.Description("Path to the log; its base name must be a YYYY-MM-DD date."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of samples to return. Defaults to 100.")),
		mcp.WithString("timezone", mcp.Description("IANA timezone for the file-name date.")),
	), h.handleDecodeLog)

	s.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List conversion runs recorded by the run history store."),
		mcp.WithNumber("limit", mcp.Description("Only return the most recent runs.")),
	), h.handleListRuns)

	return s
}

// StartMCPServer starts the seisread MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
