package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/seisread/core"
	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// decodeResult is the payload of decode_log.
type decodeResult struct {
	Samples []schema.SampleView `json:"samples"`
	Summary schema.SummaryView  `json:"summary"`
}

// location picks the request's timezone or falls back to the server config.
func (h *toolHandler) location(request mcp.CallToolRequest) (*time.Location, error) {
	if tz := request.GetString("timezone", ""); tz != "" {
		return time.LoadLocation(tz)
	}
	if h.baseCfg != nil && h.baseCfg.Location != nil {
		return h.baseCfg.Location, nil
	}
	return time.Local, nil
}

func (h *toolHandler) handleSummarizeLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	loc, err := h.location(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid timezone: %v", err)), nil
	}

	summary, err := core.SummarizeFile(ctx, path, loc)
	return resultOf(summary, err)
}

func (h *toolHandler) handleDecodeLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	limit := request.GetInt("limit", DefaultDecodeLimit)
	if limit < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("limit must not be negative (received %d)", limit)), nil
	}
	loc, err := h.location(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid timezone: %v", err)), nil
	}

	samples, summary, err := core.DecodeFile(ctx, path, loc, limit)
	views := schema.ViewSamples(samples)
	return resultOf(decodeResult{Samples: views, Summary: summary}, err)
}

// enabler is implemented by stores that configuration can switch off.
type enabler interface {
	Enabled() bool
}

func (h *toolHandler) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.RunStore
	if h.mgr != nil {
		store = h.mgr.GetRunStore()
	}
	if e, ok := store.(enabler); ok && !e.Enabled() {
		store = nil
	}
	if store == nil {
		return mcp.NewToolResultError("run history store is not configured"), nil
	}

	runs, err := store.GetAllRuns(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}
	if limit := request.GetInt("limit", 0); limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	if runs == nil {
		runs = []schema.RunRecord{}
	}
	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// resultOf renders payload as JSON. Failures become tool errors that name the
// condition and still carry whatever was decoded before it.
func resultOf(payload any, err error) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	switch {
	case err == nil:
		return mcp.NewToolResultText(string(jsonData)), nil
	case errors.Is(err, core.ErrMalformedFileName):
		return mcp.NewToolResultError(fmt.Sprintf("malformed file name: %v", err)), nil
	case errors.Is(err, core.ErrTruncatedRecord):
		return mcp.NewToolResultError(fmt.Sprintf("truncated record: %v\npartial result:\n%s", err, jsonData)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("decode failed: %v", err)), nil
	}
}
