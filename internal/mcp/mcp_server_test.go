package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/seisread/core"
	"github.com/huangsam/seisread/internal/contract"
	mcp_internal "github.com/huangsam/seisread/internal/mcp"
	"github.com/huangsam/seisread/internal/runstore"
	"github.com/huangsam/seisread/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, name string, extra []byte, recs ...schema.RawRecord) string {
	t.Helper()
	var data []byte
	for _, r := range recs {
		data = append(data, core.EncodeRecord(r)...)
	}
	data = append(data, extra...)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func call(t *testing.T, mgr contract.StoreManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(&contract.Config{Location: time.UTC}, mgr, "test")
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestSummarizeLog(t *testing.T) {
	path := writeLog(t, "2024-03-01.dat", nil, schema.RawRecord{ElapsedMillis: 1500, XRaw: 40, YRaw: -40})
	res := call(t, nil, "summarize_log", map[string]any{"path": path})
	require.False(t, res.IsError, text(res))

	var summary schema.SummaryView
	require.NoError(t, json.Unmarshal([]byte(text(res)), &summary))
	assert.Equal(t, int64(1), summary.Samples)
	assert.Equal(t, schema.Axes{X: 9.75, Y: -9.75}, summary.Net)
	assert.Equal(t, schema.CompletedStatus, summary.Status)
}

func TestSummarizeLog_Errors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		res := call(t, nil, "summarize_log", map[string]any{})
		assert.True(t, res.IsError)
	})

	t.Run("malformed name", func(t *testing.T) {
		res := call(t, nil, "summarize_log", map[string]any{"path": "notadate.dat"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "malformed file name")
	})

	t.Run("truncated", func(t *testing.T) {
		path := writeLog(t, "2024-03-01.dat", []byte{1, 2}, schema.RawRecord{XRaw: 40})
		res := call(t, nil, "summarize_log", map[string]any{"path": path})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "truncated record")
		assert.Contains(t, text(res), `"samples": 1`)
	})

	t.Run("bad timezone", func(t *testing.T) {
		res := call(t, nil, "summarize_log", map[string]any{"path": "2024-03-01.dat", "timezone": "Nowhere/Special"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "invalid timezone")
	})

	t.Run("missing file", func(t *testing.T) {
		res := call(t, nil, "summarize_log", map[string]any{"path": filepath.Join(t.TempDir(), "2024-03-01.dat")})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "decode failed")
	})
}

func TestDecodeLog(t *testing.T) {
	path := writeLog(t, "2024-03-01.dat", nil,
		schema.RawRecord{ElapsedMillis: 1500, XRaw: 40},
		schema.RawRecord{ElapsedMillis: 2500, XRaw: 80},
		schema.RawRecord{ElapsedMillis: 3500, XRaw: 120},
	)
	res := call(t, nil, "decode_log", map[string]any{"path": path, "limit": 2.0})
	require.False(t, res.IsError, text(res))

	var out struct {
		Samples []schema.SampleView `json:"samples"`
		Summary schema.SummaryView  `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &out))
	require.Len(t, out.Samples, 2)
	assert.Equal(t, "2024-03-01T00:00:01.500", out.Samples[0].Timestamp)
	assert.Equal(t, int64(3), out.Summary.Samples)

	res = call(t, nil, "decode_log", map[string]any{"path": path, "limit": -1.0})
	assert.True(t, res.IsError)
}

func TestListRuns(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		res := call(t, nil, "list_runs", map[string]any{})
		assert.True(t, res.IsError)
	})

	t.Run("none backend", func(t *testing.T) {
		store, err := runstore.NewRunStore(schema.NoneBackend, "")
		require.NoError(t, err)
		mgr := &contract.MockStoreManager{}
		mgr.On("GetRunStore").Return(store)

		res := call(t, mgr, "list_runs", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "not configured")
	})

	t.Run("sqlite backend", func(t *testing.T) {
		store, err := runstore.NewRunStore(schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		mgr := &contract.MockStoreManager{}
		mgr.On("GetRunStore").Return(store)

		res := call(t, mgr, "list_runs", map[string]any{})
		require.False(t, res.IsError, text(res))
		assert.JSONEq(t, "[]", text(res))
	})

	t.Run("with store", func(t *testing.T) {
		store := &contract.MockRunStore{}
		store.On("GetAllRuns", mock.Anything).Return([]schema.RunRecord{
			{RunID: 1, Status: "completed"},
			{RunID: 2, Status: "truncated"},
		}, nil)
		mgr := &contract.MockStoreManager{}
		mgr.On("GetRunStore").Return(store)

		res := call(t, mgr, "list_runs", map[string]any{"limit": 1.0})
		require.False(t, res.IsError, text(res))
		var runs []schema.RunRecord
		require.NoError(t, json.Unmarshal([]byte(text(res)), &runs))
		require.Len(t, runs, 1)
		assert.Equal(t, int64(2), runs[0].RunID)
		store.AssertExpectations(t)
	})
}
