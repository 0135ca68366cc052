package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/seisread/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestSampleRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(SampleRow))
	for _, colName := range []string{"index", "timestamp", "millis", "elapsed_ms", "x_mg", "y_mg", "z_mg"} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestRunRowStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(RunRow))
	expectedColumns := []string{
		"run_id", "run_uuid", "file_path", "anchor_date", "start_time", "end_time",
		"run_duration_ms", "status", "sample_count", "sum_x", "sum_y", "sum_z",
		"max_x", "max_y", "max_z", "error_message",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestSampleFileWriter(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "samples.parquet")
	midnight := time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)

	w, err := NewSampleFileWriter(outputPath)
	require.NoError(t, err)
	samples := []schema.Sample{
		{Index: 0, Elapsed: 1500, Timestamp: midnight.Add(time.Second), Millis: 500, X: 0.24375, Y: -0.4875, Z: 0},
		{Index: 1, Elapsed: 2000, Timestamp: midnight.Add(2 * time.Second), Millis: 0, X: 1, Y: 2, Z: 3},
	}
	for _, s := range samples {
		require.NoError(t, w.Write(s))
	}
	assert.Equal(t, int64(2), w.Rows())
	require.NoError(t, w.Close())

	rows := readRows[SampleRow](t, outputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1500), rows[0].ElapsedMs)
	assert.Equal(t, int32(500), rows[0].Millis)
	assert.InDelta(t, -0.4875, rows[0].YMilliG, 1e-9)
	assert.True(t, midnight.Add(1500*time.Millisecond).Equal(rows[0].Timestamp))
	assert.Equal(t, int64(1), rows[1].Index)
}

func TestNewSampleFileWriter_InvalidPath(t *testing.T) {
	_, err := NewSampleFileWriter(filepath.Join(t.TempDir(), "missing", "samples.parquet"))
	assert.Error(t, err)
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "x.runs.parquet")
	start := time.Now().Add(-time.Minute).UTC()
	end := start.Add(1200 * time.Millisecond)
	duration := int64(1200)
	msg := "truncated record at byte 20: got 3 of 10 bytes"

	data := []RunRow{
		RunRowOf(schema.RunRecord{
			RunID: 1, RunUUID: "a", FilePath: "2023-04-05.bin", AnchorDate: "2023-04-05",
			StartTime: start, EndTime: &end, RunDurationMs: &duration,
			Status: string(schema.TruncatedStatus), SampleCount: 2, SumX: 1.5, MaxZ: 3,
			ErrorMessage: &msg,
		}),
		RunRowOf(schema.RunRecord{RunID: 2, RunUUID: "b", StartTime: start, Status: string(schema.RunningStatus)}),
	}
	require.NoError(t, WriteRunsParquet(data, outputPath))

	rows := readRows[RunRow](t, outputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "truncated", rows[0].Status)
	require.NotNil(t, rows[0].ErrorMessage)
	assert.Equal(t, msg, *rows[0].ErrorMessage)
	require.NotNil(t, rows[0].RunDurationMs)
	assert.Equal(t, duration, *rows[0].RunDurationMs)
	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].ErrorMessage)
}

func TestWriteRunsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.runs.parquet")
	require.NoError(t, WriteRunsParquet([]RunRow{}, outputPath))
	assert.Empty(t, readRows[RunRow](t, outputPath))
}

func TestWriteRunsParquet_InvalidPath(t *testing.T) {
	err := WriteRunsParquet(nil, "/nonexistent/dir/runs.parquet")
	assert.Error(t, err)
}
