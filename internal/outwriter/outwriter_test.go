package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMidnight = time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)

func testSamples() []schema.Sample {
	return []schema.Sample{
		{Index: 0, Elapsed: 1500, Timestamp: testMidnight.Add(time.Second), Millis: 500, X: 1.5, Y: -12.25, Z: 100},
		{Index: 1, Elapsed: 3723042, Timestamp: testMidnight.Add(3723 * time.Second), Millis: 42, X: 0, Y: 0.5, Z: -0.75},
	}
}

func testSummary() schema.SummaryView {
	var stats schema.Statistics
	for _, s := range testSamples() {
		stats = stats.Add(s.Axes())
	}
	return schema.ViewSummary(stats)
}

func TestFormatTextLine(t *testing.T) {
	s := testSamples()[0]
	tests := []struct {
		name     string
		comma    bool
		fraction bool
		expected string
	}{
		{"space", false, false, "2023-04-05 00:00:01.500    1.50  -12.25  100.00"},
		{"space fraction", false, true, "2023-04-05 00:00:01 0.500    1.50  -12.25  100.00"},
		{"comma", true, false, "2023-04-05,00:00:01.500,1.50,-12.25,100.00"},
		{"comma fraction", true, true, "2023-04-05,00:00:01,0.500,1.50,-12.25,100.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTextLine(s, tt.comma, tt.fraction))
		})
	}
}

func TestFormatTextLine_ZeroPadsMillis(t *testing.T) {
	s := testSamples()[1]
	assert.Equal(t, "2023-04-05 01:02:03.042    0.00    0.50   -0.75", FormatTextLine(s, false, false))
	assert.Equal(t, "2023-04-05,01:02:03,0.042,0.00,0.50,-0.75", FormatTextLine(s, true, true))
}

func writeAll(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewSampleWriter(cfg, &buf)
	require.NoError(t, err)
	for _, s := range testSamples() {
		require.NoError(t, w.WriteSample(s))
	}
	require.NoError(t, w.WriteSummary(testSummary()))
	require.NoError(t, w.Close())
	return buf.String()
}

func TestTextWriter(t *testing.T) {
	out := writeAll(t, &contract.Config{Output: schema.TextOut})
	lines := strings.Split(out, "\n")
	assert.Equal(t, "2023-04-05 00:00:01.500    1.50  -12.25  100.00", lines[0])
	assert.Equal(t, "2023-04-05 01:02:03.042    0.00    0.50   -0.75", lines[1])
	assert.Contains(t, lines, "│ Axis │ Net (mg) │ Max |a| (mg) │")
	assert.NotContains(t, out, "MG")
	assert.Contains(t, out, "-11.75")
	assert.Contains(t, out, "Samples: 2")
	assert.NotContains(t, out, "Status:")
}

func TestTextWriter_CommaSummary(t *testing.T) {
	out := writeAll(t, &contract.Config{Output: schema.TextOut, Comma: true})
	assert.True(t, strings.HasSuffix(out, "net,1.50,-11.75,99.25\nmax,1.50,12.25,100.00\n"), out)
}

func TestTextWriter_PartialStatus(t *testing.T) {
	var buf bytes.Buffer
	summary := testSummary()
	summary.Status = schema.TruncatedStatus
	require.NoError(t, writeTextSummary(&buf, summary, false, false))
	assert.Contains(t, buf.String(), "Status: truncated")
}

func TestTextWriter_CommaStatusRow(t *testing.T) {
	tests := []struct {
		name     string
		status   schema.RunStatus
		expected string
	}{
		{"unset", "", "net,1.50,-11.75,99.25\nmax,1.50,12.25,100.00\n"},
		{"completed", schema.CompletedStatus, "net,1.50,-11.75,99.25\nmax,1.50,12.25,100.00\n"},
		{"truncated", schema.TruncatedStatus, "net,1.50,-11.75,99.25\nmax,1.50,12.25,100.00\nstatus,truncated\n"},
		{"failed", schema.FailedStatus, "net,1.50,-11.75,99.25\nmax,1.50,12.25,100.00\nstatus,failed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			summary := testSummary()
			summary.Status = tt.status
			require.NoError(t, writeTextSummary(&buf, summary, true, false))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestCSVWriter(t *testing.T) {
	out := writeAll(t, &contract.Config{Output: schema.CSVOut})
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"2023-04-05", "00:00:01", "500", "1500", "1.50", "-12.25", "100.00"}, records[1])
	assert.Equal(t, []string{"net", "", "", "2", "1.50", "-11.75", "99.25"}, records[3])
	assert.Equal(t, "max", records[4][0])
}

func TestCSVWriter_SummaryOnly(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewSampleWriter(&contract.Config{Output: schema.CSVOut}, &buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteSummary(schema.SummaryView{}))
	require.NoError(t, w.Close())
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestCSVWriter_TruncatedStatusRow(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewSampleWriter(&contract.Config{Output: schema.CSVOut}, &buf)
	require.NoError(t, err)
	summary := testSummary()
	summary.Status = schema.TruncatedStatus
	require.NoError(t, w.WriteSummary(summary))
	require.NoError(t, w.Close())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "max", records[2][0])
	assert.Equal(t, []string{"status", "truncated", "", "", "", "", ""}, records[3])
}

func TestJSONWriter(t *testing.T) {
	out := writeAll(t, &contract.Config{Output: schema.JSONOut})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	var first schema.SampleView
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "2023-04-05T00:00:01.500", first.Timestamp)
	assert.Equal(t, uint32(1500), first.ElapsedMs)
	assert.Equal(t, -12.25, first.Y)

	var last struct {
		Summary schema.SummaryView `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, int64(2), last.Summary.Samples)
	assert.Equal(t, 12.25, last.Summary.MaxAbs.Y)
}

func TestWriterToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	out := writeAll(t, &contract.Config{Output: schema.TextOut, OutputFile: path})
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Samples: 2")
}

func TestParquetWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	out := writeAll(t, &contract.Config{Output: schema.ParquetOut, OutputFile: path})
	assert.Contains(t, out, "Samples: 2")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestParquetWriter_RequiresFile(t *testing.T) {
	_, err := NewSampleWriter(&contract.Config{Output: schema.ParquetOut}, &bytes.Buffer{})
	assert.Error(t, err)
}
