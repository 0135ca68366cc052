// Package parquet provides data structures and functions for exporting decoded
// samples and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/seisread/schema"
	"github.com/parquet-go/parquet-go"
)

// SampleRow is one decoded sample in columnar form.
type SampleRow struct {
	// Index is the zero-based record index within the source file
	Index int64 `parquet:"index,snappy"`

	// Timestamp is the full millisecond instant of the sample
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Millis is the sub-second remainder of the elapsed offset
	Millis int32 `parquet:"millis,snappy"`

	// ElapsedMs is the raw elapsed offset since the anchor midnight
	ElapsedMs int64 `parquet:"elapsed_ms,snappy"`

	XMilliG float64 `parquet:"x_mg,snappy"`
	YMilliG float64 `parquet:"y_mg,snappy"`
	ZMilliG float64 `parquet:"z_mg,snappy"`
}

// RunRow represents a single conversion run with its statistics.
// This struct maps to the seisread_runs database table.
type RunRow struct {
	RunID      int64  `parquet:"run_id,snappy"`
	RunUUID    string `parquet:"run_uuid,snappy"`
	FilePath   string `parquet:"file_path,snappy"`
	AnchorDate string `parquet:"anchor_date,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run finished (nullable while running)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the wall-clock duration of the run (nullable while running)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	Status      string  `parquet:"status,snappy"`
	SampleCount int64   `parquet:"sample_count,snappy"`
	SumX        float64 `parquet:"sum_x,snappy"`
	SumY        float64 `parquet:"sum_y,snappy"`
	SumZ        float64 `parquet:"sum_z,snappy"`
	MaxX        float64 `parquet:"max_x,snappy"`
	MaxY        float64 `parquet:"max_y,snappy"`
	MaxZ        float64 `parquet:"max_z,snappy"`

	// ErrorMessage holds the terminal failure, if any (nullable)
	ErrorMessage *string `parquet:"error_message,optional,snappy"`
}

// SampleRowOf converts a decoded sample into its columnar form.
func SampleRowOf(s schema.Sample) SampleRow {
	return SampleRow{
		Index:     s.Index,
		Timestamp: s.Instant(),
		Millis:    int32(s.Millis),
		ElapsedMs: int64(s.Elapsed),
		XMilliG:   s.X,
		YMilliG:   s.Y,
		ZMilliG:   s.Z,
	}
}

// RunRowOf converts a stored run into its columnar form.
func RunRowOf(r schema.RunRecord) RunRow {
	return RunRow{
		RunID:         r.RunID,
		RunUUID:       r.RunUUID,
		FilePath:      r.FilePath,
		AnchorDate:    r.AnchorDate,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		RunDurationMs: r.RunDurationMs,
		Status:        r.Status,
		SampleCount:   r.SampleCount,
		SumX:          r.SumX,
		SumY:          r.SumY,
		SumZ:          r.SumZ,
		MaxX:          r.MaxX,
		MaxY:          r.MaxY,
		MaxZ:          r.MaxZ,
		ErrorMessage:  r.ErrorMessage,
	}
}

// SampleFileWriter streams samples into a Parquet file one row at a time,
// so memory stays bounded by the writer's page buffers and not the log size.
type SampleFileWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[SampleRow]
	rows   int64
}

// NewSampleFileWriter creates outputPath and prepares it for sample rows.
func NewSampleFileWriter(outputPath string) (*SampleFileWriter, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &SampleFileWriter{
		file:   file,
		writer: parquet.NewGenericWriter[SampleRow](file),
	}, nil
}

// Write appends one sample.
func (w *SampleFileWriter) Write(s schema.Sample) error {
	if _, err := w.writer.Write([]SampleRow{SampleRowOf(s)}); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	w.rows++
	return nil
}

// Rows returns the number of rows written so far.
func (w *SampleFileWriter) Rows() int64 {
	return w.rows
}

// Close flushes the footer and closes the file.
func (w *SampleFileWriter) Close() error {
	werr := w.writer.Close()
	ferr := w.file.Close()
	if werr != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", werr)
	}
	return ferr
}

// WriteRunsParquet writes a slice of RunRow structs to a Parquet file.
func WriteRunsParquet(data []RunRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the RunRow struct tags
	writer := parquet.NewGenericWriter[RunRow](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}
