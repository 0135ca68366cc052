package outwriter

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/huangsam/seisread/schema"
)

var csvHeader = []string{"date", "time", "millis", "elapsed_ms", "x_mg", "y_mg", "z_mg"}

// csvWriter emits RFC 4180 rows with the summary appended as net/max rows,
// plus a status row when the stream ended early.
type csvWriter struct {
	dest          *destination
	w             *csv.Writer
	headerWritten bool
}

func newCSVWriter(dest *destination) *csvWriter {
	return &csvWriter{dest: dest, w: csv.NewWriter(dest)}
}

func (c *csvWriter) ensureHeader() error {
	if c.headerWritten {
		return nil
	}
	c.headerWritten = true
	if err := c.w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return nil
}

func (c *csvWriter) WriteSample(s schema.Sample) error {
	if err := c.ensureHeader(); err != nil {
		return err
	}
	return c.w.Write([]string{
		s.Timestamp.Format(dateLayout),
		s.Timestamp.Format(timeLayout),
		strconv.Itoa(s.Millis),
		strconv.FormatUint(uint64(s.Elapsed), 10),
		fmtMilliG(s.X),
		fmtMilliG(s.Y),
		fmtMilliG(s.Z),
	})
}

func (c *csvWriter) WriteSummary(summary schema.SummaryView) error {
	if err := c.ensureHeader(); err != nil {
		return err
	}
	rows := [][]string{
		{"net", "", "", strconv.FormatInt(summary.Samples, 10), fmtMilliG(summary.Net.X), fmtMilliG(summary.Net.Y), fmtMilliG(summary.Net.Z)},
		{"max", "", "", "", fmtMilliG(summary.MaxAbs.X), fmtMilliG(summary.MaxAbs.Y), fmtMilliG(summary.MaxAbs.Z)},
	}
	if isPartial(summary.Status) {
		rows = append(rows, []string{"status", string(summary.Status), "", "", "", "", ""})
	}
	return c.w.WriteAll(rows)
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.dest.close("CSV")
		return err
	}
	return c.dest.close("CSV")
}
