package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/internal/parquet"
	"github.com/huangsam/seisread/schema"
)

// parquetWriter streams rows into a Parquet file and prints the summary as text.
type parquetWriter struct {
	rows      *parquet.SampleFileWriter
	path      string
	stdout    io.Writer
	comma     bool
	useColors bool
}

func newParquetWriter(cfg *contract.Config, stdout io.Writer) (*parquetWriter, error) {
	if cfg.OutputFile == "" {
		return nil, fmt.Errorf("parquet output requires an output file")
	}
	rows, err := parquet.NewSampleFileWriter(cfg.OutputFile)
	if err != nil {
		return nil, err
	}
	return &parquetWriter{rows: rows, path: cfg.OutputFile, stdout: stdout, comma: cfg.Comma, useColors: cfg.UseColors}, nil
}

func (p *parquetWriter) WriteSample(s schema.Sample) error {
	return p.rows.Write(s)
}

func (p *parquetWriter) WriteSummary(summary schema.SummaryView) error {
	return writeTextSummary(p.stdout, summary, p.comma, p.useColors)
}

func (p *parquetWriter) Close() error {
	if err := p.rows.Close(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "Wrote %d Parquet rows to %s\n", p.rows.Rows(), p.path)
	return nil
}
