// Package outwriter renders decoded samples and their summary in the
// supported output formats.
package outwriter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/schema"
	"golang.org/x/term"
)

// ConfigureColors enables colored labels only when requested and stdout is a terminal.
func ConfigureColors(useColors bool) {
	color.NoColor = !useColors || !term.IsTerminal(int(os.Stdout.Fd()))
}

// NewSampleWriter returns the writer selected by cfg.Output. Rows go to
// cfg.OutputFile when set and to stdout otherwise. Parquet always writes rows
// to cfg.OutputFile and prints its summary to stdout.
func NewSampleWriter(cfg *contract.Config, stdout io.Writer) (contract.SampleWriter, error) {
	if cfg.Output == schema.ParquetOut {
		return newParquetWriter(cfg, stdout)
	}

	dest, err := openDestination(cfg.OutputFile, stdout)
	if err != nil {
		return nil, err
	}
	switch cfg.Output {
	case schema.CSVOut:
		return newCSVWriter(dest), nil
	case schema.JSONOut:
		return newJSONWriter(dest), nil
	default:
		return newTextWriter(dest, cfg), nil
	}
}

// destination is a buffered sink that knows whether it owns the file below it.
type destination struct {
	*bufio.Writer
	file *os.File // nil when writing to the caller's stdout
	path string
}

func openDestination(outputFile string, stdout io.Writer) (*destination, error) {
	if outputFile == "" {
		return &destination{Writer: bufio.NewWriter(stdout)}, nil
	}
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return &destination{Writer: bufio.NewWriter(file), file: file, path: outputFile}, nil
}

// close flushes and, for owned files, closes and reports where output went.
func (d *destination) close(kind string) error {
	err := d.Flush()
	if d.file == nil {
		return err
	}
	if cerr := d.file.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		_, _ = fmt.Fprintf(os.Stderr, "Wrote %s to %s\n", kind, d.path)
	}
	return err
}
