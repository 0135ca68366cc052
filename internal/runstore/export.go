package runstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/internal/parquet"
)

// ExportRuns writes every recorded run to outputFile + ".runs.parquet".
func ExportRuns(ctx context.Context, store contract.RunStore, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run store is not initialized")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total runs: %d\n", status.TotalRuns)

	records, err := store.GetAllRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	rows := make([]parquet.RunRow, len(records))
	for i, rec := range records {
		rows[i] = parquet.RunRowOf(rec)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(rows, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d runs to: %s\n", len(rows), runsFile)
	return nil
}
