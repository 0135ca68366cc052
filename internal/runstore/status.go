package runstore

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/seisread/schema"
)

// PrintRunStatus prints run store status information.
func PrintRunStatus(w io.Writer, status schema.RunStoreStatus) {
	_, _ = fmt.Fprintf(w, "Runs Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
	_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "Total Samples: %d\n", status.TotalSamples)
	_, _ = fmt.Fprintln(w, "Runs by Status:")
	for _, name := range slices.Sorted(maps.Keys(status.StatusCounts)) {
		_, _ = fmt.Fprintf(w, "  %s: %d\n", name, status.StatusCounts[name])
	}
}
