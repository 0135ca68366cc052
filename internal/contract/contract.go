// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/seisread/schema"
)

// SampleWriter renders decoded samples and the closing summary in one output format.
type SampleWriter interface {
	// WriteSample renders a single sample row.
	WriteSample(s schema.Sample) error

	// WriteSummary renders the statistics block; it is called exactly once,
	// after the last sample, even when the stream failed.
	WriteSummary(summary schema.SummaryView) error

	// Close flushes buffered output and releases the destination.
	Close() error
}

// StoreManager defines the interface for managing run history stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking conversion runs.
type RunStore interface {
	// BeginRun records a new run and returns its unique ID.
	BeginRun(ctx context.Context, start schema.RunStart) (int64, error)

	// EndRun updates the run with its outcome and statistics.
	EndRun(ctx context.Context, runID int64, end schema.RunEnd) error

	// GetStatus returns status information about the run store.
	GetStatus(ctx context.Context) (schema.RunStoreStatus, error)

	// GetAllRuns returns every recorded run ordered by ID.
	GetAllRuns(ctx context.Context) ([]schema.RunRecord, error)

	// Close closes the underlying connection.
	Close() error
}
