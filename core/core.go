// Package core has core logic for resolving anchors, decoding records and
// running conversions.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/internal/log"
	"github.com/huangsam/seisread/internal/outwriter"
	"github.com/huangsam/seisread/schema"
)

// ExecuteConvert converts cfg.InputPath and prints results to stdout.
// It serves as the main entry point for the root command.
func ExecuteConvert(ctx context.Context, cfg *contract.Config, store contract.RunStore) (schema.ConvertResult, error) {
	return Convert(ctx, cfg, store, os.Stdout)
}

// Convert decodes one log file and renders it through the writer selected by
// cfg. The summary is written even when the stream fails, so partial
// statistics survive a truncated file. store may be nil.
func Convert(ctx context.Context, cfg *contract.Config, store contract.RunStore, stdout io.Writer) (schema.ConvertResult, error) {
	start := time.Now()
	result := schema.ConvertResult{Status: schema.FailedStatus}

	anchor, err := ResolveAnchor(cfg.InputPath, cfg.Location)
	if err != nil {
		return result, err
	}
	result.Anchor = anchor

	file, err := os.Open(cfg.InputPath)
	if err != nil {
		return result, fmt.Errorf("failed to open %s: %w", cfg.InputPath, err)
	}
	defer func() { _ = file.Close() }()

	runUUID := uuid.NewString()
	ctx = withRunUUID(ctx, runUUID)
	runID := beginRun(ctx, store, schema.RunStart{
		UUID:      runUUID,
		FilePath:  cfg.InputPath,
		Anchor:    anchor,
		StartTime: start,
	})

	writer, err := outwriter.NewSampleWriter(cfg, stdout)
	if err != nil {
		endRun(ctx, store, runID, schema.FailedStatus, schema.Statistics{}, err)
		return result, err
	}

	dec := NewDecoder(file, anchor)
	streamErr := pump(ctx, dec, writer, cfg.StatsOnly)
	if streamErr != nil && !errors.Is(streamErr, ErrTruncatedRecord) && dec.State() == Failed {
		streamErr = fmt.Errorf("failed to read %s: %w", cfg.InputPath, streamErr)
	}
	status := statusOf(streamErr)

	summary := schema.ViewSummary(dec.Stats())
	summary.File = cfg.InputPath
	summary.Anchor = dec.Anchor().Name
	summary.Status = status
	if streamErr != nil {
		summary.Error = streamErr.Error()
	}
	summaryErr := writer.WriteSummary(summary)
	closeErr := writer.Close()

	finalErr := streamErr
	if finalErr == nil {
		finalErr = errors.Join(summaryErr, closeErr)
		if finalErr != nil {
			status = schema.FailedStatus
		}
	}
	endRun(ctx, store, runID, status, dec.Stats(), finalErr)

	result.Stats = dec.Stats()
	result.Status = status
	result.Duration = time.Since(start)
	if status == schema.FailedStatus {
		log.Errorw("conversion failed",
			"run_uuid", runUUID,
			"file", cfg.InputPath,
			"samples", result.Stats.Count,
			"error", finalErr,
		)
	}
	log.Debugw("conversion finished",
		"run_uuid", runUUID,
		"file", cfg.InputPath,
		"status", status,
		"samples", result.Stats.Count,
		"duration", result.Duration,
	)
	return result, finalErr
}

// pump moves samples from the decoder to the writer until the stream ends.
// A clean end returns nil.
func pump(ctx context.Context, dec *Decoder, w contract.SampleWriter, statsOnly bool) error {
	for sample, err := range dec.All() {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if statsOnly {
			continue
		}
		if err := w.WriteSample(sample); err != nil {
			return fmt.Errorf("failed to write sample %d: %w", sample.Index, err)
		}
	}
	return nil
}

func statusOf(err error) schema.RunStatus {
	switch {
	case err == nil:
		return schema.CompletedStatus
	case errors.Is(err, ErrTruncatedRecord):
		return schema.TruncatedStatus
	default:
		return schema.FailedStatus
	}
}

// beginRun records the run start; failures only disable tracking for this run.
func beginRun(ctx context.Context, store contract.RunStore, start schema.RunStart) int64 {
	if store == nil {
		return 0
	}
	runID, err := store.BeginRun(ctx, start)
	if err != nil {
		contract.LogWarn("Cannot record run start", err)
		log.Warnw("run store begin failed", "run_uuid", runUUIDFrom(ctx), "error", err)
		return 0
	}
	return runID
}

func endRun(ctx context.Context, store contract.RunStore, runID int64, status schema.RunStatus, stats schema.Statistics, runErr error) {
	if store == nil || runID == 0 {
		return
	}
	end := schema.RunEnd{EndTime: time.Now(), Status: status, Stats: stats}
	if runErr != nil {
		end.ErrorMessage = runErr.Error()
	}
	if err := store.EndRun(ctx, runID, end); err != nil {
		contract.LogWarn("Cannot record run end", err)
		log.Warnw("run store end failed", "run_uuid", runUUIDFrom(ctx), "run_id", runID, "error", err)
	}
}

// SummarizeFile decodes path without rendering and reports its statistics.
// A truncated file still yields the partial summary alongside the error.
func SummarizeFile(ctx context.Context, path string, loc *time.Location) (schema.SummaryView, error) {
	summary, err := scanFile(ctx, path, loc, func(schema.Sample) {})
	return summary, err
}

// DecodeFile returns the first limit samples of path together with the
// statistics of the whole file. A limit of zero or less returns no samples.
func DecodeFile(ctx context.Context, path string, loc *time.Location, limit int) ([]schema.Sample, schema.SummaryView, error) {
	var samples []schema.Sample
	summary, err := scanFile(ctx, path, loc, func(s schema.Sample) {
		if len(samples) < limit {
			samples = append(samples, s)
		}
	})
	return samples, summary, err
}

func scanFile(ctx context.Context, path string, loc *time.Location, visit func(schema.Sample)) (schema.SummaryView, error) {
	anchor, err := ResolveAnchor(path, loc)
	if err != nil {
		return schema.SummaryView{File: path, Status: schema.FailedStatus, Error: err.Error()}, err
	}
	file, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("failed to open %s: %w", path, err)
		return schema.SummaryView{File: path, Anchor: anchor.Name, Status: schema.FailedStatus, Error: err.Error()}, err
	}
	defer func() { _ = file.Close() }()

	dec := NewDecoder(file, anchor)
	var streamErr error
	for sample, err := range dec.All() {
		if err != nil {
			streamErr = err
			break
		}
		if streamErr = ctx.Err(); streamErr != nil {
			break
		}
		visit(sample)
	}

	summary := schema.ViewSummary(dec.Stats())
	summary.File = path
	summary.Anchor = dec.Anchor().Name
	summary.Status = statusOf(streamErr)
	if streamErr != nil {
		summary.Error = streamErr.Error()
	}
	return summary, streamErr
}
