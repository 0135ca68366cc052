// Package schema has models and constants shared by all parts of seisread.
package schema

import "time"

// RecordSize is the size in bytes of one encoded record.
const RecordSize = 10

// MilliGPerCount converts one raw sensor count to milli-g.
const MilliGPerCount = 0.24375

// FileAnchor is the calendar date a log file's elapsed offsets count from.
// It is derived once from the file name and never changes afterwards.
type FileAnchor struct {
	Name     string    // Date portion of the file name, e.g. "2024-03-01"
	Midnight time.Time // Local midnight of that date
}

// RawRecord is one undecoded record as it sits in the file.
type RawRecord struct {
	ElapsedMillis uint32 // Milliseconds since the anchor's midnight
	XRaw          int16
	YRaw          int16
	ZRaw          int16
}

// Axes holds one value per accelerometer axis.
type Axes struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sample is one calibrated reading anchored to wall-clock time.
//
// Timestamp only carries whole seconds; the sub-second part lives in Millis
// so the two can be rendered separately.
type Sample struct {
	Index     int64     // Zero-based record index within the file
	Elapsed   uint32    // Raw elapsed milliseconds since midnight
	Timestamp time.Time // Anchor plus whole elapsed seconds, in the anchor's location
	Millis    int       // Elapsed milliseconds modulo 1000
	X         float64   // milli-g
	Y         float64   // milli-g
	Z         float64   // milli-g
}

// Instant returns the full millisecond-precision instant of the sample.
func (s Sample) Instant() time.Time {
	return s.Timestamp.Add(time.Duration(s.Millis) * time.Millisecond)
}

// Axes returns the calibrated values of the sample.
func (s Sample) Axes() Axes {
	return Axes{X: s.X, Y: s.Y, Z: s.Z}
}

// ConvertResult describes the outcome of converting one file.
type ConvertResult struct {
	Anchor   FileAnchor
	Stats    Statistics
	Status   RunStatus
	Duration time.Duration
}
