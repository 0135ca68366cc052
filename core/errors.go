package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure conditions a caller may need to tell apart.
var (
	// ErrMalformedFileName means the file name does not encode a YYYY-MM-DD date.
	ErrMalformedFileName = errors.New("malformed file name")

	// ErrTruncatedRecord means the stream ended partway through a record.
	ErrTruncatedRecord = errors.New("truncated record")
)

// MalformedFileNameError reports a file name that cannot anchor a log.
type MalformedFileNameError struct {
	Path string // Path as given by the caller
	Name string // Date portion that failed to parse
	Err  error  // Underlying parse failure, if any
}

func (e *MalformedFileNameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q is not a YYYY-MM-DD date: %v", ErrMalformedFileName, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %q is not a YYYY-MM-DD date", ErrMalformedFileName, e.Name)
}

// Is reports whether target is ErrMalformedFileName.
func (e *MalformedFileNameError) Is(target error) bool {
	return target == ErrMalformedFileName
}

func (e *MalformedFileNameError) Unwrap() error {
	return e.Err
}

// TruncatedRecordError reports a trailing partial record.
type TruncatedRecordError struct {
	Offset int64 // Byte offset where the partial record starts
	Got    int   // Number of bytes available, between 1 and RecordSize-1
}

func (e *TruncatedRecordError) Error() string {
	return fmt.Sprintf("%s at byte %d: got %d of 10 bytes", ErrTruncatedRecord, e.Offset, e.Got)
}

// Is reports whether target is ErrTruncatedRecord.
func (e *TruncatedRecordError) Is(target error) bool {
	return target == ErrTruncatedRecord
}
