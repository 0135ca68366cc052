package core

import (
	"encoding/binary"
	"errors"
	"io"
	"iter"
	"time"

	"github.com/huangsam/seisread/schema"
)

// State is the position of a Decoder in its lifecycle.
type State int

// Decoder states. Exhausted and Failed are terminal.
const (
	Reading State = iota
	Exhausted
	Failed
)

func (s State) String() string {
	switch s {
	case Reading:
		return "reading"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Decoder turns a stream of fixed-size records into calibrated samples and
// keeps running statistics over everything it has produced.
//
// A Decoder reads strictly forward, one record at a time, and is not safe
// for concurrent use.
type Decoder struct {
	r      io.Reader
	anchor schema.FileAnchor
	buf    [schema.RecordSize]byte
	offset int64
	index  int64
	stats  schema.Statistics
	state  State
	err    error
}

// NewDecoder returns a decoder reading records from r relative to anchor.
func NewDecoder(r io.Reader, anchor schema.FileAnchor) *Decoder {
	return &Decoder{r: r, anchor: anchor}
}

// Next decodes the next record.
//
// It returns io.EOF when the stream ends on a record boundary, a
// *TruncatedRecordError when it ends inside a record, and any other read
// error unchanged. Once Next has returned an error it keeps returning it.
func (d *Decoder) Next() (schema.Sample, error) {
	switch d.state {
	case Exhausted:
		return schema.Sample{}, io.EOF
	case Failed:
		return schema.Sample{}, d.err
	}

	n, err := io.ReadFull(d.r, d.buf[:])
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && n == 0:
		d.state = Exhausted
		return schema.Sample{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return schema.Sample{}, d.fail(&TruncatedRecordError{Offset: d.offset, Got: n})
	default:
		return schema.Sample{}, d.fail(err)
	}

	rec := DecodeRecord(d.buf[:])
	sample := d.sampleOf(rec)
	d.stats = d.stats.Add(sample.Axes())
	d.offset += schema.RecordSize
	d.index++
	return sample, nil
}

// All returns the remaining samples as a sequence. A failed stream ends with
// one zero sample paired with the failure; a clean end yields nothing more.
func (d *Decoder) All() iter.Seq2[schema.Sample, error] {
	return func(yield func(schema.Sample, error) bool) {
		for {
			sample, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(sample, err) || err != nil {
				return
			}
		}
	}
}

// Stats returns the statistics accumulated so far.
func (d *Decoder) Stats() schema.Statistics {
	return d.stats
}

// State returns the current lifecycle state.
func (d *Decoder) State() State {
	return d.state
}

// Err returns the failure that stopped the decoder, or nil.
func (d *Decoder) Err() error {
	return d.err
}

// Anchor returns the anchor the decoder resolves timestamps against.
func (d *Decoder) Anchor() schema.FileAnchor {
	return d.anchor
}

func (d *Decoder) fail(err error) error {
	d.state = Failed
	d.err = err
	return err
}

// sampleOf builds the calibrated sample for one record. Whole seconds go
// through calendar arithmetic; the millisecond remainder is carried apart.
func (d *Decoder) sampleOf(rec schema.RawRecord) schema.Sample {
	secs := time.Duration(rec.ElapsedMillis/1000) * time.Second
	return schema.Sample{
		Index:     d.index,
		Elapsed:   rec.ElapsedMillis,
		Timestamp: d.anchor.Midnight.Add(secs),
		Millis:    int(rec.ElapsedMillis % 1000),
		X:         Calibrate(rec.XRaw),
		Y:         Calibrate(rec.YRaw),
		Z:         Calibrate(rec.ZRaw),
	}
}

// DecodeRecord reads one little-endian record from b, which must hold at
// least RecordSize bytes.
func DecodeRecord(b []byte) schema.RawRecord {
	_ = b[schema.RecordSize-1]
	return schema.RawRecord{
		ElapsedMillis: binary.LittleEndian.Uint32(b[0:4]),
		XRaw:          int16(binary.LittleEndian.Uint16(b[4:6])),
		YRaw:          int16(binary.LittleEndian.Uint16(b[6:8])),
		ZRaw:          int16(binary.LittleEndian.Uint16(b[8:10])),
	}
}

// EncodeRecord is the inverse of DecodeRecord, laid out the way the logging
// daemon writes records.
func EncodeRecord(rec schema.RawRecord) []byte {
	b := make([]byte, schema.RecordSize)
	binary.LittleEndian.PutUint32(b[0:4], rec.ElapsedMillis)
	binary.LittleEndian.PutUint16(b[4:6], uint16(rec.XRaw))
	binary.LittleEndian.PutUint16(b[6:8], uint16(rec.YRaw))
	binary.LittleEndian.PutUint16(b[8:10], uint16(rec.ZRaw))
	return b
}

// Calibrate converts a raw sensor count to milli-g.
func Calibrate(raw int16) float64 {
	return float64(raw) * schema.MilliGPerCount
}
