package outwriter

import "github.com/huangsam/seisread/schema"

// jsonWriter emits JSON Lines, one object per sample, then a summary object.
type jsonWriter struct {
	dest *destination
}

func newJSONWriter(dest *destination) *jsonWriter {
	return &jsonWriter{dest: dest}
}

func (j *jsonWriter) WriteSample(s schema.Sample) error {
	return writeJSONLine(j.dest, schema.ViewSample(s))
}

func (j *jsonWriter) WriteSummary(summary schema.SummaryView) error {
	return writeJSONLine(j.dest, struct {
		Summary schema.SummaryView `json:"summary"`
	}{summary})
}

func (j *jsonWriter) Close() error {
	return j.dest.close("JSON")
}
