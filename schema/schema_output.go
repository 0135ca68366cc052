package schema

// SampleView is the presentation shape of a Sample for JSON consumers.
type SampleView struct {
	Timestamp string  `json:"timestamp"`  // "2006-01-02T15:04:05.000" in the anchor's location
	Millis    int     `json:"millis"`     // sub-second remainder
	ElapsedMs uint32  `json:"elapsed_ms"` // raw elapsed milliseconds
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

// SummaryView is the presentation shape of the final statistics.
type SummaryView struct {
	File    string    `json:"file,omitempty"`
	Anchor  string    `json:"anchor,omitempty"`
	Status  RunStatus `json:"status,omitempty"`
	Error   string    `json:"error,omitempty"`
	Samples int64     `json:"samples"`
	Net     Axes      `json:"net"`
	MaxAbs  Axes      `json:"max_abs"`
	Mean    Axes      `json:"mean"`
}

// TimestampLayout renders the full millisecond instant of a sample.
const TimestampLayout = "2006-01-02T15:04:05.000"

// ViewSample converts a sample into its presentation shape.
func ViewSample(s Sample) SampleView {
	return SampleView{
		Timestamp: s.Instant().Format(TimestampLayout),
		Millis:    s.Millis,
		ElapsedMs: s.Elapsed,
		X:         s.X,
		Y:         s.Y,
		Z:         s.Z,
	}
}

// ViewSamples converts a list of samples into their presentation shape.
func ViewSamples(samples []Sample) []SampleView {
	output := make([]SampleView, len(samples))
	for i, s := range samples {
		output[i] = ViewSample(s)
	}
	return output
}

// ViewSummary converts statistics into their presentation shape.
func ViewSummary(stats Statistics) SummaryView {
	return SummaryView{
		Samples: stats.Count,
		Net:     stats.Sum,
		MaxAbs:  stats.MaxAbs,
		Mean:    stats.Mean(),
	}
}
