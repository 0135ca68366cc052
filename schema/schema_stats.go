package schema

import "math"

// Statistics accumulates net and peak acceleration over a stream of samples.
// It is a value type: Add returns the updated accumulator and leaves the
// receiver untouched.
type Statistics struct {
	Count  int64 `json:"count"`
	Sum    Axes  `json:"net"`
	MaxAbs Axes  `json:"max_abs"`
}

// Add folds one calibrated reading into the statistics.
func (s Statistics) Add(v Axes) Statistics {
	s.Count++
	s.Sum.X += v.X
	s.Sum.Y += v.Y
	s.Sum.Z += v.Z
	s.MaxAbs.X = math.Max(s.MaxAbs.X, math.Abs(v.X))
	s.MaxAbs.Y = math.Max(s.MaxAbs.Y, math.Abs(v.Y))
	s.MaxAbs.Z = math.Max(s.MaxAbs.Z, math.Abs(v.Z))
	return s
}

// Mean returns the average reading per axis, or zero when nothing was added.
func (s Statistics) Mean() Axes {
	if s.Count == 0 {
		return Axes{}
	}
	n := float64(s.Count)
	return Axes{X: s.Sum.X / n, Y: s.Sum.Y / n, Z: s.Sum.Z / n}
}
