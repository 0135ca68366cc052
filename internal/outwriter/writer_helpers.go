package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// writeJSONLine encodes data as a single compact line.
func writeJSONLine(w io.Writer, data any) error {
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// fmtMilliG renders a milli-g value with two decimals and no padding.
func fmtMilliG(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// fmtFraction renders the sub-second remainder as seconds, e.g. 250 -> "0.250".
func fmtFraction(millis int) string {
	return strconv.FormatFloat(float64(millis)/1000, 'f', 3, 64)
}
