package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// textWriter renders the classic line-per-sample layout.
type textWriter struct {
	dest      *destination
	comma     bool
	fraction  bool
	useColors bool
}

func newTextWriter(dest *destination, cfg *contract.Config) *textWriter {
	return &textWriter{dest: dest, comma: cfg.Comma, fraction: cfg.Fraction, useColors: cfg.UseColors}
}

func (t *textWriter) WriteSample(s schema.Sample) error {
	_, err := io.WriteString(t.dest, FormatTextLine(s, t.comma, t.fraction)+"\n")
	return err
}

func (t *textWriter) WriteSummary(summary schema.SummaryView) error {
	return writeTextSummary(t.dest, summary, t.comma, t.useColors)
}

func (t *textWriter) Close() error {
	return t.dest.close("text")
}

// FormatTextLine renders one sample in one of the four text layouts.
func FormatTextLine(s schema.Sample, comma, fraction bool) string {
	date := s.Timestamp.Format(dateLayout)
	clock := s.Timestamp.Format(timeLayout)
	switch {
	case comma && fraction:
		return fmt.Sprintf("%s,%s,%s,%s,%s,%s", date, clock, fmtFraction(s.Millis),
			fmtMilliG(s.X), fmtMilliG(s.Y), fmtMilliG(s.Z))
	case comma:
		return fmt.Sprintf("%s,%s.%03d,%s,%s,%s", date, clock, s.Millis,
			fmtMilliG(s.X), fmtMilliG(s.Y), fmtMilliG(s.Z))
	case fraction:
		return fmt.Sprintf("%s %s %s %7.2f %7.2f %7.2f", date, clock, fmtFraction(s.Millis), s.X, s.Y, s.Z)
	default:
		return fmt.Sprintf("%s %s.%03d %7.2f %7.2f %7.2f", date, clock, s.Millis, s.X, s.Y, s.Z)
	}
}

// writeTextSummary prints the closing statistics block.
func writeTextSummary(w io.Writer, summary schema.SummaryView, comma, useColors bool) error {
	if comma {
		if _, err := fmt.Fprintf(w, "net,%s,%s,%s\nmax,%s,%s,%s\n",
			fmtMilliG(summary.Net.X), fmtMilliG(summary.Net.Y), fmtMilliG(summary.Net.Z),
			fmtMilliG(summary.MaxAbs.X), fmtMilliG(summary.MaxAbs.Y), fmtMilliG(summary.MaxAbs.Z)); err != nil {
			return err
		}
		if isPartial(summary.Status) {
			_, err := fmt.Fprintf(w, "status,%s\n", summary.Status)
			return err
		}
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Axis", "Net (mg)", "Max |a| (mg)"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
		// Keep unit labels such as "mg" and "|a|" as written
		cfg.Header.Formatting.AutoFormat = tw.Off
	})
	data := [][]string{
		{"X", fmtMilliG(summary.Net.X), fmtMilliG(summary.MaxAbs.X)},
		{"Y", fmtMilliG(summary.Net.Y), fmtMilliG(summary.MaxAbs.Y)},
		{"Z", fmtMilliG(summary.Net.Z), fmtMilliG(summary.MaxAbs.Z)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	label := "Samples:"
	if useColors {
		label = contract.HeadingColor.Sprint(label)
	}
	if _, err := fmt.Fprintf(w, "%s %d\n", label, summary.Samples); err != nil {
		return err
	}
	if isPartial(summary.Status) {
		_, err := fmt.Fprintf(w, "Status: %s (statistics are partial)\n", summary.Status)
		return err
	}
	return nil
}

// isPartial reports whether the stream stopped before a clean end of file.
func isPartial(status schema.RunStatus) bool {
	return status != "" && status != schema.CompletedStatus
}
