package output

import (
	"context"
	"fmt"
	"io"
	"time"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		_, err := fmt.Fprintf(w, "framelog: %d session(s), %d row(s) recorded, %d frame(s) dropped\n",
			report.Summary.Sessions, report.Summary.Rows, report.Summary.Dropped)
		return err
	}

	fmt.Fprintln(w, "=== framelog Run Report ===")
	fmt.Fprintf(w, "Source: %s", report.Metadata.Source)
	if report.Metadata.Baud > 0 {
		fmt.Fprintf(w, " @ %d baud", report.Metadata.Baud)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	if len(report.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded")
	}
	for i, s := range report.Sessions {
		fmt.Fprintf(w, "[%d] %s\n", i+1, s.File)
		fmt.Fprintf(w, "    %d row(s), %s to %s (%s)\n",
			s.Rows,
			s.StartedAt.Format("15:04:05"),
			s.StoppedAt.Format("15:04:05"),
			s.Duration.Round(time.Second))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d session(s), %d row(s) recorded, %d frame(s) dropped\n",
		report.Summary.Sessions, report.Summary.Rows, report.Summary.Dropped)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Lines read: %d (ignored: %d)\n", report.Summary.LinesRead, report.Summary.Ignored)
		fmt.Fprintf(w, "Markers: %d start, %d stop\n", report.Summary.Starts, report.Summary.Stops)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	if report.Metadata.Error != "" {
		_, err := fmt.Fprintf(w, "Input error: %s\n", report.Metadata.Error)
		return err
	}
	return nil
}
