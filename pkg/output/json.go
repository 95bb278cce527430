package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// quietReport is the compact JSON form: totals and the files written.
type quietReport struct {
	Sessions int      `json:"sessions"`
	Rows     int      `json:"rows"`
	Dropped  int      `json:"frames_dropped"`
	Files    []string `json:"files"`
	Error    string   `json:"error,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON. Quiet mode keeps only the totals
// and the session file paths.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if !f.opts.Quiet {
		return encoder.Encode(report)
	}

	q := quietReport{
		Sessions: report.Summary.Sessions,
		Rows:     report.Summary.Rows,
		Dropped:  report.Summary.Dropped,
		Files:    make([]string, 0, len(report.Sessions)),
		Error:    report.Metadata.Error,
	}
	for _, s := range report.Sessions {
		q.Files = append(q.Files, s.File)
	}
	return encoder.Encode(q)
}
