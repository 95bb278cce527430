// Package output formats the report printed at the end of a recording run.
package output

import (
	"time"

	"github.com/bvat-tools/framelog/pkg/recorder"
	"github.com/bvat-tools/framelog/pkg/session"
)

// Report is the complete run output.
type Report struct {
	Summary  Summary            `json:"summary"`
	Sessions []recorder.Summary `json:"sessions"`
	Metadata Metadata           `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	Sessions int `json:"sessions"`
	Rows     int `json:"rows"`

	session.Stats
}

// Metadata provides context about the run.
type Metadata struct {
	// Source is the port name or the capture files that were read.
	Source string `json:"source"`

	// Baud is the line speed, zero for replays.
	Baud int `json:"baud,omitempty"`

	// LogDir is where session files were written.
	LogDir string `json:"log_dir"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	// Error is the input failure that ended the run, if any.
	Error string `json:"error,omitempty"`
}

// NewReport builds a report from the finished sessions and loop counters.
func NewReport(sessions []recorder.Summary, stats session.Stats, meta Metadata) *Report {
	report := &Report{
		Sessions: sessions,
		Metadata: meta,
		Summary: Summary{
			Sessions: len(sessions),
			Stats:    stats,
		},
	}
	if report.Sessions == nil {
		report.Sessions = []recorder.Summary{}
	}
	for _, s := range sessions {
		report.Summary.Rows += s.Rows
	}
	return report
}

// HasSessions returns true if at least one session file was written.
func (r *Report) HasSessions() bool {
	return r.Summary.Sessions > 0
}
