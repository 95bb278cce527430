// Package recorder persists telemetry frames to one CSV file per
// logging session.
package recorder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bvat-tools/framelog/pkg/parser"
)

// Defaults for the output location.
const (
	DefaultDir    = "logs"
	DefaultPrefix = "datalog"
)

// Timestamp layouts for file names and rows.
const (
	FileTimeLayout = "20060102_150405"
	RowTimeLayout  = "2006-01-02 15:04:05.000"
)

// maxNameAttempts bounds the suffix search when several sessions start
// within the same second.
const maxNameAttempts = 1000

// Header is the first row of every session file.
var Header = []string{"Timestamp", "Accel_X_g", "Accel_Y_g", "Accel_Z_g", "GPS_Fix", "Speed_kmh"}

// Summary describes a finished session.
type Summary struct {
	File      string        `json:"file"`
	StartedAt time.Time     `json:"started_at"`
	StoppedAt time.Time     `json:"stopped_at"`
	Duration  time.Duration `json:"duration"`
	Rows      int           `json:"rows"`
}

// Recorder owns at most one open session file. It is not safe for
// concurrent use; the session loop is its only caller.
type Recorder struct {
	dir    string
	prefix string
	now    func() time.Time
	logger *slog.Logger

	openFile func(name string, flag int, perm os.FileMode) (*os.File, error)

	file      *os.File
	csv       *csv.Writer
	filename  string
	startedAt time.Time
	rows      int

	sessions []Summary
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithDir sets the directory session files are created in.
func WithDir(dir string) Option {
	return func(r *Recorder) {
		if dir != "" {
			r.dir = dir
		}
	}
}

// WithPrefix sets the file name prefix.
func WithPrefix(prefix string) Option {
	return func(r *Recorder) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithClock replaces the wall clock used for file names and rows.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger for session lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an idle Recorder.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		dir:      DefaultDir,
		prefix:   DefaultPrefix,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
		openFile: os.OpenFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start opens a new session file. An already active session is stopped
// first. On error the recorder is left idle.
func (r *Recorder) Start() error {
	if r.Active() {
		if err := r.Stop(); err != nil {
			r.logger.Error("closing previous session", "file", r.filename, "error", err)
		}
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("creating log directory %s: %w", r.dir, err)
	}

	started := r.now()
	f, name, err := r.create(started)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		discard(f, name)
		return fmt.Errorf("writing header to %s: %w", name, err)
	}
	if err := flush(w, f); err != nil {
		discard(f, name)
		return fmt.Errorf("writing header to %s: %w", name, err)
	}

	r.file = f
	r.csv = w
	r.filename = name
	r.startedAt = started
	r.rows = 0

	r.logger.Info("logging started", "file", name)
	return nil
}

// create makes a new file named after t. If that name is taken, a
// numeric suffix is added so an earlier session is never overwritten.
func (r *Recorder) create(t time.Time) (*os.File, string, error) {
	base := r.prefix + "_" + t.Format(FileTimeLayout)
	for i := 0; i < maxNameAttempts; i++ {
		name := base
		if i > 0 {
			name = base + "_" + strconv.Itoa(i)
		}
		path := filepath.Join(r.dir, name+".csv")

		f, err := r.openFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644) // #nosec G304 -- path built from configured dir
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("creating log file %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("creating log file %s: too many sessions in one second", base)
}

// Record appends one row for the frame. It does nothing when no session
// is active. Each row is flushed and synced before Record returns.
func (r *Recorder) Record(f parser.Frame) error {
	if !r.Active() {
		return nil
	}

	row := []string{
		r.now().Format(RowTimeLayout),
		parser.FormatFloat(f.AccelX),
		parser.FormatFloat(f.AccelY),
		parser.FormatFloat(f.AccelZ),
		strconv.Itoa(f.GPSFix),
		parser.FormatFloat(f.GPSSpeed),
	}
	if err := r.csv.Write(row); err != nil {
		return fmt.Errorf("writing row to %s: %w", r.filename, err)
	}
	if err := flush(r.csv, r.file); err != nil {
		return fmt.Errorf("writing row to %s: %w", r.filename, err)
	}
	r.rows++
	return nil
}

// Stop closes the active session file. Calling Stop while idle does
// nothing.
func (r *Recorder) Stop() error {
	if !r.Active() {
		return nil
	}

	stopped := r.now()
	r.csv.Flush()
	err := r.csv.Error()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}

	r.sessions = append(r.sessions, Summary{
		File:      r.filename,
		StartedAt: r.startedAt,
		StoppedAt: stopped,
		Duration:  stopped.Sub(r.startedAt),
		Rows:      r.rows,
	})
	r.logger.Info("logging stopped", "file", r.filename, "rows", r.rows)

	r.file = nil
	r.csv = nil
	r.filename = ""
	r.rows = 0

	if err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}

// Active reports whether a session file is open.
func (r *Recorder) Active() bool {
	return r.file != nil
}

// Filename returns the path of the active session file, or "" when idle.
func (r *Recorder) Filename() string {
	return r.filename
}

// Rows returns the number of data rows in the active session.
func (r *Recorder) Rows() int {
	return r.rows
}

// Sessions returns summaries of every session stopped so far, oldest
// first.
func (r *Recorder) Sessions() []Summary {
	out := make([]Summary, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// discard closes and removes a session file that never got a header.
func discard(f *os.File, name string) {
	_ = f.Close()
	_ = os.Remove(name)
}

func flush(w *csv.Writer, f *os.File) error {
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}
