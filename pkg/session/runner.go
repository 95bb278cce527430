// Package session drives the read-classify-record loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bvat-tools/framelog/pkg/parser"
	"github.com/bvat-tools/framelog/pkg/recorder"
)

// Stats counts what the loop saw.
type Stats struct {
	LinesRead int `json:"lines_read"`
	Recorded  int `json:"frames_recorded"`
	Dropped   int `json:"frames_dropped"`
	Ignored   int `json:"lines_ignored"`
	Starts    int `json:"start_markers"`
	Stops     int `json:"stop_markers"`
}

// LineFunc observes every line before it is classified.
type LineFunc func(line *parser.Line)

// Runner feeds lines from a source through an interpreter into a
// recorder. A Runner is single-use per Run and not safe for concurrent
// use.
type Runner struct {
	interp   *parser.Interpreter
	recorder *recorder.Recorder
	logger   *slog.Logger
	onLine   LineFunc

	stats Stats
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for per-line diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithLineFunc registers a callback invoked for every line read.
func WithLineFunc(fn LineFunc) Option {
	return func(r *Runner) {
		r.onLine = fn
	}
}

// NewRunner creates a Runner. The recorder is owned by the Runner for
// the duration of Run and is always stopped when Run returns.
func NewRunner(interp *parser.Interpreter, rec *recorder.Recorder, opts ...Option) *Runner {
	r := &Runner{
		interp:   interp,
		recorder: rec,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until the source is exhausted, the context is
// cancelled, or the source fails. Any open session is closed on every
// exit path. End of input and cancellation return nil; source failures
// are returned wrapped.
func (r *Runner) Run(ctx context.Context, src parser.LineSource) error {
	defer func() {
		if stopErr := r.recorder.Stop(); stopErr != nil {
			r.logger.Error("closing session on shutdown", "error", stopErr)
		}
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		r.Dispatch(line)
	}
}

// Dispatch classifies one line and applies it to the recorder.
func (r *Runner) Dispatch(line *parser.Line) {
	r.stats.LinesRead++
	if r.onLine != nil {
		r.onLine(line)
	}

	res, err := r.interp.Classify(line.Content)
	if err != nil {
		if !r.recorder.Active() {
			r.stats.Ignored++
			r.logger.Debug("ignoring malformed frame while idle",
				"source", line.Source, "line", line.LineNum, "error", err)
			return
		}
		r.stats.Dropped++
		r.logger.Warn("dropping malformed frame",
			"source", line.Source, "line", line.LineNum,
			"content", line.Content, "error", err)
		return
	}

	switch res.Kind {
	case parser.StartMarker:
		r.stats.Starts++
		if err := r.recorder.Start(); err != nil {
			r.logger.Error("starting session", "error", err)
		}
	case parser.StopMarker:
		r.stats.Stops++
		if err := r.recorder.Stop(); err != nil {
			r.logger.Error("stopping session", "error", err)
		}
	case parser.DataFrame:
		if !r.recorder.Active() {
			r.stats.Ignored++
			return
		}
		if err := r.recorder.Record(res.Frame); err != nil {
			r.stats.Dropped++
			r.logger.Error("recording frame", "error", err)
			return
		}
		r.stats.Recorded++
	default:
		r.stats.Ignored++
		r.logger.Debug("ignoring line", "source", line.Source, "line", line.LineNum)
	}
}

// Stats returns the counters accumulated so far.
func (r *Runner) Stats() Stats {
	return r.stats
}

// Recorder returns the recorder the Runner writes to.
func (r *Runner) Recorder() *recorder.Recorder {
	return r.recorder
}
