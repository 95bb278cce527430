package parser

import "context"

// LineSource provides an iterator over decoded device lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next non-empty line.
	// Returns io.EOF when the underlying stream is exhausted.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source.
	Close() error
}

// Matcher recognizes one kind of line. Matchers must be side-effect free.
type Matcher interface {
	// Match reports whether the line belongs to this matcher. A non-nil
	// error is only returned alongside matched == true and means the
	// line had the right shape but carried unusable values.
	Match(line string) (result Result, matched bool, err error)
}
