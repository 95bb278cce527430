// Package parser reads device output lines and classifies them as session
// markers or telemetry frames.
package parser

import "fmt"

// Kind tags the outcome of classifying a single line.
type Kind int

const (
	// NoMatch covers every line that is neither a marker nor a data frame.
	// Diagnostic output from the device lands here and is not an error.
	NoMatch Kind = iota
	StartMarker
	StopMarker
	DataFrame
)

func (k Kind) String() string {
	switch k {
	case StartMarker:
		return "start"
	case StopMarker:
		return "stop"
	case DataFrame:
		return "data"
	default:
		return "none"
	}
}

// Frame is one decoded set of telemetry values.
type Frame struct {
	AccelX   float64 // g
	AccelY   float64 // g
	AccelZ   float64 // g
	GPSFix   int     // 0 or 1
	GPSSpeed float64 // km/h
}

// Result is the tagged outcome of Interpreter.Classify.
// Frame is only meaningful when Kind is DataFrame.
type Result struct {
	Kind  Kind
	Frame Frame
}

// Line is a decoded text line read from a LineSource.
type Line struct {
	// Content is the line text with invalid UTF-8 dropped and
	// surrounding whitespace trimmed.
	Content string

	// Source names where the line came from (port name or file path).
	Source string

	// LineNum is the 1-based line number within Source.
	LineNum int
}

// FieldError reports a numeric field that matched the frame pattern
// but could not be converted.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: invalid value %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
