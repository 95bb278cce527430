package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Default marker strings emitted by the device firmware.
const (
	DefaultStartMarker = "=== Data Logging STARTED ==="
	DefaultStopMarker  = "=== Data Logging STOPPED ==="
)

// FramePrefix is the literal every data line begins with.
const FramePrefix = "DATA,"

// framePattern captures accel X/Y/Z, GPS fix and GPS speed.
var framePattern = regexp.MustCompile(
	`DATA, Accel\(X: *(-?[\d.]+), Y: *(-?[\d.]+), Z: *(-?[\d.]+)\), ` +
		`GPS\(Fix: *(\d), Spd: *(-?[\d.]+)\)`,
)

// MarkerMatcher recognizes a line containing a literal marker string
// anywhere in it.
type MarkerMatcher struct {
	Marker string
	Kind   Kind
}

// Match implements Matcher.
func (m MarkerMatcher) Match(line string) (Result, bool, error) {
	if m.Marker == "" || !strings.Contains(line, m.Marker) {
		return Result{}, false, nil
	}
	return Result{Kind: m.Kind}, true, nil
}

// FrameMatcher recognizes telemetry data lines.
type FrameMatcher struct{}

// Match implements Matcher.
func (FrameMatcher) Match(line string) (Result, bool, error) {
	if !strings.HasPrefix(line, FramePrefix) {
		return Result{}, false, nil
	}

	m := framePattern.FindStringSubmatch(line)
	if m == nil {
		return Result{}, false, nil
	}

	frame, err := frameFromGroups(m[1:])
	if err != nil {
		return Result{}, true, err
	}
	return Result{Kind: DataFrame, Frame: frame}, true, nil
}

func frameFromGroups(g []string) (Frame, error) {
	var (
		f   Frame
		err error
	)
	floats := []struct {
		name string
		dst  *float64
		raw  string
	}{
		{"accel_x", &f.AccelX, g[0]},
		{"accel_y", &f.AccelY, g[1]},
		{"accel_z", &f.AccelZ, g[2]},
		{"gps_speed", &f.GPSSpeed, g[4]},
	}
	for _, fl := range floats {
		if *fl.dst, err = strconv.ParseFloat(fl.raw, 64); err != nil {
			return Frame{}, &FieldError{Field: fl.name, Value: fl.raw, Err: err}
		}
	}

	if f.GPSFix, err = strconv.Atoi(g[3]); err != nil {
		return Frame{}, &FieldError{Field: "gps_fix", Value: g[3], Err: err}
	}
	return f, nil
}

// Interpreter classifies lines by running an ordered list of matchers.
// The first matcher that claims a line decides its Kind.
type Interpreter struct {
	matchers []Matcher
}

// NewInterpreter creates an interpreter that checks the start marker,
// then the stop marker, then the data frame pattern.
func NewInterpreter(startMarker, stopMarker string) *Interpreter {
	return NewInterpreterWithMatchers(
		MarkerMatcher{Marker: startMarker, Kind: StartMarker},
		MarkerMatcher{Marker: stopMarker, Kind: StopMarker},
		FrameMatcher{},
	)
}

// NewInterpreterWithMatchers creates an interpreter from an explicit
// matcher list, evaluated in order.
func NewInterpreterWithMatchers(matchers ...Matcher) *Interpreter {
	return &Interpreter{matchers: matchers}
}

// DefaultInterpreter uses the firmware's default marker strings.
func DefaultInterpreter() *Interpreter {
	return NewInterpreter(DefaultStartMarker, DefaultStopMarker)
}

// Classify returns the tagged result for a line. Lines that no matcher
// claims return NoMatch with a nil error. A *FieldError is returned
// together with NoMatch when a data line carries a malformed number.
func (i *Interpreter) Classify(line string) (Result, error) {
	for _, m := range i.matchers {
		res, ok, err := m.Match(line)
		if !ok {
			continue
		}
		if err != nil {
			return Result{Kind: NoMatch}, err
		}
		return res, nil
	}
	return Result{Kind: NoMatch}, nil
}

// DeviceLine renders the frame the way the firmware prints it.
func (f Frame) DeviceLine() string {
	return fmt.Sprintf("DATA, Accel(X: %s, Y: %s, Z: %s), GPS(Fix: %d, Spd: %s)",
		FormatFloat(f.AccelX), FormatFloat(f.AccelY), FormatFloat(f.AccelZ),
		f.GPSFix, FormatFloat(f.GPSSpeed))
}

// FormatFloat renders a value in plain decimal notation with the fewest
// digits that parse back to the same float64.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
