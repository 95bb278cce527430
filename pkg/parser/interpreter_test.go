package parser

import (
	"errors"
	"testing"
)

const sampleData = "DATA, Accel(X: 0.12, Y: -0.03, Z: 9.81), GPS(Fix: 1, Spd: 42.5)"

func TestInterpreter_Classify(t *testing.T) {
	interp := DefaultInterpreter()

	tests := []struct {
		name string
		line string
		want Kind
	}{
		{"start marker", "=== Data Logging STARTED ===", StartMarker},
		{"start marker with surrounding text", "[btn] === Data Logging STARTED === (press again to stop)", StartMarker},
		{"stop marker", "=== Data Logging STOPPED ===", StopMarker},
		{"stop marker with prefix", "12:00 === Data Logging STOPPED ===", StopMarker},
		{"data frame", sampleData, DataFrame},
		{"data frame no spaces after colons", "DATA, Accel(X:1, Y:2, Z:3), GPS(Fix:0, Spd:0)", DataFrame},
		{"rmc diagnostic", "[PARSING_RMC] $GPRMC,123519,A,4807.038,N", NoMatch},
		{"empty", "", NoMatch},
		{"data prefix only", "DATA,", NoMatch},
		{"data not at start", "echo " + sampleData, NoMatch},
		{"wrong prefix case", "data, Accel(X: 0.1, Y: 0.2, Z: 0.3), GPS(Fix: 1, Spd: 1)", NoMatch},
		{"two-digit fix", "DATA, Accel(X: 0.1, Y: 0.2, Z: 0.3), GPS(Fix: 10, Spd: 1)", NoMatch},
		{"lat lon format", "DATA, Accel(X: 0.1, Y: 0.2, Z: 0.3), GPS(Fix: 1, Lat: 1.0, Lon: 2.0, Spd: 1)", NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := interp.Classify(tt.line)
			if err != nil {
				t.Fatalf("Classify(%q) error = %v", tt.line, err)
			}
			if got.Kind != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.line, got.Kind, tt.want)
			}
		})
	}
}

func TestInterpreter_ClassifyFrameValues(t *testing.T) {
	got, err := DefaultInterpreter().Classify(sampleData)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	want := Frame{AccelX: 0.12, AccelY: -0.03, AccelZ: 9.81, GPSFix: 1, GPSSpeed: 42.5}
	if got.Kind != DataFrame {
		t.Fatalf("Kind = %v, want data", got.Kind)
	}
	if got.Frame != want {
		t.Errorf("Frame = %+v, want %+v", got.Frame, want)
	}
}

func TestInterpreter_MalformedNumber(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"double dot x", "DATA, Accel(X: 1.2.3, Y: 0, Z: 0), GPS(Fix: 1, Spd: 0)", "accel_x"},
		{"lone dot z", "DATA, Accel(X: 1, Y: 0, Z: .), GPS(Fix: 1, Spd: 0)", "accel_z"},
		{"bad speed", "DATA, Accel(X: 1, Y: 0, Z: 0), GPS(Fix: 1, Spd: -..)", "gps_speed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultInterpreter().Classify(tt.line)
			if got.Kind != NoMatch {
				t.Errorf("Kind = %v, want none", got.Kind)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want *FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("Field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestInterpreter_MarkerPrecedence(t *testing.T) {
	// A line carrying both markers is a start: matchers run in order.
	line := DefaultStartMarker + " " + DefaultStopMarker
	got, err := DefaultInterpreter().Classify(line)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Kind != StartMarker {
		t.Errorf("Kind = %v, want start", got.Kind)
	}
}

func TestInterpreter_CustomMarkers(t *testing.T) {
	interp := NewInterpreter("REC ON", "REC OFF")

	tests := []struct {
		line string
		want Kind
	}{
		{"REC ON", StartMarker},
		{"REC OFF", StopMarker},
		{DefaultStartMarker, NoMatch},
		{"DATA, Accel(X: 1, Y: 2, Z: 3), GPS(Fix: 1, Spd: 4)", DataFrame},
	}

	for _, tt := range tests {
		got, err := interp.Classify(tt.line)
		if err != nil {
			t.Fatalf("Classify(%q) error = %v", tt.line, err)
		}
		if got.Kind != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.line, got.Kind, tt.want)
		}
	}
}

func TestInterpreter_NoMatchers(t *testing.T) {
	got, err := NewInterpreterWithMatchers().Classify(sampleData)
	if err != nil || got.Kind != NoMatch {
		t.Errorf("Classify() = %v, %v; want none, nil", got.Kind, err)
	}
}

func TestFrame_DeviceLineRoundTrip(t *testing.T) {
	frames := []Frame{
		{AccelX: 0.12, AccelY: -0.03, AccelZ: 9.81, GPSFix: 1, GPSSpeed: 42.5},
		{AccelX: 0, AccelY: 0, AccelZ: 0, GPSFix: 0, GPSSpeed: 0},
		{AccelX: -1.5, AccelY: 2.25, AccelZ: -0.0001, GPSFix: 1, GPSSpeed: -3},
		{AccelX: 123456.789, AccelY: 1e-7, AccelZ: 16, GPSFix: 0, GPSSpeed: 250.125},
	}

	interp := DefaultInterpreter()
	for _, want := range frames {
		line := want.DeviceLine()
		got, err := interp.Classify(line)
		if err != nil {
			t.Fatalf("Classify(%q) error = %v", line, err)
		}
		if got.Kind != DataFrame {
			t.Fatalf("Classify(%q) = %v, want data", line, got.Kind)
		}
		if got.Frame != want {
			t.Errorf("round trip %q = %+v, want %+v", line, got.Frame, want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		0.12:  "0.12",
		-0.03: "-0.03",
		42.5:  "42.5",
		16:    "16",
		1e-7:  "0.0000001",
	}
	for in, want := range tests {
		if got := FormatFloat(in); got != want {
			t.Errorf("FormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestKind_String(t *testing.T) {
	for k, want := range map[Kind]string{
		NoMatch:     "none",
		StartMarker: "start",
		StopMarker:  "stop",
		DataFrame:   "data",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
