package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bvat-tools/framelog/pkg/detector"
	"github.com/bvat-tools/framelog/pkg/serialport"
)

var testPorts = []serialport.PortInfo{
	{Name: "/dev/ttyS0"},
	{Name: "/dev/ttyACM0", Description: "STM32 STLink", Manufacturer: "STMicroelectronics"},
	{Name: "/dev/ttyUSB0", Description: "FT232R USB UART", Manufacturer: "FTDI"},
}

func TestSelectPort(t *testing.T) {
	withAdapter := detector.New().Detect(testPorts)
	noAdapter := detector.New().Detect(testPorts[2:])

	tests := []struct {
		name     string
		input    string
		detected *detector.Result
		want     string
		aborted  bool
	}{
		{"default accepted", "\n", withAdapter, "/dev/ttyACM0", false},
		{"index", "2\n", withAdapter, "/dev/ttyUSB0", false},
		{"index zero", " 0 \n", noAdapter, "/dev/ttyS0", false},
		{"literal name", "/dev/ttyAMA0\n", withAdapter, "/dev/ttyAMA0", false},
		{"literal without newline", "COM4", noAdapter, "COM4", false},
		{"index out of range", "7\n", withAdapter, "", true},
		{"negative index", "-1\n", withAdapter, "", true},
		{"empty without default", "\n", noAdapter, "", true},
		{"eof", "", withAdapter, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := New(strings.NewReader(tt.input), &out).SelectPort(context.Background(), testPorts, tt.detected)
			if tt.aborted {
				if !errors.Is(err, ErrAborted) {
					t.Fatalf("SelectPort() error = %v, want ErrAborted", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectPort() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SelectPort() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectPort_ShowsDefault(t *testing.T) {
	var out bytes.Buffer
	_, err := New(strings.NewReader("\n"), &out).SelectPort(context.Background(), testPorts, detector.New().Detect(testPorts))
	if err != nil {
		t.Fatalf("SelectPort() error = %v", err)
	}
	if !strings.Contains(out.String(), "(default: /dev/ttyACM0)") {
		t.Errorf("prompt did not offer default:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Auto-detected stlink adapter") {
		t.Errorf("prompt did not announce detection:\n%s", out.String())
	}
}

func TestBaud(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		aborted bool
	}{
		{"default", "\n", 115200, false},
		{"explicit", "9600\n", 9600, false},
		{"padded", "  460800  \n", 460800, false},
		{"not a number", "fast\n", 0, true},
		{"zero", "0\n", 0, true},
		{"negative", "-9600\n", 0, true},
		{"eof", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := New(strings.NewReader(tt.input), &out).Baud(context.Background(), 115200)
			if tt.aborted {
				if !errors.Is(err, ErrAborted) {
					t.Fatalf("Baud() error = %v, want ErrAborted", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Baud() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Baud() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBaud_CancelledWhileWaiting(t *testing.T) {
	// The pipe is never written, so the answer never arrives.
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	var out bytes.Buffer
	_, err := New(in, &out).Baud(ctx, 115200)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("Baud() error = %v, want ErrAborted", err)
	}
	if !strings.Contains(err.Error(), "selection cancelled") {
		t.Errorf("error = %q, want selection cancelled", err)
	}
}

func TestSelectPort_AlreadyCancelled(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(in, io.Discard).SelectPort(ctx, testPorts, detector.New().Detect(testPorts))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("SelectPort() error = %v, want ErrAborted", err)
	}
}

func TestPrompter_SequentialAnswers(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("1\n57600\n"), &out)

	port, err := p.SelectPort(context.Background(), testPorts, detector.New().Detect(testPorts))
	if err != nil || port != "/dev/ttyACM0" {
		t.Fatalf("SelectPort() = %q, %v", port, err)
	}
	baud, err := p.Baud(context.Background(), 115200)
	if err != nil || baud != 57600 {
		t.Fatalf("Baud() = %d, %v", baud, err)
	}
}

func TestListPorts(t *testing.T) {
	var out bytes.Buffer
	ListPorts(&out, testPorts, detector.New().Detect(testPorts))
	s := out.String()

	for _, want := range []string{
		"[0]: /dev/ttyS0 - N/A",
		"[1]: /dev/ttyACM0 - STM32 STLink (STMicroelectronics)",
		"(detected)",
		"[2]: /dev/ttyUSB0 - FT232R USB UART (FTDI)",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("listing missing %q:\n%s", want, s)
		}
	}
	if strings.Count(s, "(detected)") != 1 {
		t.Errorf("expected exactly one detected marker:\n%s", s)
	}
}
