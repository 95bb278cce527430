package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bvat-tools/framelog/internal/cli/console"
	"github.com/bvat-tools/framelog/internal/cli/prompt"
	"github.com/bvat-tools/framelog/pkg/config"
	"github.com/bvat-tools/framelog/pkg/detector"
	"github.com/bvat-tools/framelog/pkg/output"
	"github.com/bvat-tools/framelog/pkg/parser"
	"github.com/bvat-tools/framelog/pkg/serialport"
)

// ErrNoPort is returned when no port was given and none can be asked for.
var ErrNoPort = errors.New("no serial port given: use --port, FRAMELOG_PORT or serial.port, or run from a terminal")

// RecordOptions holds command-line options for the record command.
type RecordOptions struct {
	ReportOptions

	ConfigPath string
	Port       string
	Baud       int
	Echo       bool
}

// NewRecordCommand creates the record command.
func NewRecordCommand() *cobra.Command {
	opts := &RecordOptions{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record telemetry frames from a serial device",
		Long: `Read device output from a serial port and record data frames to CSV.

A session starts when the device prints the start marker and ends at the
stop marker. Each session is written to its own file:

  <log-dir>/datalog_YYYYMMDD_HHMMSS.csv

Rows are "Timestamp,Accel_X_g,Accel_Y_g,Accel_Z_g,GPS_Fix,Speed_kmh".
Numbers are written in their shortest exact form, so whole values have
no decimal point: 1.00 from the device is written as 1, and 0.0 as 0.

Without --port the available ports are listed and the debug adapter is
offered as the default. Press Ctrl+C to stop; an open session is closed
cleanly.

Exit codes:
  0 - Run finished or setup was cancelled
  2 - Configuration, connection or input error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (optional)")
	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "Serial port name (skips the port prompt)")
	cmd.Flags().IntVarP(&opts.Baud, "baud", "b", 0, "Baud rate (skips the baud prompt)")
	cmd.Flags().BoolVar(&opts.Echo, "echo", true, "Print every line received from the device")
	opts.addFlags(cmd)

	return cmd
}

func runRecord(cmd *cobra.Command, opts *RecordOptions) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(ctx, opts.ConfigPath, &opts.ReportOptions)
	if err != nil {
		return err
	}
	if err := applyRecordFlags(cmd, cfg, opts); err != nil {
		return err
	}

	logger := console.NewLogger(cmd.ErrOrStderr(), opts.Verbose)

	// Covers the prompts too: Ctrl+C during setup aborts it.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &setup{
		enumerator:  serialport.SystemEnumerator{},
		in:          cmd.InOrStdin(),
		out:         cmd.OutOrStdout(),
		interactive: console.IsTerminal(cmd.InOrStdin()),
	}
	portName, baud, err := s.resolve(ctx, cfg)
	if errors.Is(err, prompt.ErrAborted) {
		console.Errorf(cmd.ErrOrStderr(), "%v", err)
		return nil
	}
	if err != nil {
		return err
	}

	port, err := serialport.Open(portName, baud, cfg.Serial.PollInterval)
	if err != nil {
		return err
	}
	logger.Info("connected", "port", portName, "baud", baud)
	console.Hintf(cmd.ErrOrStderr(), "Recording from %s at %d baud. Press Ctrl+C to stop.", portName, baud)

	src := parser.NewStreamSource(port, portName,
		parser.WithPollInterval(cfg.Serial.PollInterval),
		parser.WithCloser(port))
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn("closing port", "port", portName, "error", err)
		}
	}()

	p := &pipeline{cfg: cfg, logger: logger}
	if cfg.Logging.EchoEnabled() {
		p.echo = echoWriter(cmd, opts.Output)
	}

	report, runErr := p.run(ctx, src, output.Metadata{Source: portName, Baud: baud})
	logger.Info("disconnected", "port", portName)

	if err := finish(context.WithoutCancel(ctx), cmd, cfg, &opts.ReportOptions, report); err != nil {
		return err
	}
	return runErr
}

// applyRecordFlags overrides config values with the flags that were set.
func applyRecordFlags(cmd *cobra.Command, cfg *config.Config, opts *RecordOptions) error {
	if opts.Port != "" {
		cfg.Serial.Port = opts.Port
	}
	if cmd.Flags().Changed("baud") {
		if opts.Baud <= 0 {
			return fmt.Errorf("invalid --baud %d", opts.Baud)
		}
		cfg.Serial.Baud = opts.Baud
	}
	if cmd.Flags().Changed("echo") {
		echo := opts.Echo
		cfg.Logging.Echo = &echo
	}
	return nil
}

// echoWriter keeps echoed device lines out of a JSON report on stdout.
func echoWriter(cmd *cobra.Command, format string) io.Writer {
	if format == "json" {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

// setup decides which port and baud rate to use, asking the operator
// for whatever the configuration leaves open.
type setup struct {
	enumerator  serialport.Enumerator
	in          io.Reader
	out         io.Writer
	interactive bool
}

func (s *setup) resolve(ctx context.Context, cfg *config.Config) (string, int, error) {
	portName := cfg.Serial.Port
	baud := cfg.Serial.Baud

	var prompter *prompt.Prompter
	if s.interactive {
		prompter = prompt.New(s.in, s.out)
	}

	if portName == "" {
		if prompter == nil {
			return "", 0, ErrNoPort
		}

		ports, err := s.enumerator.Ports()
		if err != nil {
			return "", 0, err
		}
		if len(ports) == 0 {
			return "", 0, fmt.Errorf("%w: no serial ports found", prompt.ErrAborted)
		}

		detected := detector.New(detector.WithKeywords(cfg.Serial.AdapterKeywords...)).Detect(ports)
		prompt.ListPorts(s.out, ports, detected)
		if portName, err = prompter.SelectPort(ctx, ports, detected); err != nil {
			return "", 0, err
		}
	}

	if baud == 0 {
		if prompter == nil {
			return portName, config.DefaultBaud, nil
		}
		var err error
		if baud, err = prompter.Baud(ctx, config.DefaultBaud); err != nil {
			return "", 0, err
		}
	}

	return portName, baud, nil
}
