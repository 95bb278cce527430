// Package cli provides the command-line interface for framelog.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bvat-tools/framelog/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		// SilenceErrors stops cobra from printing the error itself.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "framelog",
		Short: "Record telemetry frames from a serial device to CSV",
		Long: `framelog reads the text output of a data logging device over a serial
port and writes its telemetry frames to CSV files.

Recording is controlled by the device: a session starts when it prints
"=== Data Logging STARTED ===" and ends at "=== Data Logging STOPPED ===".
Each session gets its own timestamped file. Frames look like:

  DATA, Accel(X: 0.01, Y: -0.02, Z: 1.00), GPS(Fix: 1, Spd: 12.5)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRecordCommand())
	rootCmd.AddCommand(commands.NewPortsCommand())
	rootCmd.AddCommand(commands.NewReplayCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
