package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bvat-tools/framelog/internal/cli/console"
	"github.com/bvat-tools/framelog/pkg/output"
	"github.com/bvat-tools/framelog/pkg/parser"
)

// ReplayOptions holds command-line options for the replay command.
type ReplayOptions struct {
	ReportOptions

	ConfigPath string
	Echo       bool
}

// NewReplayCommand creates the replay command.
func NewReplayCommand() *cobra.Command {
	opts := &ReplayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <capture-file|glob>...",
		Short: "Record sessions from captured device output",
		Long: `Feed saved device output (for example a terminal capture) through the
same marker detection and recording as a live run.

Files are read in sorted order as one continuous stream, so a session
started in one file may stop in the next.

Example:
  framelog replay captures/run1.txt
  framelog replay --log-dir out 'captures/*.txt'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (optional)")
	cmd.Flags().BoolVar(&opts.Echo, "echo", false, "Print every line read")
	opts.addFlags(cmd)

	return cmd
}

func runReplay(cmd *cobra.Command, args []string, opts *ReplayOptions) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(ctx, opts.ConfigPath, &opts.ReportOptions)
	if err != nil {
		return err
	}

	files, err := parser.ExpandCaptures(args)
	if err != nil {
		return err
	}

	logger := console.NewLogger(cmd.ErrOrStderr(), opts.Verbose)
	logger.Debug("replaying captures", "files", files)

	src := parser.NewFileSource(files)
	defer src.Close()

	p := &pipeline{cfg: cfg, logger: logger}
	if opts.Echo {
		p.echo = echoWriter(cmd, opts.Output)
	}

	report, runErr := p.run(ctx, src, output.Metadata{Source: strings.Join(files, ", ")})
	if err := finish(ctx, cmd, cfg, &opts.ReportOptions, report); err != nil {
		return err
	}
	return runErr
}
