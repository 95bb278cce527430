package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/bvat-tools/framelog/internal/cli/console"
	"github.com/bvat-tools/framelog/pkg/config"
	"github.com/bvat-tools/framelog/pkg/output"
	"github.com/bvat-tools/framelog/pkg/parser"
	"github.com/bvat-tools/framelog/pkg/recorder"
	"github.com/bvat-tools/framelog/pkg/session"
	"github.com/bvat-tools/framelog/pkg/webhook"
)

// ReportOptions holds the flags shared by commands that end with a run
// report.
type ReportOptions struct {
	Output  string
	Verbose bool
	Quiet   bool
	LogDir  string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

func (o *ReportOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "text", "Report format (text|json)")
	cmd.Flags().BoolVarP(&o.Verbose, "verbose", "v", false, "Debug logging and extended report")
	cmd.Flags().BoolVarP(&o.Quiet, "quiet", "q", false, "One-line summary only")
	cmd.Flags().StringVar(&o.LogDir, "log-dir", "", "Directory for session CSV files (overrides config)")

	cmd.Flags().StringVar(&o.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&o.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&o.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnSessions),
		"When to fire webhook (on_sessions|always|never)")
}

// pipeline runs a line source through the interpreter and recorder
// described by cfg.
type pipeline struct {
	cfg    *config.Config
	logger *slog.Logger

	// echo receives every line read, nil to disable.
	echo io.Writer
}

// run records from src until it is exhausted, fails, or ctx is
// cancelled. The report is always returned; the error is the input
// failure that ended the run, if any.
func (p *pipeline) run(ctx context.Context, src parser.LineSource, meta output.Metadata) (*output.Report, error) {
	rec := recorder.New(
		recorder.WithDir(p.cfg.Logging.Dir),
		recorder.WithPrefix(p.cfg.Logging.FilePrefix),
		recorder.WithLogger(p.logger),
	)
	interp := parser.NewInterpreter(p.cfg.Markers.Start, p.cfg.Markers.Stop)

	opts := []session.Option{session.WithLogger(p.logger)}
	if p.echo != nil {
		w := p.echo
		opts = append(opts, session.WithLineFunc(func(line *parser.Line) {
			console.DeviceLine(w, line.Content)
		}))
	}
	runner := session.NewRunner(interp, rec, opts...)

	meta.StartedAt = time.Now()
	meta.LogDir = p.cfg.Logging.Dir
	runErr := runner.Run(ctx, src)
	meta.Duration = time.Since(meta.StartedAt)
	if runErr != nil {
		p.logger.Error("input failed", "source", meta.Source, "error", runErr)
		meta.Error = runErr.Error()
	}

	return output.NewReport(rec.Sessions(), runner.Stats(), meta), runErr
}

// finish prints the report and sends it to the configured webhooks.
// Webhook failures are reported but do not fail the command.
func finish(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts *ReportOptions, report *output.Report) error {
	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	sendWebhooks(ctx, cmd.ErrOrStderr(), collectWebhooks(cfg, opts), report)
	return nil
}

// sendWebhooks sends the report to all webhooks whose trigger fires.
func sendWebhooks(ctx context.Context, w io.Writer, webhooks []config.WebhookConfig, report *output.Report) {
	if len(webhooks) == 0 {
		return
	}

	for _, res := range webhook.NewClient().Dispatch(ctx, webhooks, report) {
		name := res.Webhook.Name
		if name == "" {
			name = res.Webhook.URL
		}

		if res.Response.Success() {
			fmt.Fprintf(w, "Webhook %s: sent (%d, %s)\n", name, res.Response.StatusCode, res.Response.Duration)
		} else {
			console.Warnf(w, "Webhook %s: failed (%v)", name, res.Response.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ReportOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnSessions
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// loadConfig loads the optional config file and applies the shared
// flag overrides.
func loadConfig(ctx context.Context, path string, opts *ReportOptions) (*config.Config, error) {
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.LogDir != "" {
		cfg.Logging.Dir = opts.LogDir
	}

	switch config.WebhookTrigger(opts.WebhookTrigger) {
	case "", config.WebhookTriggerOnSessions, config.WebhookTriggerAlways, config.WebhookTriggerNever:
	default:
		return nil, fmt.Errorf("invalid --webhook-trigger %q (must be on_sessions, always, or never)", opts.WebhookTrigger)
	}
	return cfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
