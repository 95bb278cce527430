package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bvat-tools/framelog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a framelog configuration file without opening a port.

Checks:
  - YAML syntax
  - Baud rate and poll interval
  - Start and stop markers
  - Log directory and file prefix
  - Webhook URLs and triggers
  - Environment overrides (FRAMELOG_PORT, FRAMELOG_BAUD, FRAMELOG_LOG_DIR)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	port := cfg.Serial.Port
	if port == "" {
		port = "(prompt)"
	}
	baud := "(prompt)"
	if cfg.Serial.Baud > 0 {
		baud = fmt.Sprintf("%d", cfg.Serial.Baud)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Port:          %s\n", port)
	fmt.Fprintf(w, "  Baud:          %s\n", baud)
	fmt.Fprintf(w, "  Poll interval: %s\n", cfg.Serial.PollInterval)
	fmt.Fprintf(w, "  Adapters:      %v\n", cfg.Serial.AdapterKeywords)
	fmt.Fprintf(w, "  Start marker:  %q\n", cfg.Markers.Start)
	fmt.Fprintf(w, "  Stop marker:   %q\n", cfg.Markers.Stop)
	fmt.Fprintf(w, "  Log dir:       %s\n", cfg.Logging.Dir)
	fmt.Fprintf(w, "  File prefix:   %s\n", cfg.Logging.FilePrefix)
	fmt.Fprintf(w, "  Echo:          %t\n", cfg.Logging.EchoEnabled())

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, wh.Trigger, name)
		}
	}

	return nil
}
