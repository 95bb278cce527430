package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bvat-tools/framelog/internal/cli/prompt"
	"github.com/bvat-tools/framelog/pkg/detector"
	"github.com/bvat-tools/framelog/pkg/serialport"
)

// PortsOptions holds command-line options for the ports command.
type PortsOptions struct {
	ConfigPath string
	Output     string
	All        bool
}

// portsListing is the JSON form of the ports command output.
type portsListing struct {
	Ports    []serialport.PortInfo `json:"ports"`
	Detected string                `json:"detected,omitempty"`
	Keyword  string                `json:"keyword,omitempty"`
}

// NewPortsCommand creates the ports command.
func NewPortsCommand() *cobra.Command {
	opts := &PortsOptions{}

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List serial ports and the detected debug adapter",
		Long: `List the serial ports on this machine.

The port whose description or manufacturer matches an adapter keyword
(default: stlink, st-link) is marked as detected; record offers it as
the default port. Only USB ports are shown unless --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPorts(cmd, opts, serialport.SystemEnumerator{})
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Config file providing adapter keywords (optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Include non-USB ports")

	return cmd
}

func runPorts(cmd *cobra.Command, opts *PortsOptions, en serialport.Enumerator) error {
	cfg, err := loadConfig(commandContext(cmd), opts.ConfigPath, &ReportOptions{})
	if err != nil {
		return err
	}

	ports, err := en.Ports()
	if err != nil {
		return err
	}
	if !opts.All {
		ports = usbOnly(ports)
	}

	detected := detector.New(detector.WithKeywords(cfg.Serial.AdapterKeywords...)).Detect(ports)
	w := cmd.OutOrStdout()

	switch opts.Output {
	case "json":
		listing := portsListing{Ports: ports}
		if listing.Ports == nil {
			listing.Ports = []serialport.PortInfo{}
		}
		if best := detected.Best(); best != nil {
			listing.Detected = best.Port.Name
			listing.Keyword = best.Keyword
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listing)
	case "text":
		if len(ports) == 0 {
			fmt.Fprintln(w, "No serial ports found.")
			return nil
		}
		prompt.ListPorts(w, ports, detected)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func usbOnly(ports []serialport.PortInfo) []serialport.PortInfo {
	var usb []serialport.PortInfo
	for _, p := range ports {
		if p.IsUSB {
			usb = append(usb, p)
		}
	}
	return usb
}
