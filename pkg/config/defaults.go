package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bvat-tools/framelog/pkg/parser"
	"github.com/bvat-tools/framelog/pkg/recorder"
)

// Default values for configuration.
const (
	DefaultBaud           = 115200
	DefaultPollInterval   = parser.DefaultPollInterval
	DefaultWebhookTimeout = 10 * time.Second
)

// DefaultAdapterKeywords identify ST-Link debug probes, whose virtual COM
// port carries the firmware's output.
var DefaultAdapterKeywords = []string{"stlink", "st-link"}

// Environment variable names.
const (
	EnvPort   = "FRAMELOG_PORT"
	EnvBaud   = "FRAMELOG_BAUD"
	EnvLogDir = "FRAMELOG_LOG_DIR"
)

// DefaultConfig returns a configuration with sensible defaults.
// Serial.Baud is left zero so that the baud prompt still runs.
func DefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{
			AdapterKeywords: append([]string(nil), DefaultAdapterKeywords...),
			PollInterval:    DefaultPollInterval,
		},
		Markers: MarkerConfig{
			Start: parser.DefaultStartMarker,
			Stop:  parser.DefaultStopMarker,
		},
		Logging: LoggingConfig{
			Dir:        recorder.DefaultDir,
			FilePrefix: recorder.DefaultPrefix,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if port := os.Getenv(EnvPort); port != "" {
		c.Serial.Port = port
	}
	if baud := os.Getenv(EnvBaud); baud != "" {
		n, err := strconv.Atoi(baud)
		if err != nil {
			return fmt.Errorf("%s: invalid baud rate %q", EnvBaud, baud)
		}
		c.Serial.Baud = n
	}
	if dir := os.Getenv(EnvLogDir); dir != "" {
		c.Logging.Dir = dir
	}
	return nil
}
