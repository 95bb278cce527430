// Package config provides configuration loading and validation for framelog.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Serial   SerialConfig    `yaml:"serial"`
	Markers  MarkerConfig    `yaml:"markers"`
	Logging  LoggingConfig   `yaml:"logging"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// SerialConfig describes how to reach the device.
type SerialConfig struct {
	// Port is the serial device name (e.g. /dev/ttyACM0, COM3).
	// Empty means prompt interactively.
	Port string `yaml:"port,omitempty"`

	// Baud is the line speed. Zero means prompt interactively with
	// DefaultBaud offered as the default.
	Baud int `yaml:"baud,omitempty"`

	// AdapterKeywords are matched case-insensitively against port
	// descriptions and manufacturers to pick the default port.
	AdapterKeywords []string `yaml:"adapter_keywords,omitempty"`

	// PollInterval is the pause between empty reads.
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
}

// MarkerConfig holds the literal strings that start and stop a session.
type MarkerConfig struct {
	Start string `yaml:"start"`
	Stop  string `yaml:"stop"`
}

// LoggingConfig controls where session files go and what is echoed.
type LoggingConfig struct {
	// Dir is the directory session CSV files are written to.
	Dir string `yaml:"dir"`

	// FilePrefix precedes the timestamp in session file names.
	FilePrefix string `yaml:"file_prefix"`

	// Echo prints every received line to the console.
	Echo *bool `yaml:"echo,omitempty"`
}

// EchoEnabled reports whether received lines should be echoed.
func (l LoggingConfig) EchoEnabled() bool {
	return l.Echo == nil || *l.Echo
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnSessions fires only when at least one session was
	// recorded (default).
	WebhookTriggerOnSessions WebhookTrigger = "on_sessions"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint that receives the run report.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_sessions" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
