package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file. An empty path yields
// the defaults, still subject to environment overrides.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults for
// optional fields that were left empty.
func Validate(cfg *Config) error {
	if err := validateSerial(&cfg.Serial); err != nil {
		return fmt.Errorf("serial: %w", err)
	}

	if err := validateMarkers(&cfg.Markers); err != nil {
		return fmt.Errorf("markers: %w", err)
	}

	if strings.TrimSpace(cfg.Logging.Dir) == "" {
		return errors.New("logging: dir is required")
	}
	if strings.ContainsAny(cfg.Logging.FilePrefix, `/\`) {
		return fmt.Errorf("logging: file_prefix %q must not contain path separators", cfg.Logging.FilePrefix)
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateSerial(s *SerialConfig) error {
	if s.Baud < 0 {
		return fmt.Errorf("baud must be positive, got %d", s.Baud)
	}

	if s.PollInterval < 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", s.PollInterval)
	}
	if s.PollInterval == 0 {
		s.PollInterval = DefaultPollInterval
	}

	keywords := s.AdapterKeywords[:0]
	for _, k := range s.AdapterKeywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	s.AdapterKeywords = keywords
	if len(s.AdapterKeywords) == 0 {
		s.AdapterKeywords = append([]string(nil), DefaultAdapterKeywords...)
	}

	return nil
}

func validateMarkers(m *MarkerConfig) error {
	if m.Start == "" {
		return errors.New("start is required")
	}
	if m.Stop == "" {
		return errors.New("stop is required")
	}
	if m.Start == m.Stop {
		return errors.New("start and stop must differ")
	}
	// The start marker is checked first, so a stop marker containing it
	// would never be seen.
	if strings.Contains(m.Stop, m.Start) {
		return fmt.Errorf("stop %q contains start %q and would never match", m.Stop, m.Start)
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnSessions
	case WebhookTriggerOnSessions, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_sessions, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands a token given as ${VAR} or $VAR.
func expandEnvVar(s string) string {
	switch {
	case strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}"):
		return os.Getenv(s[2 : len(s)-1])
	case strings.HasPrefix(s, "$"):
		return os.Getenv(s[1:])
	default:
		return s
	}
}
