package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/booructl/config.toml"
		}
		return fmt.Errorf("server.url is required. Edit %s (create with 'booructl config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Server.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server.url %q must be an absolute http(s) URL", c.Server.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server.url scheme %q is not supported", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.Username == "" {
		return errors.New("auth.username must be set")
	}
	if c.Auth.Token == "" {
		return errors.New("auth.token must be set (or export BOORUCTL_TOKEN)")
	}
	return nil
}

func (c *Config) validateRetry() error {
	if err := ensurePositiveMap(map[string]int{
		"transport.backoff_ms":         c.Transport.BackoffMS,
		"transport.max_attempts":       c.Transport.MaxAttempts,
		"transport.request_timeout_ms": c.Transport.RequestTimeoutMS,
	}); err != nil {
		return err
	}
	if c.Settings.TimeoutMS < 0 {
		return errors.New("settings.timeout_ms must not be negative")
	}
	if c.Settings.RetryAttempts < 0 {
		return errors.New("settings.retry_attempts must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
