package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeAuth()
	c.normalizeTransport()
	c.normalizeSettings()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
}

func (c *Config) normalizeAuth() {
	c.Auth.Username = strings.TrimSpace(c.Auth.Username)
	c.Auth.Token = strings.TrimSpace(c.Auth.Token)
	if c.Auth.Token == "" {
		if value, ok := os.LookupEnv("BOORUCTL_TOKEN"); ok {
			c.Auth.Token = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeTransport() {
	if c.Transport.BackoffMS <= 0 {
		c.Transport.BackoffMS = defaultTransportBackoffMS
	}
	if c.Transport.MaxAttempts <= 0 {
		c.Transport.MaxAttempts = defaultTransportAttempts
	}
	if c.Transport.RequestTimeoutMS <= 0 {
		c.Transport.RequestTimeoutMS = defaultRequestTimeoutMS
	}
}

func (c *Config) normalizeSettings() {
	if c.Settings.TimeoutMS < 0 {
		c.Settings.TimeoutMS = defaultSettingsTimeoutMS
	}
	if c.Settings.RetryAttempts < 0 {
		c.Settings.RetryAttempts = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
