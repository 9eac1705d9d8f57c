package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"booructl/internal/booru"
	"booructl/internal/config"
	"booructl/internal/history"
	"booructl/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if err := c.offerFirstRunConfig(cmd, path); err != nil {
			c.configErr = err
			return
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// offerFirstRunConfig mirrors the first-run flow: when no config file exists
// and the session is interactive, offer to write the sample and stop so the
// user can fill in server and credentials.
func (c *commandContext) offerFirstRunConfig(cmd *cobra.Command, path string) error {
	if path != "" {
		return nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return nil
	}
	if _, statErr := os.Stat(target); statErr == nil || !errors.Is(statErr, fs.ErrNotExist) {
		return nil
	}
	if _, statErr := os.Stat("booructl.toml"); statErr == nil {
		return nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "No configuration found at %s. Create a sample config? [y/N] ", target)
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, _ := reader.ReadString('\n')
	if answer := strings.ToLower(strings.TrimSpace(answer)); answer != "y" && answer != "yes" {
		return nil
	}
	if err := config.CreateSample(target); err != nil {
		return fmt.Errorf("create sample config: %w", err)
	}
	return fmt.Errorf("wrote sample configuration to %s; edit it and run the command again", target)
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.NewFromConfig(c.config)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) newClient(logger *slog.Logger) *booru.Client {
	cfg := c.config
	return booru.NewClient(booru.Config{
		BaseURL:     cfg.Server.URL,
		Username:    cfg.Auth.Username,
		Token:       cfg.Auth.Token,
		Backoff:     cfg.TransportBackoff(),
		MaxAttempts: cfg.Transport.MaxAttempts,
		Timeout:     cfg.RequestTimeout(),
	}, booru.WithLogger(logger))
}

// acquireRunLock guards against concurrent batch runs mutating the same
// server state. The returned release function is safe to defer.
func (c *commandContext) acquireRunLock() (func(), error) {
	lock := flock.New(c.config.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another booructl run holds the lock at %s", c.config.LockPath())
	}
	return func() { _ = lock.Unlock() }, nil
}

// openHistory returns the outcome ledger when enabled, else nil.
func (c *commandContext) openHistory(logger *slog.Logger) (*history.Store, error) {
	if !c.config.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(c.config.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history ledger: %w", err)
	}
	logger.Debug("history ledger open", "path", c.config.History.Path)
	return store, nil
}
