package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBridge(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBridge() error {
	if strings.TrimSpace(c.Bridge.BaseURL) == "" {
		return errors.New("bridge.base_url must be set")
	}
	parsed, err := url.Parse(c.Bridge.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("bridge.base_url is not a valid URL: %q", c.Bridge.BaseURL)
	}
	if c.Bridge.SearchLimit > 500 {
		return errors.New("bridge.search_limit must be 500 or lower")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
