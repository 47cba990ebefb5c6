package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Bridge contains connection settings for the record store bridge.
type Bridge struct {
	BaseURL        string `toml:"base_url"`
	AuthToken      string `toml:"auth_token"`
	SearchLimit    int    `toml:"search_limit"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Rules contains the normalization ruleset location. An empty path selects
// the ruleset embedded in the binary.
type Rules struct {
	Path string `toml:"path"`
}

// Audit contains the audit trail database location.
type Audit struct {
	Dir string `toml:"dir"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

// Config is the root configuration object.
type Config struct {
	Bridge  Bridge  `toml:"bridge"`
	Rules   Rules   `toml:"rules"`
	Audit   Audit   `toml:"audit"`
	Logging Logging `toml:"logging"`
}

// SampleConfig returns the embedded sample configuration file.
func SampleConfig() string {
	return sampleConfig
}

// DefaultConfigPath returns the expanded default config file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/celinker/config.toml")
}

// Load reads configuration from path (or the default location when path is
// empty), merges it over the defaults, and returns the result with path
// fields expanded and validated. The second return reports the resolved
// path, the third whether a file was actually read.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			return nil, resolved, false, fmt.Errorf("read config: %w", readErr)
		}
		if decodeErr := toml.Unmarshal(data, &cfg); decodeErr != nil {
			return nil, resolved, false, fmt.Errorf("parse config: %w", decodeErr)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

// EnsureDirectories creates the directories the configuration references.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Audit.Dir, c.Logging.Dir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// AuditDBPath returns the audit database file location.
func (c *Config) AuditDBPath() string {
	return filepath.Join(c.Audit.Dir, "audit.db")
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err = os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, fmt.Errorf("config file not found: %s", expanded)
			}
			return expanded, false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err = os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return defaultPath, false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Rules.Path != "" {
		if c.Rules.Path, err = expandPath(c.Rules.Path); err != nil {
			return fmt.Errorf("rules.path: %w", err)
		}
	}
	if strings.TrimSpace(c.Audit.Dir) == "" {
		c.Audit.Dir = defaultAuditDir
	}
	if c.Audit.Dir, err = expandPath(c.Audit.Dir); err != nil {
		return fmt.Errorf("audit.dir: %w", err)
	}
	if c.Logging.Dir != "" {
		if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}

	c.Bridge.BaseURL = strings.TrimRight(strings.TrimSpace(c.Bridge.BaseURL), "/")
	c.Bridge.AuthToken = strings.TrimSpace(c.Bridge.AuthToken)
	if c.Bridge.SearchLimit <= 0 {
		c.Bridge.SearchLimit = defaultSearchLimit
	}
	if c.Bridge.TimeoutSeconds <= 0 {
		c.Bridge.TimeoutSeconds = defaultTimeoutSeconds
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
