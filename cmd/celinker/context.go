package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"celinker/internal/audit"
	"celinker/internal/bridge"
	"celinker/internal/config"
	"celinker/internal/linker"
	"celinker/internal/logging"
	"celinker/internal/partnum"
	"celinker/internal/rules"
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

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ruleset() (*rules.Ruleset, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Rules.Path == "" {
		return rules.Default(), nil
	}
	ruleset, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, fmt.Errorf("load ruleset: %w", err)
	}
	return ruleset, nil
}

func (c *commandContext) bridgeClient() (*bridge.HTTPClient, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: time.Duration(cfg.Bridge.TimeoutSeconds) * time.Second}
	return bridge.New(cfg.Bridge.BaseURL,
		bridge.WithHTTPClient(httpClient),
		bridge.WithAuthToken(cfg.Bridge.AuthToken))
}

func (c *commandContext) openAuditStore() (*audit.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := audit.Open(cfg.AuditDBPath())
	if err != nil {
		return nil, fmt.Errorf("open audit store: %w", err)
	}
	return store, nil
}

// newLinker assembles the pipeline with the audit store attached as
// recorder. The caller owns the returned store and must close it.
func (c *commandContext) newLinker() (*linker.Linker, *audit.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	ruleset, err := c.ruleset()
	if err != nil {
		return nil, nil, err
	}
	client, err := c.bridgeClient()
	if err != nil {
		return nil, nil, err
	}
	store, err := c.openAuditStore()
	if err != nil {
		return nil, nil, err
	}

	l, err := linker.New(client,
		linker.WithDeriver(partnum.NewDeriver(ruleset)),
		linker.WithSearchLimit(cfg.Bridge.SearchLimit),
		linker.WithLogger(logger),
		linker.WithRecorder(store))
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return l, store, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
