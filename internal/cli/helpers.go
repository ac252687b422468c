package cli

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/narget/internal/logger"
	"github.com/glorpus-work/narget/pkg/cache"
	"github.com/glorpus-work/narget/pkg/config"
	"github.com/glorpus-work/narget/pkg/download"
	"github.com/glorpus-work/narget/pkg/fetch"
	"github.com/glorpus-work/narget/pkg/hooks"
	"github.com/glorpus-work/narget/pkg/orchestrator"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
)

// Endpoints is the binary cache list handed to the resolver, in query order. It is not read
// from the configuration file.
var Endpoints = cache.DefaultEndpoints

// loadConfig loads the configuration from --config or the default location and applies the
// logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	logger.InitLogger(cfg.Settings.LogLevel, logger.OutputFormat(strings.ToLower(cfg.Settings.LogFormat)))

	return cfg, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path, using config.yaml", logger.Fields{"error": err})
		return "config.yaml"
	}
	return defaultPath
}

func newHTTPClient(cfg *config.Config) *download.Client {
	userAgent := cfg.Settings.UserAgent
	if userAgent == "" {
		userAgent = "narget/" + Version
	}
	return download.NewClient(cfg.Settings.HTTPTimeout, userAgent)
}

func newResolver(cfg *config.Config) *cache.Resolver {
	return cache.NewResolver(Endpoints, newHTTPClient(cfg))
}

// loadOrchestrator wires the resolver, fetcher and hooks described by cfg.
func loadOrchestrator(cfg *config.Config, events orchestrator.Hooks) (*orchestrator.Orchestrator, error) {
	client := newHTTPClient(cfg)

	orch := &orchestrator.Orchestrator{
		Resolver: cache.NewResolver(Endpoints, client),
		Opener:   fetch.NewFetcher(client),
		Hooks:    events,
	}

	if cfg.Hooks.PostExtract != "" {
		manager := hooks.NewHookManager()
		if err := hooks.LoadHookFile(manager, hooks.PostExtract, cfg.Hooks.PostExtract); err != nil {
			return nil, err
		}
		orch.HookRunner = manager
	}

	return orch, nil
}

func fetchOptions(cfg *config.Config) orchestrator.Options {
	return orchestrator.Options{
		ResultsDir:            cfg.Settings.ResultsDir,
		SkipUnresolvableLinks: cfg.Settings.SkipUnresolvableLinks,
		MaxDepth:              cfg.Settings.MaxDepth,
	}
}
