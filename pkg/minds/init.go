package minds

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jingkaihe/mindreg/pkg/logger"
	"github.com/spf13/viper"
)

// Config holds registry configuration read from viper under the "minds" key.
type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	Dirs          []string      `mapstructure:"dirs"`
	Strategy      string        `mapstructure:"strategy"`
	Allowed       []string      `mapstructure:"allowed"`
	ScriptTimeout time.Duration `mapstructure:"script_timeout"`
}

// DefaultConfig returns the configuration used when nothing is set:
// repo-local minds take precedence over user-global ones.
func DefaultConfig() Config {
	config := Config{
		Enabled:       true,
		Dirs:          []string{"./.mindreg/minds"},
		Strategy:      string(ConflictFirst),
		ScriptTimeout: DefaultScriptTimeout,
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		config.Dirs = append(config.Dirs, filepath.Join(homeDir, ".mindreg", "minds"))
	}

	return config
}

func loadConfig(ctx context.Context) Config {
	config := DefaultConfig()

	if viper.IsSet("minds") {
		if err := viper.UnmarshalKey("minds", &config); err != nil {
			logger.G(ctx).WithError(err).Warn("Failed to load minds config, using defaults")
		}
	}

	// UnmarshalKey does not see flag-bound subkeys, so consult them directly
	if dirs := viper.GetStringSlice("minds.dirs"); len(dirs) > 0 {
		config.Dirs = dirs
	}
	if strategy := viper.GetString("minds.strategy"); strategy != "" {
		config.Strategy = strategy
	}

	return config
}

// Setup builds and installs the process-wide registry from configuration
// and CLI flags. It respects the --no-minds flag (bound to no_minds in
// viper) and minds.enabled. Returns the registry and whether minds are
// enabled.
func Setup(ctx context.Context) (*Registry, bool) {
	if viper.GetBool("no_minds") {
		return nil, false
	}

	config := loadConfig(ctx)
	if !config.Enabled {
		return nil, false
	}

	strategy, err := ParseConflictStrategy(config.Strategy)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("Invalid conflict strategy, falling back to first-wins")
		strategy = ConflictFirst
	}

	providers := make([]Provider, 0, len(config.Dirs))
	for _, dir := range config.Dirs {
		var provider Provider = NewDirProvider(dir, WithScriptTimeout(config.ScriptTimeout))
		provider = FilterByAllowlist(provider, config.Allowed)
		providers = append(providers, provider)
	}

	registry, err := InitMindRegistry(ctx, providers, WithConflictStrategy(strategy))
	if err != nil {
		logger.G(ctx).WithError(err).Debug("Failed to initialize mind registry")
		return nil, false
	}

	return registry, true
}

// FilterByAllowlist wraps a provider so that only allowed mind names are
// visible. An empty allowlist returns the provider unchanged. The wrapper
// preserves the script-execution capability of the wrapped provider.
func FilterByAllowlist(provider Provider, allowed []string) Provider {
	if len(allowed) == 0 {
		return provider
	}

	set := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		set[name] = struct{}{}
	}

	filtered := &allowedProvider{inner: provider, allowed: set}
	if runner, ok := provider.(ScriptExecutor); ok {
		return &allowedScriptProvider{allowedProvider: filtered, runner: runner}
	}
	return filtered
}

type allowedProvider struct {
	inner   Provider
	allowed map[string]struct{}
}

func (p *allowedProvider) Name() string {
	return p.inner.Name()
}

func (p *allowedProvider) Discover(ctx context.Context) ([]MindMetadata, error) {
	discovered, err := p.inner.Discover(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]MindMetadata, 0, len(discovered))
	for _, md := range discovered {
		if _, ok := p.allowed[md.Name]; ok {
			filtered = append(filtered, md)
		}
	}
	return filtered, nil
}

func (p *allowedProvider) LoadMind(ctx context.Context, name string) (*Mind, bool) {
	if _, ok := p.allowed[name]; !ok {
		return nil, false
	}
	return p.inner.LoadMind(ctx, name)
}

func (p *allowedProvider) HasMind(name string) bool {
	if _, ok := p.allowed[name]; !ok {
		return false
	}
	return p.inner.HasMind(name)
}

func (p *allowedProvider) ReadResource(ctx context.Context, name, relPath string) (string, bool) {
	if _, ok := p.allowed[name]; !ok {
		return "", false
	}
	return p.inner.ReadResource(ctx, name, relPath)
}

type allowedScriptProvider struct {
	*allowedProvider
	runner ScriptExecutor
}

func (p *allowedScriptProvider) ExecuteScript(ctx context.Context, name, scriptPath string, args []string) *ScriptResult {
	if _, ok := p.allowed[name]; !ok {
		return scriptFailure("mind '%s' not found", name)
	}
	return p.runner.ExecuteScript(ctx, name, scriptPath, args)
}
