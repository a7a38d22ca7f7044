package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dshills/vimkeys/internal/config"
	"github.com/dshills/vimkeys/internal/input/action"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/remap"
	"github.com/dshills/vimkeys/internal/plugin/lua"
)

// environment is everything a command needs to resolve keys.
type environment struct {
	// path is the configuration file, empty when running on defaults.
	path     string
	config   *config.Config
	leader   key.Token
	tables   remap.Tables
	registry *action.Registry
	host     *lua.Host
	logger   *slog.Logger
}

// resolveConfigPath returns the configuration file to load. An explicit
// path must exist; the default path is used only when present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadConfig loads path, or the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

// loadEnvironment loads the configuration and the plugins. Commands the
// plugins do not define go to fallback.
func loadEnvironment(ctx context.Context, opts *Options, fallback remap.HostCommands) (*environment, error) {
	logger := opts.Logger()

	path := resolveConfigPath(opts.ConfigPath)
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	host := lua.NewHost(lua.WithLogger(logger), lua.WithFallback(fallback))
	for _, p := range opts.Plugins {
		if err := host.LoadFile(ctx, p); err != nil {
			host.Close()
			return nil, fmt.Errorf("plugin %s: %w", p, err)
		}
		logger.Debug("plugin loaded", "path", p)
	}

	env := &environment{path: path, host: host, logger: logger}
	if err := env.apply(cfg); err != nil {
		host.Close()
		return nil, err
	}
	env.registry = action.NewRegistry(env.leader, action.Defaults()...)
	return env, nil
}

// apply merges the plugin remappings into cfg and compiles it. The
// environment is left untouched when cfg is invalid; the error then joins
// every problem found.
func (e *environment) apply(cfg *config.Config) error {
	e.host.Apply(cfg)

	tables, err := cfg.Tables()
	if err != nil {
		return err
	}
	leader, err := cfg.LeaderToken()
	if err != nil {
		return err
	}

	e.config = cfg
	e.leader = leader
	e.tables = tables
	return nil
}

// chain builds a remapper chain over the compiled tables.
func (e *environment) chain(cmdline remap.CommandLine) *remap.Chain {
	return remap.NewChain(e.tables,
		remap.WithCommandLine(cmdline),
		remap.WithHostCommands(e.host),
		remap.WithLogger(e.logger),
	)
}

func (e *environment) Close() error {
	return e.host.Close()
}
