// Package cli implements the vimkeys command line.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// Build information, set at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Options holds the global flags shared by every subcommand.
type Options struct {
	ConfigPath string
	LogLevel   string
	Plugins    []string

	logger *slog.Logger
}

// Logger returns the logger configured from --log-level.
func (o *Options) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "vimkeys",
		Short: "vimkeys - Vim keybindings, remappings and macros",
		Long: `vimkeys resolves Vim-style keypresses into actions. It applies the
four remapping tables of a configuration file, runs Lua plugin commands
and records macros.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLogLevel(opts.LogLevel)
			if err != nil {
				return err
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Remapping configuration file (default: ~/.config/vimkeys/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringSliceVar(&opts.Plugins, "plugin", nil, "Lua plugin file to load (repeatable)")

	cmd.AddCommand(newResolveCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newActionsCommand(opts))
	cmd.AddCommand(newRunCommand(opts))

	return cmd
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", s)
	}
}
