package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/vimkeys/internal/config"
	"github.com/dshills/vimkeys/internal/input"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/macro"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/terminal"
)

// QuitKey ends the run command.
const QuitKey key.Token = "<C-q>"

// shownRows is the number of recent keys drawn by the run command.
const shownRows = 12

type runOptions struct {
	initialMode string
	macrosPath  string
	noWatch     bool

	// openTerminal opens the screen; tests substitute a simulation screen.
	openTerminal func() (*terminal.Terminal, error)
}

func newRunCommand(opts *Options) *cobra.Command {
	ro := &runOptions{openTerminal: terminal.Open}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Type keys interactively and watch them resolve",
		Long: `Open an interactive screen that shows the mode, the pending command
and how every key resolved. The configuration file is reloaded when it
changes. Macros are kept between runs. Press Ctrl-Q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runInteractive(ctx, opts, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.initialMode, "mode", "m", "normal", "Mode to start in")
	cmd.Flags().StringVar(&ro.macrosPath, "macros", "", "Macro file (default: ~/.config/vimkeys/macros.json)")
	cmd.Flags().BoolVar(&ro.noWatch, "no-watch", false, "Do not reload the configuration file on change")
	return cmd
}

func runInteractive(ctx context.Context, opts *Options, ro *runOptions) error {
	logger := opts.Logger()

	sim := newSimEditor(logger)
	env, err := loadEnvironment(ctx, opts, simCommands{sim})
	if err != nil {
		return err
	}
	defer env.Close()

	h, err := newSimHandler(env, sim, ro.initialMode)
	if err != nil {
		return err
	}

	macrosPath := ro.macrosPath
	if macrosPath == "" {
		if macrosPath, err = macro.DefaultMacrosPath(); err != nil {
			return err
		}
	}
	if err := macro.Load(sim.recorder, macrosPath); err != nil {
		logger.Warn("macros not loaded", "path", macrosPath, "error", err)
	}
	defer func() {
		if err := macro.Save(sim.recorder, macrosPath); err != nil {
			logger.Error("macros not saved", "path", macrosPath, "error", err)
		}
	}()

	if env.config.ImSwitch.Enable {
		sw := mode.NewIMSwitcher(env.config.ImSwitch.IMConfig(), nil, logger)
		defer sw.Attach(h.ModeManager())()
	}

	reloads := make(chan *config.Config, 1)
	if env.path != "" && !ro.noWatch {
		w, err := config.NewWatcher(env.path, func(cfg *config.Config) {
			// Keep only the newest configuration.
			select {
			case <-reloads:
			default:
			}
			reloads <- cfg
		},
			config.WithWatchLogger(logger),
			config.WithErrorHandler(func(err error) {
				logger.Warn("keeping previous configuration", "error", err)
			}),
		)
		if err != nil {
			logger.Warn("configuration not watched", "path", env.path, "error", err)
		} else {
			defer w.Close()
		}
	}

	term, err := ro.openTerminal()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer term.Close()

	events := make(chan key.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(events)
		for {
			ev, ok := term.ReadKey()
			if !ok {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	sim.onUpdate = func() { term.Draw(screenLines(h, sim, env)) }
	term.Draw(screenLines(h, sim, env))

	for {
		select {
		case <-ctx.Done():
			return nil

		case cfg := <-reloads:
			if err := env.apply(cfg); err != nil {
				sim.message("reload failed: " + err.Error())
				break
			}
			h.SetChain(env.chain(sim))
			sim.message(fmt.Sprintf("configuration reloaded (%d remappings)", env.config.RemappingCount()))

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Token() == QuitKey {
				return nil
			}
			if _, err := h.HandleEvent(ctx, ev); err != nil {
				if errors.Is(err, input.ErrRemapDepth) {
					h.Reset()
				}
				sim.message("error: " + err.Error())
			}
		}
		term.Draw(screenLines(h, sim, env))
	}
}

// screenLines renders the state of the run command.
func screenLines(h *input.Handler, sim *simEditor, env *environment) []string {
	s := h.Session()
	lines := []string{
		fmt.Sprintf("vimkeys  session %s  -- %s --", s.ID.String()[:8], mode.DisplayName(h.CurrentMode())),
		fmt.Sprintf("leader %s  remappings %d  plugins %d", displayKey(env.leader), env.config.RemappingCount(), len(env.host.Commands())),
	}

	status := "pending: " + h.PendingKeys()
	if reg := sim.recorder.Register(); reg != 0 {
		status += fmt.Sprintf("  recording @%c", reg)
	}
	lines = append(lines, status)
	if h.CurrentMode() == mode.ModeCommand {
		lines = append(lines, ":"+string(sim.cmdline))
	}
	lines = append(lines, "text: "+strings.ReplaceAll(sim.Text(), "\n", "⏎"), "")

	rows := sim.rows
	if len(rows) > shownRows {
		rows = rows[len(rows)-shownRows:]
	}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-10s %-16s %-14s %-28s %s", displayKey(r.Key), r.Mode, r.Status, r.Action, r.note()))
	}

	lines = append(lines, "")
	msgs := sim.messages
	if len(msgs) > 3 {
		msgs = msgs[len(msgs)-3:]
	}
	lines = append(lines, msgs...)

	m := h.Metrics().Snapshot()
	lines = append(lines, fmt.Sprintf("keys %d  remaps %d  matched %d  waiting %d  unmatched %d  avg %s  p99 %s",
		m.KeysTotal, m.RemapsTotal, m.MatchedTotal, m.WaitingTotal, m.NoMatchTotal, m.AvgKeyLatency, m.P99KeyLatency))
	lines = append(lines, "Ctrl-Q quits")
	return lines
}
