package mode

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"sync"
)

// Runner runs an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command and waits for it to exit.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// IMConfig names the commands used to drive the system input method.
// Each command is a program followed by its arguments.
type IMConfig struct {
	// Query exits non-zero while the input method is active.
	Query []string

	// Off turns the input method off.
	Off []string

	// On turns the input method back on.
	On []string
}

// DefaultIMConfig returns commands for the macOS "setime" helper.
func DefaultIMConfig() IMConfig {
	return IMConfig{
		Query: []string{"setime", "get"},
		Off:   []string{"setime", "off"},
		On:    []string{"setime", "on"},
	}
}

// IMSwitcher turns the input method off when insert mode is left and
// restores it when insert mode is entered again.
type IMSwitcher struct {
	mu     sync.Mutex
	config IMConfig
	runner Runner
	logger *slog.Logger

	// restoreOnInsert records that the input method was active when insert
	// mode was last left.
	restoreOnInsert bool
}

// NewIMSwitcher creates an input method switcher.
// A nil runner uses ExecRunner; a nil logger discards output.
func NewIMSwitcher(config IMConfig, runner Runner, logger *slog.Logger) *IMSwitcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &IMSwitcher{config: config, runner: runner, logger: logger}
}

// Attach registers the switcher on a mode manager.
// Returns a function that detaches it.
func (s *IMSwitcher) Attach(m *Manager) func() {
	return m.OnChange(s.ModeChanged)
}

// ModeChanged reacts to a transition between modes.
func (s *IMSwitcher) ModeChanged(from, to string) {
	switch {
	case from == ModeInsert:
		s.leaveInsert()
	case to == ModeInsert:
		s.enterInsert()
	}
}

func (s *IMSwitcher) leaveInsert() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	s.restoreOnInsert = false
	if err := s.run(ctx, s.config.Query); err != nil {
		s.restoreOnInsert = true
	}
	if err := s.run(ctx, s.config.Off); err != nil {
		s.logger.Warn("input method off failed", "error", err)
	}
}

func (s *IMSwitcher) enterInsert() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.restoreOnInsert {
		return
	}
	if err := s.run(context.Background(), s.config.On); err != nil {
		s.logger.Warn("input method on failed", "error", err)
	}
}

func (s *IMSwitcher) run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return nil
	}
	return s.runner.Run(ctx, argv[0], argv[1:]...)
}
