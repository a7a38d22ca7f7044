package lua

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vimkeys/internal/config"
	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/remap"
)

// ModuleName is the global table scripts use.
const ModuleName = "vimkeys"

// Option configures a Host.
type Option func(*Host)

// WithTimeout bounds every script run and command call.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithFallback handles commands no plugin defines.
func WithFallback(c remap.HostCommands) Option {
	return func(h *Host) {
		h.fallback = c
	}
}

// WithLogger sets the logger used by vimkeys.log and for command calls.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// Host runs Lua plugins and serves their commands.
type Host struct {
	state    *State
	fallback remap.HostCommands
	logger   *slog.Logger
	timeout  time.Duration

	// mu guards the registrations below. It is never held while Lua runs.
	mu       sync.Mutex
	commands map[string]*lua.LFunction
	remaps   map[string][]config.RemapEntry
}

var _ remap.HostCommands = (*Host)(nil)

// NewHost creates a host with an empty sandboxed state.
func NewHost(opts ...Option) *Host {
	h := &Host{
		commands: make(map[string]*lua.LFunction),
		remaps:   make(map[string][]config.RemapEntry),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h.state = NewState(h.timeout)
	h.state.L.SetGlobal(ModuleName, h.state.L.SetFuncs(h.state.L.NewTable(), map[string]lua.LGFunction{
		"command": h.luaCommand,
		"remap":   h.luaRemap,
		"log":     h.luaLog,
	}))
	return h
}

// LoadFile runs a plugin script.
func (h *Host) LoadFile(ctx context.Context, path string) error {
	if err := h.state.DoFile(ctx, path); err != nil {
		return fmt.Errorf("loading plugin %s: %w", path, err)
	}
	h.logger.Debug("plugin loaded", "path", path, "commands", len(h.Commands()))
	return nil
}

// LoadString runs plugin code.
func (h *Host) LoadString(ctx context.Context, code string) error {
	if err := h.state.DoString(ctx, code); err != nil {
		return fmt.Errorf("loading plugin: %w", err)
	}
	return nil
}

// Execute runs the command registered as id with args. Unknown commands
// go to the fallback.
func (h *Host) Execute(ctx context.Context, id string, args []any) error {
	h.mu.Lock()
	fn, ok := h.commands[id]
	h.mu.Unlock()

	if !ok {
		if h.fallback != nil {
			return h.fallback.Execute(ctx, id, args)
		}
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}

	h.logger.Debug("lua command", "id", id, "args", args)
	if err := h.state.CallFunction(ctx, fn, args...); err != nil {
		return fmt.Errorf("lua command %s: %w", id, err)
	}
	return nil
}

// HasCommand reports whether a plugin defines id.
func (h *Host) HasCommand(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.commands[id]
	return ok
}

// Commands returns the sorted names of plugin commands.
func (h *Host) Commands() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply appends the remappings registered by plugins to cfg's tables.
func (h *Host) Apply(cfg *config.Config) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cfg.InsertModeKeyBindings = append(cfg.InsertModeKeyBindings, h.remaps[config.TableInsert]...)
	cfg.InsertModeKeyBindingsNonRecursive = append(cfg.InsertModeKeyBindingsNonRecursive, h.remaps[config.TableInsertNonRecursive]...)
	cfg.OtherModesKeyBindings = append(cfg.OtherModesKeyBindings, h.remaps[config.TableOther]...)
	cfg.OtherModesKeyBindingsNonRecursive = append(cfg.OtherModesKeyBindingsNonRecursive, h.remaps[config.TableOtherNonRecursive]...)
}

// State returns the host's Lua state.
func (h *Host) State() *State {
	return h.state
}

// Close releases the Lua state.
func (h *Host) Close() error {
	return h.state.Close()
}

// luaCommand implements vimkeys.command(name, fn).
func (h *Host) luaCommand(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if strings.TrimSpace(name) == "" {
		L.ArgError(1, "command name is empty")
	}
	if strings.HasPrefix(name, ":") {
		L.ArgError(1, "names starting with ':' are command-line commands")
	}

	h.mu.Lock()
	h.commands[name] = fn
	h.mu.Unlock()
	return 0
}

// luaRemap implements vimkeys.remap(mode, before, after[, opts]).
func (h *Host) luaRemap(L *lua.LState) int {
	table := remapTable(L, L.CheckString(1), false)
	entry := config.RemapEntry{
		Before: keyList(L, 2),
		After:  keyList(L, 3),
	}

	if opts := L.OptTable(4, nil); opts != nil {
		if lua.LVAsBool(opts.RawGetString("noremap")) {
			table = remapTable(L, L.CheckString(1), true)
		}
		if cmds, ok := opts.RawGetString("commands").(*lua.LTable); ok {
			entry.Commands = commandList(L, cmds)
		}
	}
	if len(entry.Before) == 0 {
		L.ArgError(2, "before keys are empty")
	}

	h.mu.Lock()
	h.remaps[table] = append(h.remaps[table], entry)
	h.mu.Unlock()
	return 0
}

// luaLog implements vimkeys.log(message).
func (h *Host) luaLog(L *lua.LState) int {
	h.logger.Info(L.CheckString(1), "source", "lua")
	return 0
}

// remapTable maps a mode name to a configuration table.
func remapTable(L *lua.LState, modeName string, noremap bool) string {
	var insert bool
	switch strings.ToLower(modeName) {
	case "insert", "i":
		insert = true
	case "normal", "visual", "other", "n", "v":
	default:
		L.ArgError(1, fmt.Sprintf("unknown mode %q", modeName))
	}

	switch {
	case insert && noremap:
		return config.TableInsertNonRecursive
	case insert:
		return config.TableInsert
	case noremap:
		return config.TableOtherNonRecursive
	}
	return config.TableOther
}

// keyList reads keys given as Vim notation ("<leader>w") or as a list
// of single keys.
func keyList(L *lua.LState, n int) []string {
	switch v := L.Get(n).(type) {
	case *lua.LNilType:
		return nil
	case lua.LString:
		return key.ParseSequence(string(v)).Strings()
	case *lua.LTable:
		keys := make([]string, 0, v.Len())
		for i := 1; i <= v.Len(); i++ {
			keys = append(keys, v.RawGetInt(i).String())
		}
		return keys
	}
	L.ArgError(n, "keys must be a string or a list")
	return nil
}

// commandList reads commands given as names or {command=, args=} tables.
func commandList(L *lua.LState, t *lua.LTable) []config.CommandEntry {
	var cmds []config.CommandEntry
	for i := 1; i <= t.Len(); i++ {
		switch v := t.RawGetInt(i).(type) {
		case lua.LString:
			cmds = append(cmds, config.CommandEntry{Command: string(v)})
		case *lua.LTable:
			entry := config.CommandEntry{Command: lua.LVAsString(v.RawGetString("command"))}
			if args, ok := ToGoValue(v.RawGetString("args")).([]any); ok {
				entry.Args = args
			}
			cmds = append(cmds, entry)
		default:
			L.ArgError(4, "commands must be names or tables")
		}
	}
	return cmds
}
