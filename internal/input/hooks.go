package input

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/state"
)

// Hook allows interception of keys.
type Hook interface {
	// PreKey is called before a key is processed.
	// Return true to consume the key (stop further processing).
	PreKey(k key.Token, s *state.Session) bool

	// PostKey is called after a key was processed.
	PostKey(k key.Token, out Outcome, s *state.Session)
}

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager manages hooks with priorities and named registration.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	sorted  bool
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{enabled: true}
}

// Register adds a hook with default priority.
func (m *HookManager) Register(hook Hook) HookID {
	return m.RegisterWithOptions(hook, "", HookPriorityNormal)
}

// RegisterWithOptions adds a named hook with a priority. A hook
// registered under an existing name replaces it.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name != "" {
		m.removeLocked(func(r HookRegistration) bool { return r.Name == name })
	}

	m.nextID++
	m.hooks = append(m.hooks, HookRegistration{
		ID:       m.nextID,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	m.sorted = false
	return m.nextID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(func(r HookRegistration) bool { return r.ID == id })
}

// UnregisterByName removes a hook by name.
func (m *HookManager) UnregisterByName(name string) bool {
	if name == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(func(r HookRegistration) bool { return r.Name == name })
}

func (m *HookManager) removeLocked(match func(HookRegistration) bool) bool {
	for i := range m.hooks {
		if match(m.hooks[i]) {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// snapshot returns the hooks in priority order, or nil when disabled.
func (m *HookManager) snapshot() []Hook {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled || len(m.hooks) == 0 {
		return nil
	}
	if !m.sorted {
		sort.SliceStable(m.hooks, func(i, j int) bool {
			return m.hooks[i].Priority < m.hooks[j].Priority
		})
		m.sorted = true
	}

	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	return hooks
}

// RunPreKey runs all PreKey hooks in priority order.
// Returns true if any hook consumed the key.
func (m *HookManager) RunPreKey(k key.Token, s *state.Session) bool {
	for _, hook := range m.snapshot() {
		if hook.PreKey(k, s) {
			return true
		}
	}
	return false
}

// RunPostKey runs all PostKey hooks in priority order.
func (m *HookManager) RunPostKey(k key.Token, out Outcome, s *state.Session) {
	for _, hook := range m.snapshot() {
		hook.PostKey(k, out, s)
	}
}

// FuncHook wraps functions into a Hook.
type FuncHook struct {
	PreKeyFunc  func(key.Token, *state.Session) bool
	PostKeyFunc func(key.Token, Outcome, *state.Session)
}

// PreKey calls PreKeyFunc if set.
func (h FuncHook) PreKey(k key.Token, s *state.Session) bool {
	if h.PreKeyFunc != nil {
		return h.PreKeyFunc(k, s)
	}
	return false
}

// PostKey calls PostKeyFunc if set.
func (h FuncHook) PostKey(k key.Token, out Outcome, s *state.Session) {
	if h.PostKeyFunc != nil {
		h.PostKeyFunc(k, out, s)
	}
}

// LoggingHook logs every key and its outcome at debug level.
type LoggingHook struct {
	Logger *slog.Logger
}

// PreKey logs the key.
func (h LoggingHook) PreKey(k key.Token, s *state.Session) bool {
	if h.Logger != nil {
		h.Logger.Debug("key", "key", k.String(), "mode", s.Mode, "session", s.ID)
	}
	return false
}

// PostKey logs the outcome.
func (h LoggingHook) PostKey(k key.Token, out Outcome, s *state.Session) {
	if h.Logger == nil {
		return
	}
	attrs := []any{"key", k.String(), "status", out.Status.String(), "session", s.ID}
	if out.Action != nil {
		attrs = append(attrs, "action", string(out.Action.Kind))
	}
	if out.Remapped {
		attrs = append(attrs, "remapped", true)
	}
	h.Logger.Debug("key handled", attrs...)
}

// FilterHook consumes keys rejected by a predicate.
type FilterHook struct {
	// Block returns true to consume a key.
	Block func(key.Token, *state.Session) bool
}

// PreKey applies the filter.
func (h FilterHook) PreKey(k key.Token, s *state.Session) bool {
	return h.Block != nil && h.Block(k, s)
}

// PostKey is a no-op.
func (FilterHook) PostKey(key.Token, Outcome, *state.Session) {}
