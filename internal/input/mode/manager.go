package mode

import (
	"fmt"
	"sync"
)

// ChangeCallback is called when the mode changes.
type ChangeCallback func(from, to string)

// Manager tracks the current mode and coordinates mode transitions.
type Manager struct {
	mu sync.RWMutex

	// known holds the modes that may be switched to.
	known Set

	// current is the active mode.
	current string

	// previous is the mode before the current one.
	previous string

	// callbacks are notified on mode changes.
	callbacks []ChangeCallback
}

// NewManager creates a manager starting in initial.
// Any standard mode is accepted; extra names register custom modes.
func NewManager(initial string, extra ...string) (*Manager, error) {
	m := &Manager{known: Union(All, NewSet(extra...))}
	if !m.known.Contains(initial) {
		return nil, fmt.Errorf("unknown mode: %s", initial)
	}
	m.current = initial
	return m, nil
}

// Current returns the name of the current mode.
func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the mode before the current one.
// Returns empty string if there was no transition yet.
func (m *Manager) Previous() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// Switch changes to a different mode.
// Switching to the current mode is a no-op and does not notify callbacks.
func (m *Manager) Switch(name string) error {
	m.mu.Lock()

	if !m.known.Contains(name) {
		m.mu.Unlock()
		return fmt.Errorf("unknown mode: %s", name)
	}
	if name == m.current {
		m.mu.Unlock()
		return nil
	}

	from := m.current
	m.previous = from
	m.current = name

	// Copy callbacks to call outside of lock
	callbacks := make([]ChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(from, name)
		}
	}
	return nil
}

// OnChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (m *Manager) OnChange(callback ChangeCallback) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Remove callback by setting to nil (preserves indices)
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}

// IsAnyMode returns true if the current mode is in the set.
func (m *Manager) IsAnyMode(set Set) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return set.Contains(m.current)
}
