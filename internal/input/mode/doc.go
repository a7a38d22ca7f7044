// Package mode provides the modal editing states used to gate actions and
// remappings.
//
// Modes are identified by name (ModeNormal, ModeInsert, ...). A Set is the
// group of modes an action or remapper applies to. The Manager tracks the
// current mode and notifies callbacks on every transition; the IMSwitcher
// is one such callback, toggling the system input method when insert mode
// is entered or left.
//
// # Mode Lifecycle
//
// When switching modes:
//  1. The current mode becomes the previous mode
//  2. The new mode becomes current
//  3. Mode change callbacks are notified outside the lock
package mode
