// Package macro provides Vim-style macro recording and playback.
//
// Keys are recorded to named registers (a-z, 0-9) while the user types
// and replayed through the input handler with an optional repeat count.
// Recording with an uppercase register (qA) appends to the lowercase one.
//
// The Recorder is an input hook: register it with the handler's hook
// manager and it captures every typed key between "q{register}" and the
// closing "q". Keys replayed by remappings or by macro playback are not
// recorded.
//
//	rec := macro.NewRecorder()
//	h.Hooks().RegisterWithOptions(rec, "macro", input.HookPriorityHighest)
//	player := macro.NewPlayer(rec)
//
//	// in the executor:
//	case action.KindRecordMacro:
//	    rec.Start(register)
//	case action.KindPlayMacro:
//	    player.Play(ctx, register, count, h)
//
// # Persistence
//
// Registers can be saved to and loaded from a JSON file holding each
// macro in Vim key notation.
package macro
