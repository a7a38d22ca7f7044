// Package input turns keystrokes into remappings and editor actions.
//
// # Architecture
//
// The input system consists of several cooperating packages:
//
//   - key: key tokens, sequences and Vim key notation
//   - mode: mode names, mode sets and the mode manager
//   - pattern: key patterns with wildcards and the leader key
//   - action: the action registry and resolution
//   - remap: user-defined remappings and the remapper chain
//   - state: the per-session pending command and key history
//
// # Pipeline
//
// For every key the Handler:
//
//  1. runs PreKey hooks, which may consume the key
//  2. offers the key to the remapper chain (unless a non-recursive
//     remapping is being replayed)
//  3. commits the key to the pending command
//  4. accumulates count digits outside insert mode
//  5. resolves the pending command against the registry
//
// A matched action is passed to the Executor and the pending command is
// cleared. Keys that can never match are dropped; in insert mode they are
// inserted as text instead. Otherwise the handler waits for more keys.
//
// # Usage
//
//	reg := action.NewRegistry(`\`, action.Defaults()...)
//	chain := remap.NewChain(tables, remap.WithHostCommands(host))
//	h, err := input.NewHandler(input.DefaultConfig(), reg,
//	    input.WithChain(chain), input.WithExecutor(exec))
//
//	for ev := range keyEvents {
//	    if _, err := h.HandleEvent(ctx, ev); err != nil {
//	        ...
//	    }
//	}
package input
