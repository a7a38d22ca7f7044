// Package remap intercepts keys that trigger user-defined remappings
// before they reach action resolution.
//
// A Remapper owns one table of remappings, the modes it listens in and a
// recursion policy. In insert mode a remapping may be typed after
// arbitrary text ("hello jj"): successively longer trailing windows of
// the keys are tried. In other modes the keys must equal a remapping's
// trigger exactly.
//
// When a remapping fires, the keys of its trigger that were already
// committed are removed from the session (and, in insert mode, the text
// they inserted is reverted); the replacement keys are then replayed
// through the ModeHandler and any commands are run in order.
//
// A Chain consults four remappers in a fixed priority order:
//
//  1. insert mode, recursive
//  2. other modes, recursive
//  3. insert mode, non-recursive
//  4. other modes, non-recursive
//
// # Recursion
//
// Keys replayed by a non-recursive remapping carry a marker in their
// context (see IsRemapping). The mode handler must not send such keys
// through the remappers again.
package remap
