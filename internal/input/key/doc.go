// Package key defines keystroke tokens and key sequences.
//
// A Token is the unit the matcher and remappers work on: either a literal
// keystroke rendered in Vim notation ("j", "<C-u>", "<Esc>") or one of the
// wildcard classes used in action patterns:
//
//   - <any>: any single token
//   - <number>: a single ASCII digit
//   - <alpha>: a single ASCII letter
//   - <character>: any token that is not a control key
//   - <leader>: the configured leader token
//
// Terminal input arrives as Event values (key, rune, modifiers); Event.Token
// renders an event as the token the rest of the input system expects.
//
// # Key Notation
//
// ParseSequence splits continuous Vim notation into tokens:
//
//	ParseSequence("jj")        // ["j", "j"]
//	ParseSequence("<leader>w") // ["<leader>", "w"]
//	ParseSequence("d<C-v>j")   // ["d", "<C-v>", "j"]
//
// Normalize parses a single key specification ("<esc>", "Ctrl+U", "<c-u>")
// into its canonical token ("<Esc>", "<C-u>").
package key
