// Package config loads the remapping configuration.
//
// A configuration names the leader key and four remapping tables, one per
// remapper in the chain:
//
//	leader = "<Space>"
//
//	[[insertModeKeyBindings]]
//	before = ["j", "j"]
//	after  = ["<Esc>"]
//
//	[[otherModesKeyBindingsNonRecursive]]
//	before   = ["<leader>", "w"]
//	commands = [{ command = ":w" }]
//
// Files are TOML or YAML, chosen by extension. Every key is written as one
// token in Vim notation ("j", "<C-u>", "<leader>"). Validate reports all
// invalid entries at once, and Tables converts a valid configuration into
// the tables remap.NewChain expects.
//
// Watcher reloads a configuration file when it changes. Remappers read
// their table once, so the host builds a new chain from each reloaded
// configuration.
package config
