// Package lua runs Lua plugins that add host commands and remappings.
//
// A plugin is a Lua script using the vimkeys module:
//
//	vimkeys.command("buffer.save", function(scope)
//	    vimkeys.log("saving " .. scope)
//	end)
//
//	vimkeys.remap("insert", "jj", "<Esc>")
//	vimkeys.remap("normal", "<leader>w", nil, {
//	    noremap = true,
//	    commands = { ":w", { command = "buffer.save", args = { "all" } } },
//	})
//
// Host implements remap.HostCommands: remappings that name a Lua command
// call its function with the remapping's arguments. Commands that no
// plugin defines go to an optional fallback. Remappings registered by
// scripts are merged into a configuration with Host.Apply.
//
// Scripts run in a sandbox without the io, os, debug and package
// libraries, and every call is bounded by a timeout.
package lua
