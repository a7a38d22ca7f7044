package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/vimkeys/internal/input/key"
	"github.com/dshills/vimkeys/internal/input/mode"
	"github.com/dshills/vimkeys/internal/input/remap"
)

// DefaultLeader is the leader key used when none is configured.
const DefaultLeader = `\`

// Table names as they appear in configuration files.
const (
	TableInsert             = "insertModeKeyBindings"
	TableInsertNonRecursive = "insertModeKeyBindingsNonRecursive"
	TableOther              = "otherModesKeyBindings"
	TableOtherNonRecursive  = "otherModesKeyBindingsNonRecursive"
)

// Config is a remapping configuration.
type Config struct {
	// Leader is the key that <leader> stands for.
	Leader string `toml:"leader" yaml:"leader"`

	InsertModeKeyBindings             []RemapEntry `toml:"insertModeKeyBindings" yaml:"insertModeKeyBindings"`
	InsertModeKeyBindingsNonRecursive []RemapEntry `toml:"insertModeKeyBindingsNonRecursive" yaml:"insertModeKeyBindingsNonRecursive"`
	OtherModesKeyBindings             []RemapEntry `toml:"otherModesKeyBindings" yaml:"otherModesKeyBindings"`
	OtherModesKeyBindingsNonRecursive []RemapEntry `toml:"otherModesKeyBindingsNonRecursive" yaml:"otherModesKeyBindingsNonRecursive"`

	// ImSwitch configures the input method switcher.
	ImSwitch ImSwitchConfig `toml:"imSwitch" yaml:"imSwitch"`
}

// RemapEntry is one remapping as written in a configuration file.
type RemapEntry struct {
	Before   []string       `toml:"before" yaml:"before"`
	After    []string       `toml:"after" yaml:"after"`
	Commands []CommandEntry `toml:"commands" yaml:"commands"`
}

// CommandEntry is a command run by a remapping.
type CommandEntry struct {
	Command string `toml:"command" yaml:"command"`
	Args    []any  `toml:"args" yaml:"args"`
}

// ImSwitchConfig configures the input method switcher. Empty commands
// fall back to mode.DefaultIMConfig.
type ImSwitchConfig struct {
	Enable bool     `toml:"enable" yaml:"enable"`
	Query  []string `toml:"query" yaml:"query"`
	Off    []string `toml:"off" yaml:"off"`
	On     []string `toml:"on" yaml:"on"`
}

// Default returns a configuration with the default leader and no
// remappings.
func Default() *Config {
	return &Config{Leader: DefaultLeader}
}

// IMConfig returns the switcher commands with defaults filled in.
func (c ImSwitchConfig) IMConfig() mode.IMConfig {
	cfg := mode.DefaultIMConfig()
	if len(c.Query) > 0 {
		cfg.Query = c.Query
	}
	if len(c.Off) > 0 {
		cfg.Off = c.Off
	}
	if len(c.On) > 0 {
		cfg.On = c.On
	}
	return cfg
}

// LeaderToken returns the leader as a key token.
func (c *Config) LeaderToken() (key.Token, error) {
	raw := c.Leader
	if raw == "" {
		raw = DefaultLeader
	}
	tok, err := key.Normalize(raw)
	if err != nil {
		return "", fmt.Errorf("leader: %w %q: %w", ErrInvalidKey, raw, err)
	}
	if tok.IsWildcard() {
		return "", fmt.Errorf("leader: %w %q: must be a literal key", ErrInvalidKey, raw)
	}
	return tok, nil
}

// Validate checks every entry and returns all problems joined.
func (c *Config) Validate() error {
	_, err := c.compile()
	return err
}

// Tables converts the configuration into remapper tables. <leader> in
// before and after keys is replaced by the leader key.
func (c *Config) Tables() (remap.Tables, error) {
	t, err := c.compile()
	if err != nil {
		return remap.Tables{}, err
	}
	return t, nil
}

// RemappingCount returns the number of entries across all tables.
func (c *Config) RemappingCount() int {
	return len(c.InsertModeKeyBindings) + len(c.InsertModeKeyBindingsNonRecursive) +
		len(c.OtherModesKeyBindings) + len(c.OtherModesKeyBindingsNonRecursive)
}

func (c *Config) compile() (remap.Tables, error) {
	var errs []error

	leader, err := c.LeaderToken()
	if err != nil {
		errs = append(errs, err)
		leader = key.Token(DefaultLeader)
	}

	var t remap.Tables
	t.Insert = compileTable(TableInsert, c.InsertModeKeyBindings, leader, &errs)
	t.InsertNonRecursive = compileTable(TableInsertNonRecursive, c.InsertModeKeyBindingsNonRecursive, leader, &errs)
	t.Other = compileTable(TableOther, c.OtherModesKeyBindings, leader, &errs)
	t.OtherNonRecursive = compileTable(TableOtherNonRecursive, c.OtherModesKeyBindingsNonRecursive, leader, &errs)

	return t, errors.Join(errs...)
}

func compileTable(table string, entries []RemapEntry, leader key.Token, errs *[]error) []remap.Remapping {
	out := make([]remap.Remapping, 0, len(entries))
	for i, e := range entries {
		fail := func(field string, err error) {
			*errs = append(*errs, &EntryError{Table: table, Index: i, Field: field, Err: err})
		}

		rm := remap.Remapping{}
		ok := true

		if len(e.Before) == 0 {
			fail("before", ErrEmptyBefore)
			ok = false
		}
		for j, raw := range e.Before {
			tok, err := remapToken(raw, leader)
			if err != nil {
				fail(fmt.Sprintf("before[%d]", j), err)
				ok = false
				continue
			}
			rm.Before = append(rm.Before, tok)
		}
		for j, raw := range e.After {
			tok, err := remapToken(raw, leader)
			if err != nil {
				fail(fmt.Sprintf("after[%d]", j), err)
				ok = false
				continue
			}
			rm.After = append(rm.After, tok)
		}
		for j, cmd := range e.Commands {
			if strings.TrimSpace(cmd.Command) == "" {
				fail(fmt.Sprintf("commands[%d]", j), ErrEmptyCommand)
				ok = false
				continue
			}
			rm.Commands = append(rm.Commands, remap.Command{ID: cmd.Command, Args: cmd.Args})
		}

		if ok {
			out = append(out, rm)
		}
	}
	return out
}

// remapToken parses one key of a remapping.
func remapToken(raw string, leader key.Token) (key.Token, error) {
	tok, err := key.Normalize(raw)
	if err != nil {
		if seq := key.ParseSequence(raw); len(seq) > 1 {
			return "", fmt.Errorf("%w %q: write one key per element, e.g. %q", ErrInvalidKey, raw, seq.Strings())
		}
		return "", fmt.Errorf("%w %q: %w", ErrInvalidKey, raw, err)
	}
	if tok == key.Leader {
		return leader, nil
	}
	if tok.IsWildcard() {
		return "", fmt.Errorf("%w %q: wildcards cannot be remapped", ErrInvalidKey, raw)
	}
	return tok, nil
}
