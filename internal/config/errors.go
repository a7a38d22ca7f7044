package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidKey indicates a key that is not a single token in Vim notation.
	ErrInvalidKey = errors.New("invalid key")

	// ErrEmptyBefore indicates a remapping without trigger keys.
	ErrEmptyBefore = errors.New("remapping has no before keys")

	// ErrEmptyCommand indicates a command entry without a command name.
	ErrEmptyCommand = errors.New("command entry has no command")

	// ErrUnknownFormat indicates a file extension no loader handles.
	ErrUnknownFormat = errors.New("unknown config format")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// EntryError locates an invalid remapping entry.
type EntryError struct {
	// Table is the table name, e.g. "insertModeKeyBindings".
	Table string
	// Index is the entry's position in the table.
	Index int
	// Field is the offending field, e.g. "before[1]".
	Field string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s[%d]: %v", e.Table, e.Index, e.Err)
	}
	return fmt.Sprintf("%s[%d].%s: %v", e.Table, e.Index, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *EntryError) Unwrap() error {
	return e.Err
}
