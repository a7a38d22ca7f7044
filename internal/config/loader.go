package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file format.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// DefaultPath returns the default configuration path,
// ~/.config/vimkeys/config.toml on Unix-like systems.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "vimkeys", "config.toml"), nil
}

// LoadFile reads and parses the configuration at path. The result is not
// validated.
func LoadFile(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data, format)
}

// LoadReader parses a configuration from r.
func LoadReader(r io.Reader, format Format) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data, format)
}

// parse decodes data over the defaults. Unknown fields are rejected so
// misspelled table names do not go unnoticed.
func parse(source string, data []byte, format Format) (*Config, error) {
	cfg := Default()

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, tomlParseError(source, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, yamlParseError(source, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return cfg, nil
}

func tomlParseError(source string, err error) error {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		pe.Line, pe.Column = decodeErr.Position()
	}
	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) {
		pe.Message = strings.TrimSpace(strictErr.String())
	}
	return pe
}

func yamlParseError(source string, err error) error {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	// yaml.v3 reports syntax errors as "yaml: line N: message".
	var line int
	if n, _ := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); n == 1 {
		pe.Line = line
		pe.Message = strings.TrimPrefix(err.Error(), fmt.Sprintf("yaml: line %d: ", line))
	}
	return pe
}
