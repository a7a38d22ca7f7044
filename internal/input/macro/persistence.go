package macro

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/vimkeys/internal/input/key"
)

// persistedMacro stores one register in Vim key notation.
type persistedMacro struct {
	Register string `json:"register"`
	Keys     string `json:"keys"`
}

// persistedData is the root structure for macro persistence.
type persistedData struct {
	Version int              `json:"version"`
	SavedAt time.Time        `json:"saved_at"`
	Macros  []persistedMacro `json:"macros"`
}

const currentVersion = 1

// Save writes all registers to path.
// The file is written atomically using a temporary file and rename.
func Save(recorder *Recorder, path string) error {
	data := persistedData{
		Version: currentVersion,
		SavedAt: time.Now(),
	}
	for _, reg := range recorder.Registers() {
		data.Macros = append(data.Macros, persistedMacro{
			Register: string(reg),
			Keys:     recorder.Get(reg).String(),
		})
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal macros: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads registers from path into recorder. A missing file loads
// nothing.
func Load(recorder *Recorder, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read macros file: %w", err)
	}

	var data persistedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to unmarshal macros: %w", err)
	}
	if data.Version > currentVersion {
		return fmt.Errorf("unsupported macros file version: %d (max supported: %d)",
			data.Version, currentVersion)
	}

	for _, m := range data.Macros {
		regs := []rune(m.Register)
		if len(regs) != 1 || !IsValidRegister(regs[0]) {
			continue
		}
		if err := recorder.Set(regs[0], key.ParseSequence(m.Keys)); err != nil {
			return err
		}
	}
	return nil
}

// DefaultMacrosPath returns the default path for storing macros,
// ~/.config/vimkeys/macros.json on Unix-like systems.
func DefaultMacrosPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "vimkeys", "macros.json"), nil
}
