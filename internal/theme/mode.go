package theme

import (
	"fmt"
	"strconv"

	"github.com/teemow/calgrid/internal/prefs"
)

// DarkModeKey is the preference key holding the dark mode flag as
// "true" or "false".
const DarkModeKey = "isDarkMode"

// Mode selects which palette is active.
type Mode int

const (
	Light Mode = iota
	Dark
)

func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Flag is the persisted form of m.
func (m Mode) Flag() string {
	return strconv.FormatBool(m == Dark)
}

// ModeFromFlag parses a persisted flag. Only the exact string "true"
// means Dark.
func ModeFromFlag(v string) Mode {
	if v == "true" {
		return Dark
	}
	return Light
}

// LoadMode reads the persisted mode. A missing entry means Light.
func LoadMode(s prefs.Store) (Mode, error) {
	v, ok, err := s.Get(DarkModeKey)
	if err != nil {
		return Light, fmt.Errorf("failed to read %s: %w", DarkModeKey, err)
	}
	if !ok {
		return Light, nil
	}
	return ModeFromFlag(v), nil
}

// SaveMode persists m.
func SaveMode(s prefs.Store, m Mode) error {
	if err := s.Set(DarkModeKey, m.Flag()); err != nil {
		return fmt.Errorf("failed to write %s: %w", DarkModeKey, err)
	}
	return nil
}

// ToggleMode flips the persisted mode and returns the new one.
func ToggleMode(s prefs.Store) (Mode, error) {
	m, err := LoadMode(s)
	if err != nil {
		return Light, err
	}
	next := m.Toggle()
	if err := SaveMode(s, next); err != nil {
		return m, err
	}
	return next, nil
}
