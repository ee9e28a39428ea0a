package core

import (
	"fmt"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// UpdateStrategy selects how remote changes are integrated.
type UpdateStrategy string

const (
	UpdateMerge  UpdateStrategy = "merge"
	UpdateRebase UpdateStrategy = "rebase"
)

// Settings holds the user-editable configuration of the adapter.
type Settings struct {
	GitExecutable      string            `yaml:"git_executable"`
	UpdateStrategy     UpdateStrategy    `yaml:"update_strategy"`
	StashOnUpdate      bool              `yaml:"stash_on_update"`
	AddConfirmation    ConfirmationValue `yaml:"add_confirmation"`
	DeleteConfirmation ConfirmationValue `yaml:"delete_confirmation"`
	Ignore             []string          `yaml:"ignore"`
	Debounce           time.Duration     `yaml:"debounce"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		GitExecutable:      "git",
		UpdateStrategy:     UpdateMerge,
		AddConfirmation:    ConfirmShow,
		DeleteConfirmation: ConfirmShow,
		Debounce:           50 * time.Millisecond,
	}
}

// Normalize fills empty fields with defaults.
func (s Settings) Normalize() Settings {
	d := DefaultSettings()
	if s.GitExecutable == "" {
		s.GitExecutable = d.GitExecutable
	}
	if s.UpdateStrategy == "" {
		s.UpdateStrategy = d.UpdateStrategy
	}
	if s.AddConfirmation == "" {
		s.AddConfirmation = d.AddConfirmation
	}
	if s.DeleteConfirmation == "" {
		s.DeleteConfirmation = d.DeleteConfirmation
	}
	if s.Debounce == 0 {
		s.Debounce = d.Debounce
	}
	return s
}

// Validate checks enumerations and ignore patterns.
func (s Settings) Validate() error {
	switch s.UpdateStrategy {
	case UpdateMerge, UpdateRebase:
	default:
		return fmt.Errorf("%w: unknown update strategy %q", ErrInvalidSettings, s.UpdateStrategy)
	}
	if _, err := ParseConfirmationValue(string(s.AddConfirmation)); err != nil {
		return err
	}
	if _, err := ParseConfirmationValue(string(s.DeleteConfirmation)); err != nil {
		return err
	}
	for _, p := range s.Ignore {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: bad ignore pattern %q", ErrInvalidSettings, p)
		}
	}
	if s.Debounce < 0 {
		return fmt.Errorf("%w: negative debounce", ErrInvalidSettings)
	}
	return nil
}

// Equal reports whether two settings are identical.
func (s Settings) Equal(o Settings) bool {
	return s.GitExecutable == o.GitExecutable &&
		s.UpdateStrategy == o.UpdateStrategy &&
		s.StashOnUpdate == o.StashOnUpdate &&
		s.AddConfirmation == o.AddConfirmation &&
		s.DeleteConfirmation == o.DeleteConfirmation &&
		s.Debounce == o.Debounce &&
		slices.Equal(s.Ignore, o.Ignore)
}
