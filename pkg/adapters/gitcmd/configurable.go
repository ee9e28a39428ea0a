package gitcmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/gitvcs/pkg/core"
)

// SettingsFile is the settings file name inside the .git directory.
const SettingsFile = "gitvcs.yaml"

// SettingsStore persists settings as YAML.
type SettingsStore struct {
	Path string
}

// NewSettingsStore returns the store for the repository at root.
func NewSettingsStore(root string) *SettingsStore {
	return &SettingsStore{Path: filepath.Join(root, core.GitDir, SettingsFile)}
}

// Load reads the settings file. A missing file yields the defaults.
func (s *SettingsStore) Load() (core.Settings, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, err
	}

	var settings core.Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return core.Settings{}, fmt.Errorf("%w: %s: %v", core.ErrInvalidSettings, s.Path, err)
	}
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return core.Settings{}, fmt.Errorf("%s: %w", s.Path, err)
	}
	return settings, nil
}

// Save writes settings atomically.
func (s *SettingsStore) Save(settings core.Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.Path, data, 0644)
}

// Configurable stages settings edits and persists them on Apply.
type Configurable struct {
	store *SettingsStore

	mu      sync.Mutex
	current core.Settings
	pending core.Settings
	onApply []func(core.Settings)
}

// NewConfigurable creates the settings capability starting from current.
func NewConfigurable(store *SettingsStore, current core.Settings) *Configurable {
	current = current.Normalize()
	return &Configurable{store: store, current: current, pending: current}
}

// DisplayName returns the name shown for the settings page.
func (c *Configurable) DisplayName() string {
	return core.Name
}

// Settings returns the applied settings.
func (c *Configurable) Settings() core.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Edit validates s and stages it.
func (c *Configurable) Edit(s core.Settings) error {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = s
	return nil
}

// IsModified reports whether staged edits differ from the applied settings.
func (c *Configurable) IsModified() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.pending.Equal(c.current)
}

// OnApply registers fn to receive the settings after every successful Apply.
func (c *Configurable) OnApply(fn func(core.Settings)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onApply = append(c.onApply, fn)
}

// Apply persists the staged settings and hands them to the OnApply callbacks.
func (c *Configurable) Apply() error {
	c.mu.Lock()
	if c.store != nil {
		if err := c.store.Save(c.pending); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}
	c.current = c.pending
	applied := c.current
	hooks := slices.Clone(c.onApply)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn(applied)
	}
	return nil
}

// Reset discards staged edits.
func (c *Configurable) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = c.current
}
