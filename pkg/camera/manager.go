package camera

import (
	"fmt"
	"strings"
	"sync"

	"github.com/teslashibe/go-theta/pkg/theta"
)

// Manager holds the current capture defaults and handles updates.
type Manager struct {
	options theta.Options
	preset  string
	mu      sync.RWMutex

	// Callback when the defaults change
	OnChange func(o theta.Options) error
}

// NewManager creates a manager with the default preset.
func NewManager() *Manager {
	return &Manager{
		options: DefaultOptions(),
		preset:  PresetDefault,
	}
}

// Options returns the current defaults.
func (m *Manager) Options() theta.Options {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.options
}

// Preset returns the name of the preset the defaults started from, or ""
// once they were replaced wholesale.
func (m *Manager) Preset() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preset
}

// Apply returns the defaults with o overlaid, for one capture.
func (m *Manager) Apply(o theta.Options) theta.Options {
	return m.Options().Merge(o)
}

// SetOptions replaces the defaults.
func (m *Manager) SetOptions(o theta.Options) error {
	return m.set(o, "")
}

// Update switches to a preset (if name is non-empty) and overlays o.
func (m *Manager) Update(name string, o theta.Options) error {
	base := m.Options()
	preset := m.Preset()
	if name != "" {
		p := GetPreset(name)
		if p == nil {
			return fmt.Errorf("unknown preset: %s", name)
		}
		base, preset = *p, name
	}
	return m.set(base.Merge(o), preset)
}

func (m *Manager) set(o theta.Options, preset string) error {
	if errs := Validate(o); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
	}

	m.mu.Lock()
	m.options = o
	m.preset = preset
	callback := m.OnChange
	m.mu.Unlock()

	if callback != nil {
		if err := callback(o); err != nil {
			return fmt.Errorf("failed to apply options: %w", err)
		}
	}
	return nil
}
