package settings

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	settingsObject   = "transform2d"
	settingsProperty = "settings"
)

// Manager loads and saves Settings through gdata. A nil gdata manager keeps
// the settings in memory only.
type Manager struct {
	gdataManager *gdata.Manager
	settings     *Settings
}

// NewManager creates a manager and loads any saved settings. A failed load
// is logged and leaves the defaults in place.
func NewManager(gdataManager *gdata.Manager) *Manager {
	m := &Manager{
		gdataManager: gdataManager,
		settings:     Default(),
	}
	if err := m.Load(); err != nil {
		log.Printf("[settings] failed to load settings: %v (using defaults)", err)
	}
	return m
}

// Load replaces the current settings with the saved ones, or the defaults
// when nothing was saved yet.
func (m *Manager) Load() error {
	if m.gdataManager == nil || !m.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		m.settings = Default()
		return nil
	}

	data, err := m.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		m.settings = Default()
		return fmt.Errorf("load settings: %w", err)
	}

	loaded := Default()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		m.settings = Default()
		return fmt.Errorf("unmarshal settings: %w", err)
	}
	m.settings = loaded
	return nil
}

func (m *Manager) Save() error {
	if m.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := m.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	log.Printf("[settings] saved")
	return nil
}

// Settings returns the live settings. Changes are persisted by Save.
func (m *Manager) Settings() *Settings {
	if m == nil {
		return Default()
	}
	return m.settings
}

// Update applies fn to the live settings and saves them.
func (m *Manager) Update(fn func(*Settings)) error {
	if m == nil {
		return nil
	}
	fn(m.settings)
	return m.Save()
}

// Reset restores the defaults and saves them.
func (m *Manager) Reset() error {
	if m == nil {
		return nil
	}
	m.settings = Default()
	return m.Save()
}
