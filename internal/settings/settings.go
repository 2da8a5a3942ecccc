// Package settings stores the reader's preferences and acts as the live
// settings provider for the playback engine: the engine pulls a fresh copy
// at every scheduling decision, so changes apply from the next word.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/blinkreader/blink/internal/timing"
)

const settingsFileName = "settings.json"

// Settings are the persisted reader preferences.
type Settings struct {
	WPM                   int     `json:"wpm"`
	LengthDelayEnabled    bool    `json:"length_delay_enabled"`
	LengthDelayFactor     float64 `json:"length_delay_factor"`
	FrequencyDelayEnabled bool    `json:"frequency_delay_enabled"`
	FrequencyDelayFactor  float64 `json:"frequency_delay_factor"`
}

// Defaults returns the out-of-the-box preferences.
func Defaults() Settings {
	return Settings{
		WPM:                  timing.DefaultWPM,
		LengthDelayFactor:    timing.DefaultLengthDelayFactor,
		FrequencyDelayFactor: timing.DefaultFrequencyDelayFactor,
	}
}

// Store manages persisted settings under the user config directory.
type Store struct {
	path string
	mu   sync.RWMutex
	s    Settings
}

// NewStore creates or loads settings from XDG_CONFIG_HOME/blink/.
func NewStore() (*Store, error) {
	dir := getConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, settingsFileName),
		s:    Defaults(),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with defaults
		store.s = Defaults()
	}
	return store, nil
}

// getConfigDir returns XDG_CONFIG_HOME/blink or ~/.config/blink
func getConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "blink")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "blink")
}

// Current returns a copy of the current settings.
func (st *Store) Current() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Timing returns the timing slice of the settings. This is the provider
// handed to the playback engine.
func (st *Store) Timing() timing.Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return timing.Settings{
		LengthDelayEnabled:    st.s.LengthDelayEnabled,
		LengthDelayFactor:     st.s.LengthDelayFactor,
		FrequencyDelayEnabled: st.s.FrequencyDelayEnabled,
		FrequencyDelayFactor:  st.s.FrequencyDelayFactor,
	}
}

// SetWPM persists a new speed. The value should already be adjusted via
// timing.ClampWPM.
func (st *Store) SetWPM(wpm int) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.WPM = wpm
	return st.save()
}

// Update applies fn to the settings, sanitizes the result, and persists it.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.s)
	st.s = sanitize(st.s)
	return st.save()
}

func (st *Store) load() error {
	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	s := Defaults()
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	st.s = sanitize(s)
	return nil
}

func (st *Store) save() error {
	data, err := json.MarshalIndent(st.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(st.path, data, 0644)
}

// sanitize clamps persisted values into their documented ranges.
func sanitize(s Settings) Settings {
	if s.WPM == 0 {
		s.WPM = timing.DefaultWPM
	}
	s.WPM = timing.ClampWPM(s.WPM)
	s.LengthDelayFactor = clampFloat(s.LengthDelayFactor, 0, 0.5)
	s.FrequencyDelayFactor = clampFloat(s.FrequencyDelayFactor, 0, 1)
	return s
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
