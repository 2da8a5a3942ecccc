package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinkreader/blink/internal/timing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	store, err := NewStore()
	require.NoError(t, err)

	s := store.Current()
	assert.Equal(t, timing.DefaultWPM, s.WPM)
	assert.False(t, s.LengthDelayEnabled)
	assert.False(t, s.FrequencyDelayEnabled)
	assert.Equal(t, timing.DefaultLengthDelayFactor, s.LengthDelayFactor)
	assert.Equal(t, timing.DefaultFrequencyDelayFactor, s.FrequencyDelayFactor)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	store1, err := NewStore()
	require.NoError(t, err)
	require.NoError(t, store1.SetWPM(450))
	require.NoError(t, store1.Update(func(s *Settings) {
		s.LengthDelayEnabled = true
		s.LengthDelayFactor = 0.2
	}))

	store2, err := NewStore()
	require.NoError(t, err)
	s := store2.Current()
	assert.Equal(t, 450, s.WPM)
	assert.True(t, s.LengthDelayEnabled)
	assert.Equal(t, 0.2, s.LengthDelayFactor)
}

func TestTimingSlice(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	store, err := NewStore()
	require.NoError(t, err)
	require.NoError(t, store.Update(func(s *Settings) {
		s.FrequencyDelayEnabled = true
		s.FrequencyDelayFactor = 0.4
	}))

	ts := store.Timing()
	assert.True(t, ts.FrequencyDelayEnabled)
	assert.Equal(t, 0.4, ts.FrequencyDelayFactor)
	assert.False(t, ts.LengthDelayEnabled)
}

func TestSanitizeClampsFactors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	store, err := NewStore()
	require.NoError(t, err)
	require.NoError(t, store.Update(func(s *Settings) {
		s.LengthDelayFactor = 0.9  // above the documented ceiling
		s.FrequencyDelayFactor = -1
		s.WPM = 9999
	}))

	s := store.Current()
	assert.Equal(t, 0.5, s.LengthDelayFactor)
	assert.Equal(t, 0.0, s.FrequencyDelayFactor)
	assert.Equal(t, timing.MaxWPM, s.WPM)
}

func TestCorruptFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "blink", "settings.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store, err := NewStore()
	require.NoError(t, err)
	assert.Equal(t, timing.DefaultWPM, store.Current().WPM)
}
