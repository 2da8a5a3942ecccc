//go:build !gui

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinkreader/blink/internal/book"
	"github.com/blinkreader/blink/internal/engine"
)

// isolateDirs points both stores at temp directories.
func isolateDirs(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
}

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewSession(t *testing.T) {
	isolateDirs(t)
	path := writeTestFile(t, "One two three.\n\nFour five.")

	sess, err := newSession(path, sessionOptions{wpm: 500})
	require.NoError(t, err)
	defer sess.close()

	assert.Equal(t, engine.StatusReady, sess.eng.Status())
	assert.Equal(t, book.Position{}, sess.eng.Position())
	assert.Equal(t, 500, sess.eng.WPM())
	assert.Equal(t, 5, sess.book.TotalWords())
	assert.NotEmpty(t, sess.hash)
}

func TestSessionResumesPosition(t *testing.T) {
	isolateDirs(t)
	path := writeTestFile(t, "One two three.\n\nFour five.")

	sess1, err := newSession(path, sessionOptions{})
	require.NoError(t, err)
	sess1.eng.SetPosition(book.Position{Paragraph: 1, Word: 1})
	sess1.close()

	sess2, err := newSession(path, sessionOptions{})
	require.NoError(t, err)
	defer sess2.close()

	assert.Equal(t, book.Position{Paragraph: 1, Word: 1}, sess2.eng.Position())
	assert.True(t, sess2.resumed)
	assert.False(t, sess2.clamped)
}

func TestSessionTracksFileByContent(t *testing.T) {
	isolateDirs(t)
	content := "One two three.\n\nFour five six seven."
	path := writeTestFile(t, content)

	sess1, err := newSession(path, sessionOptions{})
	require.NoError(t, err)
	sess1.eng.SetPosition(book.Position{Paragraph: 1, Word: 3})
	sess1.close()

	// Same content under a different name resumes from the same checkpoint.
	moved := filepath.Join(t.TempDir(), "renamed.txt")
	require.NoError(t, os.WriteFile(moved, []byte(content), 0644))
	sess2, err := newSession(moved, sessionOptions{})
	require.NoError(t, err)
	defer sess2.close()

	assert.Equal(t, book.Position{Paragraph: 1, Word: 3}, sess2.eng.Position())
	assert.True(t, sess2.resumed)
	assert.False(t, sess2.clamped)
}

func TestSessionFreshIgnoresCheckpoint(t *testing.T) {
	isolateDirs(t)
	path := writeTestFile(t, "One two three.\n\nFour five.")

	sess1, err := newSession(path, sessionOptions{})
	require.NoError(t, err)
	sess1.eng.SetPosition(book.Position{Paragraph: 1, Word: 1})
	sess1.close()

	sess2, err := newSession(path, sessionOptions{fresh: true})
	require.NoError(t, err)
	defer sess2.close()

	assert.Equal(t, book.Position{}, sess2.eng.Position())
	assert.False(t, sess2.resumed)
}

func TestSessionDelayFlags(t *testing.T) {
	isolateDirs(t)
	path := writeTestFile(t, "One two three.")

	on := true
	sess, err := newSession(path, sessionOptions{lengthDelay: &on, freqDelay: &on})
	require.NoError(t, err)
	sess.close()

	// The toggles persist and survive the next session.
	sess2, err := newSession(path, sessionOptions{})
	require.NoError(t, err)
	defer sess2.close()

	cur := sess2.settings.Current()
	assert.True(t, cur.LengthDelayEnabled)
	assert.True(t, cur.FrequencyDelayEnabled)
}

func TestSessionRejectsEmptyInput(t *testing.T) {
	isolateDirs(t)
	path := writeTestFile(t, "   \n\n   ")

	_, err := newSession(path, sessionOptions{})
	assert.Error(t, err)
}

func TestAnchorWord(t *testing.T) {
	w := book.NewWord("hello") // recognition offset 1
	got := anchorWord("hello", w, 40)
	wantPad := 40/2 - 1
	assert.Equal(t, strings.Repeat(" ", wantPad)+"hello", got)

	// Narrow windows never produce negative padding.
	got = anchorWord("hello", w, 0)
	assert.Equal(t, "hello", got)
}

func TestFormatWordBounds(t *testing.T) {
	// Words whose recognition offset falls on punctuation still render.
	for _, text := range []string{"", "a", "—", "don't", "hello."} {
		assert.NotPanics(t, func() {
			formatWord(book.NewWord(text))
		})
	}
}
