// Package timing converts a word and the reader's speed settings into a
// display duration.
package timing

import (
	"time"
	"unicode"
	"unicode/utf8"
)

// WPM bounds and defaults. The playback engine does not clamp speed values
// itself; callers adjust through ClampWPM before handing a value over.
const (
	MinWPM     = 100
	MaxWPM     = 1000
	DefaultWPM = 300
	WPMStep    = 25
)

// Default factors for the optional delay components.
const (
	DefaultLengthDelayFactor    = 0.1
	DefaultFrequencyDelayFactor = 0.3
)

// Settings are the per-reader knobs for the optional delay components. The
// punctuation pause is not represented here: it is part of baseline
// readability and always applies.
type Settings struct {
	LengthDelayEnabled    bool
	LengthDelayFactor     float64 // sane range [0, 0.5]
	FrequencyDelayEnabled bool
	FrequencyDelayFactor  float64 // sane range [0, 1]
}

// DefaultSettings returns the out-of-the-box settings: both optional
// components disabled but with usable factors preconfigured.
func DefaultSettings() Settings {
	return Settings{
		LengthDelayFactor:    DefaultLengthDelayFactor,
		FrequencyDelayFactor: DefaultFrequencyDelayFactor,
	}
}

// Lookup maps a normalized (lowercase, letters-only) word to a rarity bucket
// multiplier in [0, 1]. Implementations must be pure and must return 0
// rather than fail when they have no data.
type Lookup func(normalized string) float64

// punctuationDelays maps a word's final rune to the multiplier applied on
// top of the base duration.
var punctuationDelays = map[rune]float64{
	',': 0.75,
	';': 0.75,
	':': 0.75,
	'.': 1.5,
	'!': 1.5,
	'?': 1.5,
	'—': 1.0,
	'-': 0.25,
}

// Delay returns how long the given word should stay on screen at the given
// speed. The base duration (60000/wpm ms) is always included, plus a
// punctuation pause keyed on the final rune, plus the optional length and
// frequency components when enabled in s. lookup may be nil, which disables
// the frequency component regardless of settings.
func Delay(word string, wpm int, s Settings, lookup Lookup) time.Duration {
	base := 60000.0 / float64(wpm)
	total := base

	if last, size := utf8.DecodeLastRuneInString(word); size > 0 {
		total += base * punctuationDelays[last]
	}

	if s.LengthDelayEnabled {
		if extra := alphanumericLength(word) - 5; extra > 0 {
			total += float64(extra) * s.LengthDelayFactor * base
		}
	}

	if s.FrequencyDelayEnabled && lookup != nil {
		total += lookup(NormalizeWord(word)) * s.FrequencyDelayFactor * base
	}

	return time.Duration(total * float64(time.Millisecond))
}

// ClampWPM rounds n to the nearest WPMStep and clamps it into
// [MinWPM, MaxWPM].
func ClampWPM(n int) int {
	n = (n + WPMStep/2) / WPMStep * WPMStep
	if n < MinWPM {
		return MinWPM
	}
	if n > MaxWPM {
		return MaxWPM
	}
	return n
}

// NormalizeWord lowercases a word and drops everything but letters, the form
// frequency tables are keyed on.
func NormalizeWord(word string) string {
	out := make([]rune, 0, utf8.RuneCountInString(word))
	for _, r := range word {
		if unicode.IsLetter(r) {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// alphanumericLength counts the letters and digits in word, the effective
// length used by the length-delay component.
func alphanumericLength(word string) int {
	n := 0
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
