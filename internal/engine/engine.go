// Package engine implements the RSVP playback state machine: it tracks where
// the reader is in a book, schedules word advances using the timing model,
// and multicasts change notifications to subscribers.
package engine

import (
	"sync"
	"time"

	"github.com/blinkreader/blink/internal/book"
	"github.com/blinkreader/blink/internal/timing"
)

// Status is the playback lifecycle state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
)

// ViewMode selects how the current position is presented.
type ViewMode string

const (
	ViewRSVP      ViewMode = "rsvp"
	ViewParagraph ViewMode = "paragraph"
)

// SettingsProvider returns the current timing settings. The engine never
// caches the result; it is queried fresh at every scheduling decision so
// settings changes take effect on the next word.
type SettingsProvider func() timing.Settings

// WordInfo is the current word plus the denormalized context a display layer
// needs to render it.
type WordInfo struct {
	Word           book.Word
	Position       book.Position
	ChapterTitle   string
	WordCount      int // words in the current paragraph
	ParagraphCount int // paragraphs in the current chapter
	ChapterCount   int // chapters in the book
}

// Engine is the stateful playback orchestrator. It is the sole owner of its
// state; external code reads through accessors or reacts to notifications.
// All methods are safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	book     *book.Book
	pos      book.Position
	wpm      int
	status   Status
	viewMode ViewMode

	settings SettingsProvider
	lookup   timing.Lookup

	// At most one scheduled continuation exists at a time. timerGen is
	// bumped on every cancel/arm so a continuation that already fired but
	// has not yet run recognizes it is stale.
	timer    *time.Timer
	timerGen uint64

	wordFeed   feed[book.Position]
	statusFeed feed[Status]
	viewFeed   feed[ViewMode]
}

// New creates an idle engine. settings and lookup may be nil, in which case
// defaults (default timing settings, no frequency data) are used.
func New(settings SettingsProvider, lookup timing.Lookup) *Engine {
	if settings == nil {
		settings = timing.DefaultSettings
	}
	if lookup == nil {
		lookup = func(string) float64 { return 0 }
	}
	return &Engine{
		wpm:      timing.DefaultWPM,
		status:   StatusIdle,
		viewMode: ViewRSVP,
		settings: settings,
		lookup:   lookup,
	}
}

// OnWordChange subscribes to position changes. The returned func detaches
// the callback.
func (e *Engine) OnWordChange(fn func(book.Position)) func() {
	return e.wordFeed.subscribe(fn)
}

// OnStatusChange subscribes to status changes.
func (e *Engine) OnStatusChange(fn func(Status)) func() {
	return e.statusFeed.subscribe(fn)
}

// OnViewModeChange subscribes to view mode changes.
func (e *Engine) OnViewModeChange(fn func(ViewMode)) func() {
	return e.viewFeed.subscribe(fn)
}

// LoadBook replaces the current book, cancelling any running playback and
// resetting the position to the book's first word. Status becomes ready and
// both a status-change and a word-change notification fire.
func (e *Engine) LoadBook(b *book.Book) {
	e.mu.Lock()
	e.cancelLocked()
	e.book = b
	e.pos = book.Position{}
	changed := e.status != StatusReady
	e.status = StatusReady
	e.mu.Unlock()

	if changed {
		e.statusFeed.publish(StatusReady)
	}
	e.wordFeed.publish(book.Position{})
}

// Play starts playback. It is effective only from ready or paused; calling
// it while already playing (or with no book loaded) is a no-op and never
// arms a second continuation.
func (e *Engine) Play() {
	e.mu.Lock()
	if e.book == nil || (e.status != StatusReady && e.status != StatusPaused) {
		e.mu.Unlock()
		return
	}
	e.status = StatusPlaying
	e.armLocked()
	e.mu.Unlock()

	e.statusFeed.publish(StatusPlaying)
}

// Pause cancels the pending continuation and, if playback was running, moves
// to paused. Pausing when not playing is a no-op: the second of two
// back-to-back Pause calls produces no notification.
func (e *Engine) Pause() {
	e.mu.Lock()
	e.cancelLocked()
	wasPlaying := e.status == StatusPlaying
	if wasPlaying {
		e.status = StatusPaused
	}
	e.mu.Unlock()

	if wasPlaying {
		e.statusFeed.publish(StatusPaused)
	}
}

// Toggle pauses when playing, otherwise plays.
func (e *Engine) Toggle() {
	e.mu.Lock()
	playing := e.status == StatusPlaying
	e.mu.Unlock()
	if playing {
		e.Pause()
	} else {
		e.Play()
	}
}

// NextWord advances by exactly one word, crossing paragraph and chapter
// boundaries. At the end of the book the position is unchanged. A
// word-change notification fires either way. Playback status is untouched;
// if playing, the continuation is re-armed for the new current word.
func (e *Engine) NextWord() {
	e.navigate(func() (book.Position, bool) {
		next, ok := e.book.Advance(e.pos)
		if !ok {
			return e.pos, true
		}
		return next, true
	})
}

// PrevWord retreats by exactly one word; a no-op at the start of the book.
// A word-change notification fires either way.
func (e *Engine) PrevWord() {
	e.navigate(func() (book.Position, bool) {
		return e.book.Retreat(e.pos), true
	})
}

// RestartParagraph moves to the first word of the current paragraph.
func (e *Engine) RestartParagraph() {
	e.navigate(func() (book.Position, bool) {
		return book.Position{Chapter: e.pos.Chapter, Paragraph: e.pos.Paragraph}, true
	})
}

// GoToChapter jumps to the first word of chapter c. Out-of-range requests
// are silently ignored.
func (e *Engine) GoToChapter(c int) {
	e.navigate(func() (book.Position, bool) {
		return e.book.ChapterStart(c)
	})
}

// NextChapter jumps to the start of the following chapter; ignored at the
// last chapter.
func (e *Engine) NextChapter() {
	e.navigate(func() (book.Position, bool) {
		return e.book.ChapterStart(e.pos.Chapter + 1)
	})
}

// PrevChapter jumps to the start of the preceding chapter; ignored at the
// first chapter.
func (e *Engine) PrevChapter() {
	e.navigate(func() (book.Position, bool) {
		return e.book.ChapterStart(e.pos.Chapter - 1)
	})
}

// SetPosition moves to an explicit position. The position must be fully
// valid for the loaded book; invalid requests leave the engine untouched and
// fire no notification.
func (e *Engine) SetPosition(p book.Position) {
	e.navigate(func() (book.Position, bool) {
		if !e.book.Valid(p) {
			return book.Position{}, false
		}
		return p, true
	})
}

// navigate runs a position computation under the engine lock with the
// pending continuation cancelled first, then notifies. ok=false means the
// request was invalid: nothing changes and nothing fires. Playback status is
// never altered; a running playback is re-armed at the new position.
func (e *Engine) navigate(move func() (book.Position, bool)) {
	e.mu.Lock()
	if e.book == nil {
		e.mu.Unlock()
		return
	}
	e.cancelLocked()
	next, ok := move()
	if !ok {
		if e.status == StatusPlaying {
			e.armLocked()
		}
		e.mu.Unlock()
		return
	}
	e.pos = next
	if e.status == StatusPlaying {
		e.armLocked()
	}
	e.mu.Unlock()

	e.wordFeed.publish(next)
}

// SetViewMode switches the presentation mode. Switching to paragraph view
// while playing pauses first; switching to the current mode is a no-op.
func (e *Engine) SetViewMode(m ViewMode) {
	e.mu.Lock()
	if e.viewMode == m {
		e.mu.Unlock()
		return
	}
	paused := false
	if m == ViewParagraph && e.status == StatusPlaying {
		e.cancelLocked()
		e.status = StatusPaused
		paused = true
	}
	e.viewMode = m
	e.mu.Unlock()

	if paused {
		e.statusFeed.publish(StatusPaused)
	}
	e.viewFeed.publish(m)
}

// SetWPM sets the playback speed. No clamping happens here; callers are
// expected to pass values already adjusted via timing.ClampWPM. Takes effect
// when the next word is scheduled.
func (e *Engine) SetWPM(n int) {
	e.mu.Lock()
	e.wpm = n
	e.mu.Unlock()
}

// WPM returns the current playback speed.
func (e *Engine) WPM() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wpm
}

// Status returns the current playback status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// ViewMode returns the current presentation mode.
func (e *Engine) ViewMode() ViewMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewMode
}

// Position returns the current reading position.
func (e *Engine) Position() book.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos
}

// Book returns the loaded book, or nil.
func (e *Engine) Book() *book.Book {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book
}

// CurrentWordInfo returns the current word with its display context. ok is
// false when no book is loaded or the position does not resolve to a word,
// which should not happen while the position invariant holds.
func (e *Engine) CurrentWordInfo() (WordInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.book == nil || !e.book.Valid(e.pos) {
		return WordInfo{}, false
	}
	ch := e.book.Chapters[e.pos.Chapter]
	para := ch.Paragraphs[e.pos.Paragraph]
	return WordInfo{
		Word:           para.Words[e.pos.Word],
		Position:       e.pos,
		ChapterTitle:   ch.Title,
		WordCount:      len(para.Words),
		ParagraphCount: len(ch.Paragraphs),
		ChapterCount:   len(e.book.Chapters),
	}, true
}

// cancelLocked invalidates and stops any pending continuation. Must be
// called with e.mu held.
func (e *Engine) cancelLocked() {
	e.timerGen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// armLocked schedules the continuation for the current word, pulling live
// settings from the provider. Must be called with e.mu held and only after
// cancelLocked (directly or via the generation bump in cancelLocked) has
// retired the previous continuation.
func (e *Engine) armLocked() {
	word := ""
	if e.book != nil && e.book.Valid(e.pos) {
		word = e.book.Chapters[e.pos.Chapter].Paragraphs[e.pos.Paragraph].Words[e.pos.Word].Text
	}
	delay := timing.Delay(word, e.wpm, e.settings(), e.lookup)
	e.timerGen++
	gen := e.timerGen
	e.timer = time.AfterFunc(delay, func() { e.step(gen) })
}

// step is the scheduled continuation: advance one word, notify, and re-arm
// while still playing. Reaching the end of the book pauses instead.
func (e *Engine) step(gen uint64) {
	e.mu.Lock()
	if gen != e.timerGen || e.status != StatusPlaying {
		e.mu.Unlock()
		return
	}
	next, ok := e.book.Advance(e.pos)
	if !ok {
		e.timer = nil
		e.status = StatusPaused
		e.mu.Unlock()
		e.statusFeed.publish(StatusPaused)
		return
	}
	e.pos = next
	e.armLocked()
	e.mu.Unlock()

	e.wordFeed.publish(next)
}
