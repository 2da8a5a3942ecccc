package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/blinkreader/blink/internal/book"
	"github.com/blinkreader/blink/internal/engine"
	"github.com/blinkreader/blink/internal/extract"
	"github.com/blinkreader/blink/internal/freq"
	"github.com/blinkreader/blink/internal/library"
	"github.com/blinkreader/blink/internal/settings"
)

// session ties one open book to the engine and the stores behind it.
type session struct {
	eng      *engine.Engine
	book     *book.Book
	path     string // empty for stdin input
	hash     string // empty when no file identity exists
	store    *library.Store  // nil for stdin input or when the store failed to open
	settings *settings.Store // nil when the config dir is unusable
	resumed  bool            // a saved position was restored
	clamped  bool            // ...and had to be clamped to fit the book
}

// sessionOptions are the command-line knobs that shape a session.
type sessionOptions struct {
	wpm       int // 0 = use saved speed
	fresh     bool
	paragraph bool

	// nil = flag not given, keep the saved preference
	lengthDelay *bool
	freqDelay   *bool
}

// newSession extracts a book from path (or stdin when path is empty), wires
// up the engine with its settings provider and frequency table, and restores
// the saved reading position unless opts.fresh is set.
func newSession(path string, opts sessionOptions) (*session, error) {
	var b *book.Book
	var err error

	if path != "" {
		b, err = extract.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read '%s': %w", path, err)
		}
	} else {
		b, err = readStdin()
		if err != nil {
			return nil, err
		}
	}
	if !extract.Playable(b) {
		return nil, extract.ErrNoContent
	}

	sess := &session{book: b, path: path}

	// Settings are optional: an unusable config dir falls back to defaults.
	if st, err := settings.NewStore(); err == nil {
		sess.settings = st
	}

	if sess.settings != nil && (opts.lengthDelay != nil || opts.freqDelay != nil) {
		_ = sess.settings.Update(func(s *settings.Settings) {
			if opts.lengthDelay != nil {
				s.LengthDelayEnabled = *opts.lengthDelay
			}
			if opts.freqDelay != nil {
				s.FrequencyDelayEnabled = *opts.freqDelay
			}
		})
	}

	var provider engine.SettingsProvider
	if sess.settings != nil {
		provider = sess.settings.Timing
	}
	sess.eng = engine.New(provider, freq.NewTable().BucketMultiplier)

	if opts.wpm > 0 {
		sess.eng.SetWPM(opts.wpm)
	} else if sess.settings != nil {
		sess.eng.SetWPM(sess.settings.Current().WPM)
	}

	sess.eng.LoadBook(b)

	if path != "" {
		sess.attachLibrary(opts)
	}

	if opts.paragraph {
		sess.eng.SetViewMode(engine.ViewParagraph)
	}

	// Every pause is a checkpoint: end-of-book and explicit pause both land
	// here exactly once.
	sess.eng.OnStatusChange(func(st engine.Status) {
		if st == engine.StatusPaused {
			sess.saveCheckpoint()
		}
	})

	return sess, nil
}

// attachLibrary opens the library store, registers the book, and restores
// the saved checkpoint. Store failures leave the session working without
// persistence.
func (sess *session) attachLibrary(opts sessionOptions) {
	hash, err := library.ComputeHash(sess.path)
	if err != nil {
		return
	}
	store, err := library.Open(library.DefaultPath())
	if err != nil {
		return
	}
	sess.hash = hash
	sess.store = store

	ctx := context.Background()
	entry, found, err := store.Lookup(ctx, hash)

	if err == nil && found && !opts.fresh {
		// The book may have changed shape since the checkpoint was taken.
		pos, changed := sess.book.Clamp(entry.Position)
		sess.eng.SetPosition(pos)
		sess.resumed = entry.Position != (book.Position{})
		sess.clamped = changed
		if opts.wpm == 0 && entry.WPM > 0 {
			sess.eng.SetWPM(entry.WPM)
		}
	}

	_ = store.Upsert(ctx, library.Entry{
		Hash:     hash,
		Path:     sess.path,
		Title:    sess.book.Title,
		Author:   sess.book.Author,
		Position: sess.eng.Position(),
		WPM:      sess.eng.WPM(),
	})
}

// saveCheckpoint persists the current position and speed.
func (sess *session) saveCheckpoint() {
	if sess.store == nil || sess.hash == "" {
		return
	}
	_ = sess.store.SavePosition(context.Background(), sess.hash, sess.eng.Position(), sess.eng.WPM())
}

// setWPM applies a new speed to the engine and persists it as the default.
func (sess *session) setWPM(wpm int) {
	sess.eng.SetWPM(wpm)
	if sess.settings != nil {
		_ = sess.settings.SetWPM(wpm)
	}
}

// close checkpoints and releases the session's stores.
func (sess *session) close() {
	sess.eng.Pause()
	sess.saveCheckpoint()
	if sess.store != nil {
		sess.store.Close()
	}
}

// readStdin builds a book from piped input.
func readStdin() (*book.Book, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, fmt.Errorf("no input provided: give a file or pipe text to stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return extract.FromText("stdin", string(data)), nil
}
