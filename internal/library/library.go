// Package library persists library metadata and reading checkpoints in a
// SQLite database. Books are identified by a content hash so a renamed or
// moved file keeps its reading position.
package library

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/blinkreader/blink/internal/book"
)

const hashBytes = 8192 // first 8KB identifies the file

// Entry is one book in the library with its last reading checkpoint.
type Entry struct {
	ID         string
	Hash       string
	Path       string
	Title      string
	Author     string
	Position   book.Position
	WPM        int
	LastReadAt time.Time
}

// Store is a SQLite-backed library. Safe for concurrent use through the
// underlying *sql.DB.
type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	content_hash TEXT UNIQUE NOT NULL,
	path TEXT NOT NULL,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	chapter_index INTEGER NOT NULL DEFAULT 0,
	paragraph_index INTEGER NOT NULL DEFAULT 0,
	word_index INTEGER NOT NULL DEFAULT 0,
	wpm INTEGER NOT NULL DEFAULT 300,
	last_read_at TEXT NOT NULL
)`

// Open opens (creating if needed) the library database at path. Use
// ":memory:" for an in-memory store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening library database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating library schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultPath returns the library database location:
// XDG_STATE_HOME/blink/library.db or ~/.local/state/blink/library.db.
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "blink", "library.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "blink", "library.db")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts or refreshes a library entry keyed by content hash. The
// stored checkpoint is preserved on refresh; path, title, and author follow
// the latest open.
func (s *Store) Upsert(ctx context.Context, e Entry) error {
	query := `INSERT INTO books (id, content_hash, path, title, author, chapter_index, paragraph_index, word_index, wpm, last_read_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET
			path = excluded.path,
			title = excluded.title,
			author = excluded.author,
			last_read_at = excluded.last_read_at`
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	wpm := e.WPM
	if wpm == 0 {
		wpm = 300
	}
	_, err := s.db.ExecContext(ctx, query,
		id,
		e.Hash,
		e.Path,
		e.Title,
		e.Author,
		e.Position.Chapter,
		e.Position.Paragraph,
		e.Position.Word,
		wpm,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting library entry: %w", err)
	}
	return nil
}

// SavePosition records the reading checkpoint and speed for a book.
func (s *Store) SavePosition(ctx context.Context, hash string, p book.Position, wpm int) error {
	query := `UPDATE books SET chapter_index = ?, paragraph_index = ?, word_index = ?, wpm = ?, last_read_at = ?
		WHERE content_hash = ?`
	_, err := s.db.ExecContext(ctx, query,
		p.Chapter, p.Paragraph, p.Word, wpm,
		time.Now().UTC().Format(time.RFC3339),
		hash,
	)
	if err != nil {
		return fmt.Errorf("saving position: %w", err)
	}
	return nil
}

// Lookup returns the entry for a content hash; found is false when the book
// has never been opened.
func (s *Store) Lookup(ctx context.Context, hash string) (Entry, bool, error) {
	query := `SELECT id, content_hash, path, title, author, chapter_index, paragraph_index, word_index, wpm, last_read_at
		FROM books WHERE content_hash = ?`
	e, err := scanEntry(s.db.QueryRowContext(ctx, query, hash))
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("looking up library entry: %w", err)
	}
	return e, true, nil
}

// Recent returns up to limit entries ordered by most recently read.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, content_hash, path, title, author, chapter_index, paragraph_index, word_index, wpm, last_read_at
		FROM books ORDER BY last_read_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent books: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning library entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clear removes the entry for a content hash.
func (s *Store) Clear(ctx context.Context, hash string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE content_hash = ?`, hash); err != nil {
		return fmt.Errorf("clearing library entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var lastRead string
	err := row.Scan(&e.ID, &e.Hash, &e.Path, &e.Title, &e.Author,
		&e.Position.Chapter, &e.Position.Paragraph, &e.Position.Word,
		&e.WPM, &lastRead)
	if err != nil {
		return Entry{}, err
	}
	if t, perr := time.Parse(time.RFC3339, lastRead); perr == nil {
		e.LastReadAt = t
	}
	return e, nil
}

// ComputeHash derives the content identity of a file from its first 8KB.
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil
}
