// Package extract turns packaged documents into the ordered
// chapter/paragraph/word tree the playback engine consumes.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/blinkreader/blink/internal/book"
)

// Source tags recorded on extracted paragraphs.
const (
	TagBody    = "body"
	TagHeading = "heading"
)

// Format extracts a structured book from one file format.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (*book.Book, error)
}

var registry []Format

// Register adds a format to the registry. Called from format init funcs.
func Register(f Format) {
	registry = append(registry, f)
}

// FromFile extracts a book from a file, dispatching on extension. Files with
// no registered format are read as plain text.
func FromFile(filename string) (*book.Book, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f.Extract(filename)
			}
		}
	}
	return (&TextFormat{}).Extract(filename)
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// Playable reports whether b has at least one word to display.
func Playable(b *book.Book) bool {
	return b != nil && b.TotalWords() > 0
}

// ErrNoContent is returned when a document extracts to zero playable words.
var ErrNoContent = fmt.Errorf("document has no readable text")

// paragraphFromText splits text on whitespace into a tagged paragraph.
// Returns a zero paragraph (no words) for blank text.
func paragraphFromText(text, tag string) book.Paragraph {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return book.Paragraph{SourceTag: tag}
	}
	words := make([]book.Word, len(fields))
	for i, f := range fields {
		words[i] = book.NewWord(f)
	}
	return book.Paragraph{Words: words, SourceTag: tag}
}
