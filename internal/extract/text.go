package extract

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/blinkreader/blink/internal/book"
)

// TextFormat reads plain text: paragraphs split on blank lines, a single
// chapter. It also serves as the fallback for unknown extensions.
type TextFormat struct{}

func init() {
	Register(&TextFormat{})
}

func (f *TextFormat) Name() string         { return "Plain text" }
func (f *TextFormat) Extensions() []string { return []string{".txt"} }

func (f *TextFormat) Extract(filename string) (*book.Book, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return FromText(title, string(data)), nil
}

var blankLines = regexp.MustCompile(`\n[ \t]*\n`)

// FromText builds a single-chapter book from raw text, splitting paragraphs
// on blank lines. Also used for stdin input, which has no filename to
// dispatch on.
func FromText(title, text string) *book.Book {
	var paragraphs []book.Paragraph
	for _, block := range blankLines.Split(text, -1) {
		p := paragraphFromText(block, TagBody)
		if len(p.Words) > 0 {
			paragraphs = append(paragraphs, p)
		}
	}
	return &book.Book{
		Title: title,
		Chapters: []book.Chapter{
			{OriginalIndex: 0, Title: title, Paragraphs: paragraphs},
		},
	}
}
