// Package book holds the document model for an RSVP reading session and the
// position algebra used to navigate it.
package book

import (
	"strings"
	"unicode/utf8"
)

// Word is a single display unit: its text plus the recognition-point offset
// the eye should fixate on while it is shown.
type Word struct {
	Text              string
	RecognitionOffset int
}

// NewWord builds a Word with its recognition offset precomputed.
func NewWord(text string) Word {
	return Word{Text: text, RecognitionOffset: RecognitionOffset(text)}
}

// Paragraph is an ordered run of words from one structural element.
// SourceTag records what kind of element it came from ("heading", "body");
// navigation never looks at it.
type Paragraph struct {
	Words     []Word
	SourceTag string
}

// Chapter is an ordered run of paragraphs. OriginalIndex is the chapter's
// position in the unfiltered source document — it may have gaps because
// empty chapters are dropped during extraction. Navigation always goes by
// slice position, never by OriginalIndex.
type Chapter struct {
	OriginalIndex int
	Title         string
	Paragraphs    []Paragraph
}

// Book is an extracted document. It is never mutated after construction.
type Book struct {
	Title    string
	Author   string
	Chapters []Chapter
}

// trailingPunct is the set stripped from the end of a word when measuring
// its effective length for recognition-point placement.
const trailingPunct = ".,!?;:'\"—-"

// RecognitionOffset returns the zero-based rune index the reader's eye
// should fixate on. Trailing punctuation is excluded from the length
// measurement but the offset still indexes the original text.
func RecognitionOffset(text string) int {
	stripped := strings.TrimRight(text, trailingPunct)
	length := utf8.RuneCountInString(stripped)
	switch {
	case length <= 1:
		return 0
	case length <= 3:
		return 1
	default:
		return length/2 - 1
	}
}

// TotalWords returns the number of words in the whole book.
func (b *Book) TotalWords() int {
	total := 0
	for _, ch := range b.Chapters {
		for _, p := range ch.Paragraphs {
			total += len(p.Words)
		}
	}
	return total
}

// WordNumber returns the 1-based ordinal of the word at p within the whole
// book, for "word N of M" progress display. Positions past the end of a
// container are counted as if clamped.
func (b *Book) WordNumber(p Position) int {
	n := 1
	for ci := 0; ci < len(b.Chapters) && ci < p.Chapter; ci++ {
		for _, para := range b.Chapters[ci].Paragraphs {
			n += len(para.Words)
		}
	}
	if p.Chapter < len(b.Chapters) {
		ch := b.Chapters[p.Chapter]
		for pi := 0; pi < len(ch.Paragraphs) && pi < p.Paragraph; pi++ {
			n += len(ch.Paragraphs[pi].Words)
		}
		if p.Paragraph < len(ch.Paragraphs) {
			wc := len(ch.Paragraphs[p.Paragraph].Words)
			if p.Word < wc {
				n += p.Word
			} else if wc > 0 {
				n += wc - 1
			}
		}
	}
	return n
}
