package book

// Position addresses a single word in a book by zero-based indices into the
// chapter, paragraph, and word sequences.
type Position struct {
	Chapter   int
	Paragraph int
	Word      int
}

// Valid reports whether p addresses an existing word in b.
func (b *Book) Valid(p Position) bool {
	if p.Chapter < 0 || p.Chapter >= len(b.Chapters) {
		return false
	}
	ch := b.Chapters[p.Chapter]
	if p.Paragraph < 0 || p.Paragraph >= len(ch.Paragraphs) {
		return false
	}
	return p.Word >= 0 && p.Word < len(ch.Paragraphs[p.Paragraph].Words)
}

// paragraphCount returns the paragraph count of chapter c, or 0 when c is
// out of range.
func (b *Book) paragraphCount(c int) int {
	if c < 0 || c >= len(b.Chapters) {
		return 0
	}
	return len(b.Chapters[c].Paragraphs)
}

// wordCount returns the word count of paragraph p in chapter c, or 0 when
// either index is out of range.
func (b *Book) wordCount(c, p int) int {
	if c < 0 || c >= len(b.Chapters) {
		return 0
	}
	ch := b.Chapters[c]
	if p < 0 || p >= len(ch.Paragraphs) {
		return 0
	}
	return len(ch.Paragraphs[p].Words)
}

// Advance moves p forward by one word, crossing paragraph and chapter
// boundaries as needed. The second result is false when p is already at the
// last word of the book; p is returned unchanged in that case.
func (b *Book) Advance(p Position) (Position, bool) {
	if p.Word+1 < b.wordCount(p.Chapter, p.Paragraph) {
		return Position{p.Chapter, p.Paragraph, p.Word + 1}, true
	}
	if p.Paragraph+1 < b.paragraphCount(p.Chapter) {
		return Position{p.Chapter, p.Paragraph + 1, 0}, true
	}
	if p.Chapter+1 < len(b.Chapters) {
		return Position{p.Chapter + 1, 0, 0}, true
	}
	return p, false
}

// Retreat moves p backward by one word. At the very start of the book it is
// a no-op. When stepping into a previous paragraph or chapter the word (and
// paragraph) index land on the last entry, or 0 when the container is empty.
func (b *Book) Retreat(p Position) Position {
	if p.Word > 0 {
		return Position{p.Chapter, p.Paragraph, p.Word - 1}
	}
	if p.Paragraph > 0 {
		para := p.Paragraph - 1
		return Position{p.Chapter, para, lastIndex(b.wordCount(p.Chapter, para))}
	}
	if p.Chapter > 0 {
		ch := p.Chapter - 1
		para := lastIndex(b.paragraphCount(ch))
		return Position{ch, para, lastIndex(b.wordCount(ch, para))}
	}
	return p
}

// ChapterStart returns the position of the first word slot of chapter c and
// whether c is in range.
func (b *Book) ChapterStart(c int) (Position, bool) {
	if c < 0 || c >= len(b.Chapters) {
		return Position{}, false
	}
	return Position{Chapter: c}, true
}

// Clamp forces p into the book's shape, for reconciling a persisted position
// against a document that may have changed. The chapter index is clamped
// into range; a chapter with no paragraphs is skipped backward until a
// non-empty one is found, except that chapter 0 may stay current even when
// empty. Paragraph and word indices are then clamped into the resulting
// ranges, with 0 standing in for empty containers. Clamp always succeeds;
// the second result reports whether any component changed.
func (b *Book) Clamp(p Position) (Position, bool) {
	if len(b.Chapters) == 0 {
		return Position{}, p != Position{}
	}

	c := clampIndex(p.Chapter, len(b.Chapters))
	for c > 0 && len(b.Chapters[c].Paragraphs) == 0 {
		c--
	}

	para := 0
	if n := b.paragraphCount(c); n > 0 {
		para = clampIndex(p.Paragraph, n)
	}

	word := 0
	if n := b.wordCount(c, para); n > 0 {
		word = clampIndex(p.Word, n)
	}

	out := Position{c, para, word}
	return out, out != p
}

// clampIndex clamps i into [0, n-1]; n must be >= 1.
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// lastIndex returns the last valid index for a container of n entries, or 0
// when the container is empty.
func lastIndex(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
