package book

import "testing"

func TestValid(t *testing.T) {
	b := testBook()
	tests := []struct {
		name string
		pos  Position
		want bool
	}{
		{"first word", Position{0, 0, 0}, true},
		{"last word", Position{2, 0, 1}, true},
		{"word out of range", Position{0, 0, 3}, false},
		{"word equal to count", Position{1, 0, 2}, false},
		{"paragraph out of range", Position{0, 2, 0}, false},
		{"chapter out of range", Position{3, 0, 0}, false},
		{"negative chapter", Position{-1, 0, 0}, false},
		{"negative word", Position{0, 0, -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Valid(tt.pos); got != tt.want {
				t.Errorf("Valid(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestAdvance(t *testing.T) {
	b := testBook()
	tests := []struct {
		name   string
		pos    Position
		want   Position
		wantOK bool
	}{
		{"within paragraph", Position{0, 0, 0}, Position{0, 0, 1}, true},
		{"crosses paragraph", Position{0, 0, 2}, Position{0, 1, 0}, true},
		{"crosses chapter", Position{0, 1, 1}, Position{1, 0, 0}, true},
		{"end of book", Position{2, 0, 1}, Position{2, 0, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.Advance(tt.pos)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Advance(%v) = %v, %v, want %v, %v", tt.pos, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAdvanceRetreatRoundTrip(t *testing.T) {
	b := testBook()
	pos := Position{}
	var visited []Position
	for {
		visited = append(visited, pos)
		next, ok := b.Advance(pos)
		if !ok {
			break
		}
		pos = next
	}
	if len(visited) != b.TotalWords() {
		t.Fatalf("walked %d positions, want %d", len(visited), b.TotalWords())
	}
	// Walking back must visit the same positions in reverse.
	for i := len(visited) - 1; i > 0; i-- {
		pos = b.Retreat(pos)
		if pos != visited[i-1] {
			t.Fatalf("Retreat mismatch at step %d: got %v, want %v", i, pos, visited[i-1])
		}
	}
}

func TestRetreat(t *testing.T) {
	b := testBook()
	tests := []struct {
		name string
		pos  Position
		want Position
	}{
		{"within paragraph", Position{0, 0, 2}, Position{0, 0, 1}},
		{"crosses paragraph", Position{0, 1, 0}, Position{0, 0, 2}},
		{"crosses chapter", Position{1, 0, 0}, Position{0, 1, 1}},
		{"start of book is a no-op", Position{0, 0, 0}, Position{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Retreat(tt.pos); got != tt.want {
				t.Errorf("Retreat(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestRetreatIntoEmptyChapter(t *testing.T) {
	// Chapter 0 has no paragraphs at all; retreating into it lands on
	// {0,0,0} even though that position is not valid.
	b := &Book{Chapters: []Chapter{
		{Title: "Empty"},
		{Title: "Full", Paragraphs: []Paragraph{
			{Words: []Word{NewWord("only")}},
		}},
	}}
	got := b.Retreat(Position{1, 0, 0})
	if got != (Position{0, 0, 0}) {
		t.Errorf("Retreat into empty chapter = %v, want {0 0 0}", got)
	}
}

func TestChapterStart(t *testing.T) {
	b := testBook()
	if pos, ok := b.ChapterStart(1); !ok || pos != (Position{1, 0, 0}) {
		t.Errorf("ChapterStart(1) = %v, %v", pos, ok)
	}
	if _, ok := b.ChapterStart(3); ok {
		t.Error("ChapterStart(3) should be out of range")
	}
	if _, ok := b.ChapterStart(-1); ok {
		t.Error("ChapterStart(-1) should be out of range")
	}
}

func TestClamp(t *testing.T) {
	b := testBook()
	tests := []struct {
		name        string
		pos         Position
		want        Position
		wantChanged bool
	}{
		{"already valid", Position{0, 1, 1}, Position{0, 1, 1}, false},
		{"chapter too large", Position{9, 0, 0}, Position{2, 0, 0}, true},
		{"paragraph too large", Position{0, 5, 0}, Position{0, 1, 0}, true},
		{"word too large", Position{0, 0, 99}, Position{0, 0, 2}, true},
		{"all negative", Position{-1, -1, -1}, Position{0, 0, 0}, true},
		{"word clamps within resolved paragraph", Position{1, 3, 3}, Position{1, 0, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := b.Clamp(tt.pos)
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("Clamp(%v) = %v, %v, want %v, %v", tt.pos, got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

func TestClampAlwaysValid(t *testing.T) {
	b := testBook()
	for c := -2; c < 5; c++ {
		for p := -2; p < 5; p++ {
			for w := -2; w < 6; w++ {
				got, _ := b.Clamp(Position{c, p, w})
				if !b.Valid(got) {
					t.Fatalf("Clamp(%v) = %v is not valid", Position{c, p, w}, got)
				}
			}
		}
	}
}

func TestClampWalksPastEmptyChapters(t *testing.T) {
	b := &Book{Chapters: []Chapter{
		{Title: "Full", Paragraphs: []Paragraph{
			{Words: []Word{NewWord("one"), NewWord("two")}},
		}},
		{Title: "Empty"},
		{Title: "Also empty"},
	}}

	got, changed := b.Clamp(Position{2, 0, 0})
	if got != (Position{0, 0, 0}) || !changed {
		t.Errorf("Clamp past empty chapters = %v, %v, want {0 0 0}, true", got, changed)
	}
}

func TestClampEmptyChapterZero(t *testing.T) {
	// Chapter 0 may stay current even with no paragraphs; the clamped
	// position is structural only in that case.
	b := &Book{Chapters: []Chapter{{Title: "Empty"}}}
	got, changed := b.Clamp(Position{3, 2, 1})
	if got != (Position{0, 0, 0}) || !changed {
		t.Errorf("Clamp on empty-only book = %v, %v, want {0 0 0}, true", got, changed)
	}
}

func TestClampZeroChapterBook(t *testing.T) {
	b := &Book{}
	got, changed := b.Clamp(Position{1, 1, 1})
	if got != (Position{0, 0, 0}) || !changed {
		t.Errorf("Clamp on chapterless book = %v, %v, want {0 0 0}, true", got, changed)
	}
	if _, changed := b.Clamp(Position{}); changed {
		t.Error("Clamp of zero position on chapterless book should report no change")
	}
}
