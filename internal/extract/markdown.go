package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/blinkreader/blink/internal/book"
)

// MarkdownFormat implements Format for Markdown files using the goldmark
// AST: headings start chapters, other top-level blocks become paragraphs.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Extract(filename string) (*book.Book, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	b := &book.Book{Title: title}

	// The preamble before the first heading is chapter ordinal 0; every
	// heading claims the next ordinal whether or not its chapter survives,
	// so OriginalIndex keeps gaps where empty chapters were dropped.
	cur := book.Chapter{OriginalIndex: 0, Title: title}
	nextOrdinal := 1

	flush := func() {
		if hasWords(cur.Paragraphs) {
			b.Chapters = append(b.Chapters, cur)
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flush()
			headingText := strings.TrimSpace(nodeText(h, src))
			cur = book.Chapter{OriginalIndex: nextOrdinal, Title: headingText}
			nextOrdinal++
			if p := paragraphFromText(headingText, TagHeading); len(p.Words) > 0 {
				cur.Paragraphs = append(cur.Paragraphs, p)
			}
			continue
		}
		if p := paragraphFromText(nodeText(n, src), TagBody); len(p.Words) > 0 {
			cur.Paragraphs = append(cur.Paragraphs, p)
		}
	}
	flush()

	return b, nil
}

// nodeText collects the plain text under a goldmark node, separating block
// children (list items, nested paragraphs) with spaces.
func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if c.Type() == ast.TypeBlock {
				sb.WriteString(" ")
			}
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString(" ")
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
