package extract

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"

	"github.com/blinkreader/blink/internal/book"
)

// EPUBFormat implements Format for EPUB files. Each spine item with readable
// text becomes a chapter; block-level HTML elements become paragraphs.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Extract(filename string) (*book.Book, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}
	rf := rc.Rootfiles[0]

	titles := tocTitlesByHref(filename, rf)

	b := &book.Book{
		Title:  strings.TrimSpace(rf.Title),
		Author: strings.TrimSpace(rf.Creator),
	}
	if b.Title == "" {
		b.Title = path.Base(filename)
	}

	for i, ref := range rf.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}

		paragraphs := paragraphsFromHTML(string(data))
		if !hasWords(paragraphs) {
			continue
		}

		title := fmt.Sprintf("Section %d", i+1)
		if ref.Item.HREF != "" {
			if t, ok := titles[ref.Item.HREF]; ok {
				title = t
			} else if t, ok := titles[path.Base(ref.Item.HREF)]; ok {
				title = t
			}
		}

		b.Chapters = append(b.Chapters, book.Chapter{
			OriginalIndex: i,
			Title:         title,
			Paragraphs:    paragraphs,
		})
	}

	return b, nil
}

func hasWords(paragraphs []book.Paragraph) bool {
	for _, p := range paragraphs {
		if len(p.Words) > 0 {
			return true
		}
	}
	return false
}

// blockTags are the HTML elements treated as paragraph boundaries.
var blockTags = map[string]bool{
	"p": true, "li": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"div": true, "td": true, "figcaption": true,
}

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// paragraphsFromHTML parses a content document and splits its text into
// paragraphs at block-element boundaries. Headings get the "heading" source
// tag. Unparseable markup yields no paragraphs rather than an error.
func paragraphsFromHTML(s string) []book.Paragraph {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil
	}

	var out []book.Paragraph
	var buf strings.Builder
	tag := TagBody

	flush := func() {
		p := paragraphFromText(buf.String(), tag)
		if len(p.Words) > 0 {
			out = append(out, p)
		}
		buf.Reset()
		tag = TagBody
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				buf.WriteString(t)
				buf.WriteString(" ")
			}
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if blockTags[n.Data] {
				flush()
				if headingTags[n.Data] {
					tag = TagHeading
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			flush()
		}
	}
	walk(doc)
	flush()

	return out
}
