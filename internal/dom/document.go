package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document represents a parsed HTML document.
type Document struct {
	root *html.Node
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document's root element (the <html> element).
// Returns nil for an empty document.
func (d *Document) Root() *Element {
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return &Element{n: n}
		}
	}
	return nil
}

// Body returns the document's <body> element, or nil if absent.
func (d *Document) Body() *Element {
	root := d.Root()
	if root == nil {
		return nil
	}
	return root.Find(func(e *Element) bool {
		return e.TagName() == "body"
	})
}

// Render writes the document back out as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}
