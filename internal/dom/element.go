package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element represents a single element in the document tree.
// Elements reference nodes owned by the document; they are cheap handles
// and two Elements are the same element when they wrap the same node.
type Element struct {
	n *html.Node
}

// NewElement creates a detached element with the given tag name.
// Useful for tests and for building fragments.
func NewElement(tag string) *Element {
	return &Element{n: &html.Node{
		Type: html.ElementNode,
		Data: strings.ToLower(tag),
	}}
}

// TagName returns the element's tag name in lowercase.
func (e *Element) TagName() string {
	return e.n.Data
}

// Same reports whether two handles refer to the same underlying node.
func (e *Element) Same(other *Element) bool {
	return other != nil && e.n == other.n
}

// GetAttribute returns the value of the named attribute, or "" if unset.
func (e *Element) GetAttribute(name string) string {
	for _, a := range e.n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasAttribute reports whether the named attribute is present.
func (e *Element) HasAttribute(name string) bool {
	for _, a := range e.n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

// SetAttribute sets the named attribute, replacing any existing value.
func (e *Element) SetAttribute(name, value string) {
	for i, a := range e.n.Attr {
		if a.Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute removes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.n.Attr {
		if a.Key == name {
			e.n.Attr = append(e.n.Attr[:i], e.n.Attr[i+1:]...)
			return
		}
	}
}

// ClassName returns the class attribute value.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// ClassList returns a TokenList over the element's class attribute.
func (e *Element) ClassList() *TokenList {
	return &TokenList{element: e, attrName: "class"}
}

// AppendChild appends a child element.
func (e *Element) AppendChild(child *Element) {
	e.n.AppendChild(child.n)
}

// Walk visits the element and every descendant element in document order.
// Returning false from fn stops the walk.
func (e *Element) Walk(fn func(*Element) bool) {
	walk(e.n, fn)
}

func walk(n *html.Node, fn func(*Element) bool) bool {
	if n.Type == html.ElementNode {
		if !fn(&Element{n: n}) {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Find returns the first element (self included) matching the predicate,
// or nil when nothing matches.
func (e *Element) Find(pred func(*Element) bool) *Element {
	var found *Element
	e.Walk(func(el *Element) bool {
		if pred(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// FindAll returns every element (self included) matching the predicate,
// in document order.
func (e *Element) FindAll(pred func(*Element) bool) []*Element {
	var found []*Element
	e.Walk(func(el *Element) bool {
		if pred(el) {
			found = append(found, el)
		}
		return true
	})
	return found
}

// String returns a short description of the element for logging.
func (e *Element) String() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.TagName())
	if id := e.GetAttribute("id"); id != "" {
		b.WriteString(" id=")
		b.WriteString(id)
	}
	if class := e.ClassName(); class != "" {
		b.WriteString(" class=")
		b.WriteString(class)
	}
	b.WriteByte('>')
	return b.String()
}
