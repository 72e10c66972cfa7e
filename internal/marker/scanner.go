// Package marker locates and strips behaviour marker tokens on DOM elements.
//
// A marker is a class token carrying a configurable prefix. The bare prefix
// token ("jsb_") flags an element for scanning; keyed tokens ("jsb_dropdown")
// name the behaviour to bind. The scanner is the only place that knows the
// token encoding; the binding engine works purely through its methods.
package marker

import (
	"strings"
	"sync"

	"github.com/dshills/bindstorm/internal/dom"
)

// DefaultPrefix is the marker prefix used unless SetPrefix is called.
const DefaultPrefix = "jsb_"

// Scanner finds marker-bearing elements and performs marker token surgery.
// It is safe for concurrent use.
type Scanner struct {
	mu     sync.RWMutex
	prefix string
}

// NewScanner creates a scanner with the default prefix.
func NewScanner() *Scanner {
	return &Scanner{prefix: DefaultPrefix}
}

// Prefix returns the current marker prefix.
func (s *Scanner) Prefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefix
}

// SetPrefix changes the marker prefix at runtime. The bare token and every
// keyed marker pattern follow the new prefix. Empty prefixes are ignored.
func (s *Scanner) SetPrefix(prefix string) {
	if prefix == "" {
		return
	}
	s.mu.Lock()
	s.prefix = prefix
	s.mu.Unlock()
}

// Scan returns every element at or below root carrying the marker prefix,
// in document order. The result is a snapshot: stripping markers from the
// returned elements does not disturb it.
func (s *Scanner) Scan(root *dom.Element) []*dom.Element {
	prefix := s.Prefix()
	return root.FindAll(func(e *dom.Element) bool {
		for _, token := range e.ClassList().Tokens() {
			if strings.HasPrefix(token, prefix) {
				return true
			}
		}
		return false
	})
}

// FirstKey returns the first keyed marker on the element, in class attribute
// order. The bare prefix token is not a keyed marker.
func (s *Scanner) FirstKey(el *dom.Element) (string, bool) {
	prefix := s.Prefix()
	for _, token := range el.ClassList().Tokens() {
		if strings.HasPrefix(token, prefix) && len(token) > len(prefix) {
			return token[len(prefix):], true
		}
	}
	return "", false
}

// Strip removes the keyed marker token for key from the element.
func (s *Scanner) Strip(el *dom.Element, key string) {
	el.ClassList().Remove(s.Prefix() + key)
}

// StripBare removes the bare prefix token from the element.
func (s *Scanner) StripBare(el *dom.Element) {
	el.ClassList().Remove(s.Prefix())
}

// HasMarkers reports whether the element still carries any marker token.
func (s *Scanner) HasMarkers(el *dom.Element) bool {
	prefix := s.Prefix()
	for _, token := range el.ClassList().Tokens() {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}
