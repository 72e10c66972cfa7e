// Package pattern implements event name matching for the bus.
//
// A Matcher is either an exact event name or a wildcard pattern over
// dot-separated name segments. Examples: "cart.item.added" (exact),
// "cart.*" (one segment), "cart.**" (any depth).
package pattern

import "strings"

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator is the character used to separate name segments.
	Separator = "."
)

// Matcher matches event names either by exact equality or by wildcard
// pattern. The zero value matches nothing.
type Matcher struct {
	raw      string
	wildcard bool
}

// Exact creates a matcher requiring exact name equality.
func Exact(name string) Matcher {
	return Matcher{raw: name}
}

// Wildcard creates a matcher using wildcard segment matching.
func Wildcard(p string) Matcher {
	return Matcher{raw: p, wildcard: true}
}

// Parse creates a matcher from a string: strings containing a wildcard
// character become wildcard matchers, everything else is exact.
func Parse(s string) Matcher {
	if strings.Contains(s, WildcardSingle) {
		return Wildcard(s)
	}
	return Exact(s)
}

// String returns the matcher's source text. Two matchers with equal String
// results are treated as equivalent for unsubscription, whether or not they
// are the same value.
func (m Matcher) String() string {
	return m.raw
}

// IsWildcard reports whether the matcher uses wildcard matching.
func (m Matcher) IsWildcard() bool {
	return m.wildcard
}

// IsZero reports whether the matcher is the zero value.
func (m Matcher) IsZero() bool {
	return m.raw == ""
}

// Matches reports whether the matcher accepts the given event name.
func (m Matcher) Matches(name string) bool {
	if name == "" {
		return false
	}
	if !m.wildcard {
		return m.raw == name
	}
	return matchSegments(split(name), split(m.raw))
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Separator)
}

// matchSegments performs recursive wildcard matching on name segments.
func matchSegments(name, pat []string) bool {
	ni, pi := 0, 0

	for pi < len(pat) {
		if pat[pi] == WildcardMulti {
			// ** matches zero or more segments
			for ni <= len(name) {
				if matchSegments(name[ni:], pat[pi+1:]) {
					return true
				}
				ni++
			}
			return false
		}

		if ni >= len(name) {
			return false
		}

		if pat[pi] == WildcardSingle || pat[pi] == name[ni] {
			ni++
			pi++
		} else {
			return false
		}
	}

	return ni == len(name)
}
