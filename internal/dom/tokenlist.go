package dom

import "strings"

// TokenList represents the set of space-separated tokens stored in an
// element attribute, most commonly the class attribute.
type TokenList struct {
	element  *Element
	attrName string
}

// tokens returns the current tokens, deduplicated, preserving order.
func (tl *TokenList) tokens() []string {
	value := tl.element.GetAttribute(tl.attrName)
	if value == "" {
		return nil
	}
	all := strings.Fields(value)
	seen := make(map[string]bool, len(all))
	result := make([]string, 0, len(all))
	for _, token := range all {
		if !seen[token] {
			seen[token] = true
			result = append(result, token)
		}
	}
	return result
}

// setTokens writes the tokens back to the attribute. An empty token set
// clears the attribute value without creating it when it never existed.
func (tl *TokenList) setTokens(tokens []string) {
	if len(tokens) > 0 {
		tl.element.SetAttribute(tl.attrName, strings.Join(tokens, " "))
		return
	}
	if tl.element.HasAttribute(tl.attrName) {
		tl.element.SetAttribute(tl.attrName, "")
	}
}

// Tokens returns the tokens in attribute order.
func (tl *TokenList) Tokens() []string {
	return tl.tokens()
}

// Length returns the number of distinct tokens.
func (tl *TokenList) Length() int {
	return len(tl.tokens())
}

// Contains reports whether token is present.
func (tl *TokenList) Contains(token string) bool {
	for _, t := range tl.tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends tokens that are not already present.
func (tl *TokenList) Add(tokens ...string) {
	current := tl.tokens()
	for _, token := range tokens {
		if token == "" {
			continue
		}
		present := false
		for _, t := range current {
			if t == token {
				present = true
				break
			}
		}
		if !present {
			current = append(current, token)
		}
	}
	tl.setTokens(current)
}

// Remove removes the given tokens if present.
func (tl *TokenList) Remove(tokens ...string) {
	current := tl.tokens()
	result := current[:0]
	for _, t := range current {
		keep := true
		for _, token := range tokens {
			if t == token {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, t)
		}
	}
	tl.setTokens(result)
}
