// Package options parses raw behaviour annotation strings into option maps.
//
// Two encodings are supported. A string starting with '{' is parsed as a
// JSON object. Anything else is parsed as an ordered sequence of k=v pairs
// joined by '&', with both keys and values percent-decoded.
package options

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Values is a parsed options mapping.
type Values map[string]any

// ParseError reports a malformed options string.
type ParseError struct {
	Raw     string
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing options %q: %s", e.Raw, e.Message)
}

// Parse parses a raw annotation string.
//
// JSON objects decode with gjson semantics: numbers become float64, nested
// objects become Values-shaped maps. For k=v sequences duplicate keys keep
// the last occurrence and every value is a string.
func Parse(raw string) (Values, error) {
	if raw == "" {
		return Values{}, nil
	}
	if strings.HasPrefix(raw, "{") {
		return parseJSON(raw)
	}
	return parsePairs(raw)
}

func parseJSON(raw string) (Values, error) {
	if !gjson.Valid(raw) {
		return nil, &ParseError{Raw: raw, Message: "invalid JSON"}
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, &ParseError{Raw: raw, Message: "JSON options must be an object"}
	}
	m, ok := parsed.Value().(map[string]any)
	if !ok {
		return nil, &ParseError{Raw: raw, Message: "JSON options must be an object"}
	}
	return Values(m), nil
}

func parsePairs(raw string) (Values, error) {
	values := Values{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			return nil, &ParseError{Raw: raw, Message: "bad escape in key " + key}
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			return nil, &ParseError{Raw: raw, Message: "bad escape in value " + value}
		}
		values[decodedKey] = decodedValue
	}
	return values, nil
}
