package marker

import (
	"testing"

	"github.com/dshills/bindstorm/internal/dom"
)

func element(t *testing.T, class string) *dom.Element {
	t.Helper()
	el := dom.NewElement("div")
	if class != "" {
		el.SetAttribute("class", class)
	}
	return el
}

func TestScanner_Scan(t *testing.T) {
	doc, err := dom.ParseString(`<html><body>
		<div id="a" class="jsb_ jsb_menu"></div>
		<div id="b" class="plain"></div>
		<span id="c" class="jsb_toggle other"></span>
	</body></html>`)
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}

	s := NewScanner()
	found := s.Scan(doc.Root())
	if len(found) != 2 {
		t.Fatalf("Scan() found %d elements, want 2", len(found))
	}
	if found[0].GetAttribute("id") != "a" || found[1].GetAttribute("id") != "c" {
		t.Errorf("Scan() order: %s, %s", found[0], found[1])
	}
}

func TestScanner_FirstKey(t *testing.T) {
	tests := []struct {
		name  string
		class string
		key   string
		ok    bool
	}{
		{"single key", "jsb_menu", "menu", true},
		{"bare prefix skipped", "jsb_ jsb_menu", "menu", true},
		{"class order respected", "jsb_first jsb_second", "first", true},
		{"bare only", "jsb_", "", false},
		{"no markers", "plain other", "", false},
		{"empty", "", "", false},
		{"slash key", "jsb_ui/menu", "ui/menu", true},
	}

	s := NewScanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := element(t, tt.class)
			key, ok := s.FirstKey(el)
			if ok != tt.ok || key != tt.key {
				t.Errorf("FirstKey() = (%q, %v), want (%q, %v)", key, ok, tt.key, tt.ok)
			}
		})
	}
}

func TestScanner_Strip(t *testing.T) {
	s := NewScanner()
	el := element(t, "jsb_ jsb_menu keep")

	s.StripBare(el)
	if el.ClassList().Contains("jsb_") {
		t.Error("bare token survived StripBare")
	}

	s.Strip(el, "menu")
	if el.ClassList().Contains("jsb_menu") {
		t.Error("keyed token survived Strip")
	}
	if !el.ClassList().Contains("keep") {
		t.Error("unrelated token was removed")
	}
	if s.HasMarkers(el) {
		t.Error("HasMarkers() = true after stripping everything")
	}
}

func TestScanner_SetPrefix(t *testing.T) {
	s := NewScanner()
	s.SetPrefix("bind-")

	el := element(t, "bind- bind-menu jsb_old")
	key, ok := s.FirstKey(el)
	if !ok || key != "menu" {
		t.Fatalf("FirstKey() with changed prefix = (%q, %v)", key, ok)
	}

	s.StripBare(el)
	s.Strip(el, "menu")
	// The old-prefix token is not a marker under the new prefix.
	if !el.ClassList().Contains("jsb_old") {
		t.Error("token with old prefix was stripped")
	}
	if s.HasMarkers(el) {
		t.Error("HasMarkers() = true for old-prefix token")
	}

	// Empty prefixes are rejected.
	s.SetPrefix("")
	if s.Prefix() != "bind-" {
		t.Errorf("Prefix() = %q after empty SetPrefix, want bind-", s.Prefix())
	}
}
