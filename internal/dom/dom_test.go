package dom

import (
	"strings"
	"testing"
)

const sampleDoc = `<!DOCTYPE html>
<html><head><title>t</title></head>
<body>
  <div id="outer" class="a b">
    <span id="inner" data-x="1"></span>
  </div>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	return doc
}

func TestParse(t *testing.T) {
	doc := mustParse(t, sampleDoc)

	root := doc.Root()
	if root == nil {
		t.Fatal("Root() returned nil")
	}
	if root.TagName() != "html" {
		t.Errorf("root tag = %q, want html", root.TagName())
	}
	body := doc.Body()
	if body == nil || body.TagName() != "body" {
		t.Fatalf("Body() = %v", body)
	}
}

func TestElement_Attributes(t *testing.T) {
	doc := mustParse(t, sampleDoc)
	inner := doc.Root().Find(func(e *Element) bool { return e.GetAttribute("id") == "inner" })
	if inner == nil {
		t.Fatal("inner element not found")
	}

	if got := inner.GetAttribute("data-x"); got != "1" {
		t.Errorf("data-x = %q, want 1", got)
	}
	if !inner.HasAttribute("data-x") {
		t.Error("HasAttribute(data-x) = false")
	}
	if inner.HasAttribute("missing") {
		t.Error("HasAttribute(missing) = true")
	}
	if got := inner.GetAttribute("missing"); got != "" {
		t.Errorf("missing attribute = %q, want empty", got)
	}

	inner.SetAttribute("data-x", "2")
	if got := inner.GetAttribute("data-x"); got != "2" {
		t.Errorf("after SetAttribute, data-x = %q, want 2", got)
	}

	inner.SetAttribute("added", "v")
	if got := inner.GetAttribute("added"); got != "v" {
		t.Errorf("added = %q, want v", got)
	}

	inner.RemoveAttribute("added")
	if inner.HasAttribute("added") {
		t.Error("attribute survived RemoveAttribute")
	}
}

func TestElement_FindAll_DocumentOrder(t *testing.T) {
	doc := mustParse(t, `<html><body>
		<p id="one"></p>
		<div><p id="two"></p></div>
		<p id="three"></p>
	</body></html>`)

	ps := doc.Root().FindAll(func(e *Element) bool { return e.TagName() == "p" })
	if len(ps) != 3 {
		t.Fatalf("found %d paragraphs, want 3", len(ps))
	}
	want := []string{"one", "two", "three"}
	for i, p := range ps {
		if p.GetAttribute("id") != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, p.GetAttribute("id"), want[i])
		}
	}
}

func TestTokenList(t *testing.T) {
	el := NewElement("div")
	el.SetAttribute("class", "a b a c")

	cl := el.ClassList()
	if cl.Length() != 3 {
		t.Errorf("Length() = %d, want 3 (deduplicated)", cl.Length())
	}
	if !cl.Contains("b") {
		t.Error("Contains(b) = false")
	}
	if cl.Contains("z") {
		t.Error("Contains(z) = true")
	}

	cl.Remove("a")
	if cl.Contains("a") {
		t.Error("token survived Remove")
	}
	if got := el.ClassName(); got != "b c" {
		t.Errorf("class = %q, want %q", got, "b c")
	}

	cl.Add("d", "b")
	if got := el.ClassName(); got != "b c d" {
		t.Errorf("class = %q, want %q", got, "b c d")
	}
}

func TestTokenList_EmptyAndUnset(t *testing.T) {
	el := NewElement("div")

	cl := el.ClassList()
	if cl.Length() != 0 {
		t.Errorf("Length() on unset attribute = %d", cl.Length())
	}

	// Removing from an unset attribute must not create it.
	cl.Remove("ghost")
	if el.HasAttribute("class") {
		t.Error("Remove created the class attribute")
	}

	cl.Add("x")
	cl.Remove("x")
	if !el.HasAttribute("class") {
		t.Error("emptied class attribute disappeared")
	}
	if got := el.ClassName(); got != "" {
		t.Errorf("class = %q, want empty", got)
	}
}

func TestDocument_Render(t *testing.T) {
	doc := mustParse(t, `<html><body><div class="x"></div></body></html>`)

	var sb strings.Builder
	if err := doc.Render(&sb); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if !strings.Contains(sb.String(), `class="x"`) {
		t.Errorf("rendered output missing class attribute: %s", sb.String())
	}
}
