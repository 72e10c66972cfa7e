package jsmod

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/bindstorm/internal/dom"
	"github.com/dshills/bindstorm/internal/options"
)

func writeModule(t *testing.T, dir, name, src string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating module dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing module: %v", err)
	}
}

func testElement(t *testing.T) *dom.Element {
	t.Helper()
	doc, err := dom.ParseString(`<html><body><div id="x"></div></body></html>`)
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	el := doc.Root().Find(func(e *dom.Element) bool { return e.GetAttribute("id") == "x" })
	if el == nil {
		t.Fatal("test element not found")
	}
	return el
}

func TestLoader_Path(t *testing.T) {
	l := NewLoader("modules")

	got := l.Path("ui/menu")
	want := filepath.Join("modules", "ui", "menu.js")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoader_Load_ModuleExports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "greet.js", `
		module.exports = function(el, opts) {
			el.setAttribute("data-bound", "yes");
			if (opts) {
				el.setAttribute("data-name", opts.name);
			}
		};
	`)

	factory, err := NewLoader(dir).Load(context.Background(), "greet")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if factory == nil {
		t.Fatal("Load() returned nil factory for existing module")
	}

	el := testElement(t)
	if err := factory(el, options.Values{"name": "Ann"}); err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	if el.GetAttribute("data-bound") != "yes" {
		t.Error("handler did not run")
	}
	if got := el.GetAttribute("data-name"); got != "Ann" {
		t.Errorf("data-name = %q, want Ann", got)
	}
}

func TestLoader_Load_DefaultExport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "greet.js", `
		exports.default = function(el, opts) {
			el.addClass("greeted");
		};
	`)

	factory, err := NewLoader(dir).Load(context.Background(), "greet")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	el := testElement(t)
	if err := factory(el, nil); err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	if !el.ClassList().Contains("greeted") {
		t.Error("handler did not add class")
	}
}

func TestLoader_Load_Missing(t *testing.T) {
	factory, err := NewLoader(t.TempDir()).Load(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Load() = %v, want nil error for missing module", err)
	}
	if factory != nil {
		t.Error("Load() returned a factory for a missing module")
	}
}

func TestLoader_Load_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "broken.js", `function(`)

	if _, err := NewLoader(dir).Load(context.Background(), "broken"); err == nil {
		t.Error("Load() succeeded for a broken module")
	}
}

func TestLoader_Load_NoCallableExport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "bad.js", `exports.value = 42;`)

	if _, err := NewLoader(dir).Load(context.Background(), "bad"); err == nil {
		t.Error("Load() accepted a module without a callable export")
	}
}

func TestLoader_Load_HandlerThrow(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "angry.js", `
		module.exports = function(el, opts) {
			throw new Error("refused");
		};
	`)

	factory, err := NewLoader(dir).Load(context.Background(), "angry")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := factory(testElement(t), nil); err == nil {
		t.Error("factory swallowed a thrown error")
	}
}
