package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/bindstorm/internal/dom"
	"github.com/dshills/bindstorm/internal/event"
	"github.com/dshills/bindstorm/internal/event/pattern"
	"github.com/dshills/bindstorm/internal/options"
)

func newApp(t *testing.T, configTOML string) *App {
	t.Helper()

	opts := Options{LogOutput: io.Discard}
	if configTOML != "" {
		path := filepath.Join(t.TempDir(), "bindstorm.toml")
		if err := os.WriteFile(path, []byte(configTOML), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		opts.ConfigPath = path
	}

	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})
	return a
}

func TestApp_Ready(t *testing.T) {
	a := newApp(t, "")

	bound := 0
	a.RegisterHandler("greet", func(el *dom.Element, opts options.Values) error {
		bound++
		return nil
	})

	applied := 0
	if _, err := a.Bus().Subscribe(pattern.Exact(event.BehavioursApplied), func(string, event.Values) {
		applied++
	}); err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}

	doc, err := dom.ParseString(`<html><body><div class="jsb_greet"></div></body></html>`)
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}

	if err := a.Ready(context.Background(), doc); err != nil {
		t.Fatalf("Ready() failed: %v", err)
	}
	if bound != 1 {
		t.Errorf("handler constructed %d times, want 1", bound)
	}
	if applied != 1 {
		t.Errorf("behaviours-applied published %d times, want 1", applied)
	}

	if err := a.Ready(context.Background(), doc); !errors.Is(err, ErrAlreadyReady) {
		t.Errorf("second Ready() = %v, want ErrAlreadyReady", err)
	}
	if bound != 1 {
		t.Error("second Ready() ran another binding pass")
	}
}

func TestApp_ApplyAfterReady(t *testing.T) {
	a := newApp(t, "")

	var bound []string
	a.RegisterHandler("tag", func(el *dom.Element, opts options.Values) error {
		bound = append(bound, el.GetAttribute("id"))
		return nil
	})

	doc, err := dom.ParseString(`<html><body><div id="a" class="jsb_tag"></div></body></html>`)
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	if err := a.Ready(context.Background(), doc); err != nil {
		t.Fatalf("Ready() failed: %v", err)
	}

	// Bind content attached after ready.
	late, err := dom.ParseString(`<html><body><div id="b" class="jsb_tag"></div></body></html>`)
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	if err := a.Apply(context.Background(), late.Root()); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	if len(bound) != 2 || bound[0] != "a" || bound[1] != "b" {
		t.Errorf("bound %v, want [a b]", bound)
	}
}

func TestApp_ConfigPrefix(t *testing.T) {
	a := newApp(t, `marker_prefix = "do_"`)

	if got := a.Scanner().Prefix(); got != "do_" {
		t.Errorf("Prefix() = %q, want do_", got)
	}

	bound := 0
	a.RegisterHandler("greet", func(el *dom.Element, opts options.Values) error {
		bound++
		return nil
	})

	doc, err := dom.ParseString(`<html><body>
		<div class="do_greet"></div>
		<div class="jsb_greet"></div>
	</body></html>`)
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	if err := a.Ready(context.Background(), doc); err != nil {
		t.Fatalf("Ready() failed: %v", err)
	}
	if bound != 1 {
		t.Errorf("handler constructed %d times, want 1 (default prefix ignored)", bound)
	}
}

func TestApp_LuaModuleDir(t *testing.T) {
	dir := t.TempDir()
	module := `
		return function(el, opts)
			el:setAttribute("data-bound", "yes")
		end
	`
	if err := os.WriteFile(filepath.Join(dir, "lazy.lua"), []byte(module), 0o644); err != nil {
		t.Fatalf("writing module: %v", err)
	}

	a := newApp(t, "module_dir = '"+filepath.ToSlash(dir)+"'")

	doc, err := dom.ParseString(`<html><body><div id="x" class="jsb_lazy"></div></body></html>`)
	if err != nil {
		t.Fatalf("ParseString() failed: %v", err)
	}
	if err := a.Ready(context.Background(), doc); err != nil {
		t.Fatalf("Ready() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}

	el := doc.Root().Find(func(e *dom.Element) bool { return e.GetAttribute("id") == "x" })
	if el == nil {
		t.Fatal("element not found")
	}
	if el.GetAttribute("data-bound") != "yes" {
		t.Error("deferred lua handler did not run")
	}
}

func TestApp_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindstorm.toml")
	if err := os.WriteFile(path, []byte(`module_kind = "python"`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := New(Options{ConfigPath: path, LogOutput: io.Discard}); err == nil {
		t.Error("New() accepted an invalid config")
	}
}
