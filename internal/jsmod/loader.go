// Package jsmod loads handler factories from JavaScript modules.
//
// A module lives at <dir>/<key>.js, with slashes in the key becoming path
// separators. Modules use a CommonJS-style surface: assign the handler
// constructor to exports.default or to module.exports directly. The
// constructor is invoked with (element, options).
package jsmod

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dop251/goja"

	"github.com/dshills/bindstorm/internal/dom"
	"github.com/dshills/bindstorm/internal/handler"
	"github.com/dshills/bindstorm/internal/options"
)

// Loader implements handler.Loader over a directory of JavaScript modules.
type Loader struct {
	dir string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Path returns the file a key resolves to.
func (l *Loader) Path(key string) string {
	return filepath.Join(l.dir, filepath.FromSlash(key)+".js")
}

// Load loads the module for key. A missing module yields a nil factory
// without error; a script error or a module without a callable export is
// a load error.
func (l *Loader) Load(ctx context.Context, key string) (handler.Factory, error) {
	path := l.Path(key)
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := vm.Set("module", module); err != nil {
		return nil, err
	}
	if err := vm.Set("exports", exports); err != nil {
		return nil, err
	}

	if _, err := vm.RunScript(path, string(src)); err != nil {
		return nil, fmt.Errorf("loading js module %s: %w", path, err)
	}

	construct, err := defaultExport(vm, module, path)
	if err != nil {
		return nil, err
	}

	// A goja runtime is single-threaded; constructions are serialized.
	var mu sync.Mutex
	factory := func(el *dom.Element, opts options.Values) error {
		mu.Lock()
		defer mu.Unlock()

		var optsValue goja.Value = goja.Undefined()
		if opts != nil {
			optsValue = vm.ToValue(map[string]any(opts))
		}

		if _, err := construct(goja.Undefined(), elementObject(vm, el), optsValue); err != nil {
			return fmt.Errorf("js handler %s: %w", key, err)
		}
		return nil
	}
	return factory, nil
}

// defaultExport picks the handler constructor from the module surface:
// exports.default when callable, otherwise module.exports itself.
func defaultExport(vm *goja.Runtime, module *goja.Object, path string) (goja.Callable, error) {
	exportsValue := module.Get("exports")
	if obj, ok := exportsValue.(*goja.Object); ok {
		if fn, ok := goja.AssertFunction(obj.Get("default")); ok {
			return fn, nil
		}
	}
	if fn, ok := goja.AssertFunction(exportsValue); ok {
		return fn, nil
	}
	return nil, fmt.Errorf("js module %s: no callable default export", path)
}

// elementObject exposes an element to scripts with a DOM-flavoured surface.
func elementObject(vm *goja.Runtime, el *dom.Element) *goja.Object {
	obj := vm.NewObject()
	_ = obj.Set("tagName", el.TagName())
	_ = obj.Set("getAttribute", func(name string) string {
		return el.GetAttribute(name)
	})
	_ = obj.Set("setAttribute", func(name, value string) {
		el.SetAttribute(name, value)
	})
	_ = obj.Set("hasAttribute", func(name string) bool {
		return el.HasAttribute(name)
	})
	_ = obj.Set("addClass", func(token string) {
		el.ClassList().Add(token)
	})
	_ = obj.Set("removeClass", func(token string) {
		el.ClassList().Remove(token)
	})
	_ = obj.Set("hasClass", func(token string) bool {
		return el.ClassList().Contains(token)
	})
	return obj
}
