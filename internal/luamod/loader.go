// Package luamod loads handler factories from Lua modules.
//
// A module lives at <dir>/<key>.lua, with slashes in the key becoming
// path separators. The chunk returns the module's export: either a
// function, or a table whose "default" field is a function. The export is
// invoked as the handler constructor with (element, options).
package luamod

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/bindstorm/internal/dom"
	"github.com/dshills/bindstorm/internal/handler"
	"github.com/dshills/bindstorm/internal/options"
)

// Loader implements handler.Loader over a directory of Lua modules.
type Loader struct {
	dir string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Path returns the file a key resolves to.
func (l *Loader) Path(key string) string {
	return filepath.Join(l.dir, filepath.FromSlash(key)+".lua")
}

// Load loads the module for key. A missing module yields a nil factory
// without error, leaving resolution to fail as unresolved; a broken
// module is a load error.
func (l *Loader) Load(ctx context.Context, key string) (handler.Factory, error) {
	path := l.Path(key)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	L := lua.NewState()
	registerElementType(L)
	L.SetContext(ctx)

	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading lua module %s: %w", path, err)
	}

	export, err := moduleExport(L, path)
	if err != nil {
		L.Close()
		return nil, err
	}

	// The state stays alive for the module's lifetime; constructions are
	// serialized because a lua.LState is not safe for concurrent use.
	var mu sync.Mutex
	factory := func(el *dom.Element, opts options.Values) error {
		mu.Lock()
		defer mu.Unlock()

		var optsValue lua.LValue = lua.LNil
		if opts != nil {
			optsValue = toLuaValue(L, map[string]any(opts))
		}

		err := L.CallByParam(lua.P{Fn: export, NRet: 0, Protect: true},
			wrapElement(L, el), optsValue)
		if err != nil {
			return fmt.Errorf("lua handler %s: %w", key, err)
		}
		return nil
	}
	return factory, nil
}

// moduleExport extracts the default export from the chunk's return value.
func moduleExport(L *lua.LState, path string) (*lua.LFunction, error) {
	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case *lua.LFunction:
		return v, nil
	case *lua.LTable:
		if fn, ok := v.RawGetString("default").(*lua.LFunction); ok {
			return fn, nil
		}
		return nil, fmt.Errorf("lua module %s: table export has no default function", path)
	default:
		return nil, fmt.Errorf("lua module %s: export is %s, want function or table", path, ret.Type())
	}
}
