package luamod

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/bindstorm/internal/dom"
)

const elementTypeName = "bindstorm.element"

// registerElementType installs the element userdata metatable in a state.
func registerElementType(L *lua.LState) {
	mt := L.NewTypeMetatable(elementTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), elementMethods))
}

// wrapElement wraps an element as Lua userdata.
func wrapElement(L *lua.LState, el *dom.Element) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = el
	L.SetMetatable(ud, L.GetTypeMetatable(elementTypeName))
	return ud
}

func checkElement(L *lua.LState) *dom.Element {
	ud := L.CheckUserData(1)
	if el, ok := ud.Value.(*dom.Element); ok {
		return el
	}
	L.ArgError(1, "element expected")
	return nil
}

var elementMethods = map[string]lua.LGFunction{
	"tagName": func(L *lua.LState) int {
		L.Push(lua.LString(checkElement(L).TagName()))
		return 1
	},
	"getAttribute": func(L *lua.LState) int {
		el := checkElement(L)
		L.Push(lua.LString(el.GetAttribute(L.CheckString(2))))
		return 1
	},
	"setAttribute": func(L *lua.LState) int {
		el := checkElement(L)
		el.SetAttribute(L.CheckString(2), L.CheckString(3))
		return 0
	},
	"hasAttribute": func(L *lua.LState) int {
		el := checkElement(L)
		L.Push(lua.LBool(el.HasAttribute(L.CheckString(2))))
		return 1
	},
	"addClass": func(L *lua.LState) int {
		el := checkElement(L)
		el.ClassList().Add(L.CheckString(2))
		return 0
	},
	"removeClass": func(L *lua.LState) int {
		el := checkElement(L)
		el.ClassList().Remove(L.CheckString(2))
		return 0
	},
	"hasClass": func(L *lua.LState) int {
		el := checkElement(L)
		L.Push(lua.LBool(el.ClassList().Contains(L.CheckString(2))))
		return 1
	},
}

// toLuaValue converts a Go value to its Lua representation.
func toLuaValue(L *lua.LState, v any) lua.LValue {
	switch v := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case map[string]any:
		t := L.NewTable()
		for key, value := range v {
			t.RawSetString(key, toLuaValue(L, value))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, value := range v {
			t.Append(toLuaValue(L, value))
		}
		return t
	default:
		return lua.LNil
	}
}
