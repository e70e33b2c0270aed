package modules

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/stripd/internal/command"
)

// LuaToGo converts a Lua value to a Go value. Tables with only positive
// integer keys become slices, anything else becomes a map.
func LuaToGo(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	case *lua.LTable:
		if n, ok := sequenceLen(val); ok {
			arr := make([]any, n)
			for i := range arr {
				arr[i] = LuaToGo(val.RawGetInt(i + 1))
			}
			return arr
		}
		return LuaTableToMap(val)
	case *lua.LNilType:
		return nil
	default:
		return v.String()
	}
}

// sequenceLen reports the highest index of a table keyed only by
// positive integers.
func sequenceLen(tbl *lua.LTable) (int, bool) {
	n, seq := 0, true
	tbl.ForEach(func(k, _ lua.LValue) {
		num, ok := k.(lua.LNumber)
		if !ok || num < 1 {
			seq = false
			return
		}
		n = max(n, int(num))
	})
	return n, seq && n > 0
}

// GoToLuaValue converts a command reply or a plain Go value to a Lua value.
func GoToLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case command.StatusReply:
		return statusTable(L, val)
	case command.OverrideReply:
		tbl := L.NewTable()
		L.SetField(tbl, "applied", lua.LNumber(val.Applied))
		L.SetField(tbl, "skipped", lua.LNumber(val.Skipped))
		return tbl
	case []any:
		tbl := L.NewTable()
		for i, item := range val {
			tbl.RawSetInt(i+1, GoToLuaValue(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, GoToLuaValue(L, item))
		}
		return tbl
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}

// statusTable mirrors the JSON status reply. Overrides are keyed by
// 1-based pixel index.
func statusTable(L *lua.LState, st command.StatusReply) *lua.LTable {
	tbl := L.NewTable()
	L.SetField(tbl, "mode", lua.LString(st.Mode))
	L.SetField(tbl, "color", lua.LString(st.Color))
	L.SetField(tbl, "interval_ms", lua.LNumber(st.IntervalMs))
	L.SetField(tbl, "leds", lua.LNumber(st.Leds))
	if st.Animation != "" {
		L.SetField(tbl, "animation", lua.LString(st.Animation))
	}
	if len(st.Overrides) > 0 {
		overrides := L.NewTable()
		for _, o := range st.Overrides {
			overrides.RawSetInt(o.Index+1, lua.LString(o.Color))
		}
		L.SetField(tbl, "overrides", overrides)
	}
	return tbl
}

// LuaTableToMap collects the string-keyed fields of a Lua table.
func LuaTableToMap(tbl *lua.LTable) map[string]any {
	m := make(map[string]any)
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = LuaToGo(v)
		}
	})
	return m
}
