package modules

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/stripd/internal/command"
)

// Executor runs a command against the device.
type Executor interface {
	Invoke(req command.Request) command.Result
}

// StripModule exposes the device commands to Lua as the "strip" module
type StripModule struct {
	exec Executor
}

// NewStripModule creates a new strip module
func NewStripModule(exec Executor) *StripModule {
	return &StripModule{exec: exec}
}

// Loader is the module loader for Lua
func (m *StripModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "on", L.NewFunction(m.on))
	L.SetField(mod, "off", L.NewFunction(m.off))
	L.SetField(mod, "animate", L.NewFunction(m.animate))
	L.SetField(mod, "pixels", L.NewFunction(m.pixels))
	L.SetField(mod, "default", L.NewFunction(m.reset))
	L.SetField(mod, "status", L.NewFunction(m.status))
	L.SetField(mod, "num", L.NewFunction(m.num))
	L.SetField(mod, "run", L.NewFunction(m.run))

	L.Push(mod)
	return 1
}

// on(r, g, b)
func (m *StripModule) on(L *lua.LState) int {
	m.invoke(L, command.LedOn, command.Args{
		"r": intArg(L, 1),
		"g": intArg(L, 2),
		"b": intArg(L, 3),
	})
	return 0
}

func (m *StripModule) off(L *lua.LState) int {
	m.invoke(L, command.LedOff, nil)
	return 0
}

// animate(type, r, g, b, delay)
func (m *StripModule) animate(L *lua.LState) int {
	m.invoke(L, command.Animation, command.Args{
		"type":  L.CheckString(1),
		"r":     intArg(L, 2),
		"g":     intArg(L, 3),
		"b":     intArg(L, 4),
		"delay": intArg(L, 5),
	})
	return 0
}

// pixels(list) accepts the wire form "(i,r,g,b)(i,r,g,b)" or a list of
// {i, r, g, b} tables. Returns the number of applied and skipped tuples.
func (m *StripModule) pixels(L *lua.LState) int {
	var tuples string
	switch v := L.CheckAny(1).(type) {
	case lua.LString:
		tuples = string(v)
	case *lua.LTable:
		tuples = tuplesFromTable(L, v)
	default:
		L.ArgError(1, "string or table expected")
		return 0
	}

	res := m.invoke(L, command.SingleLED, command.Args{command.SingleLED: tuples})
	reply, _ := res.Data.(command.OverrideReply)
	L.Push(lua.LNumber(reply.Applied))
	L.Push(lua.LNumber(reply.Skipped))
	return 2
}

func (m *StripModule) reset(L *lua.LState) int {
	m.invoke(L, command.Default, nil)
	return 0
}

// status() returns the device state as a table
func (m *StripModule) status(L *lua.LState) int {
	res := m.invoke(L, command.Status, nil)
	st, _ := res.Data.(command.StatusReply)
	L.Push(statusTable(L, st))
	return 1
}

func (m *StripModule) num(L *lua.LState) int {
	res := m.invoke(L, command.Num, nil)
	n, _ := res.Data.(int)
	L.Push(lua.LNumber(n))
	return 1
}

// run(name, args) - run any registered command with string arguments
func (m *StripModule) run(L *lua.LState) int {
	name := L.CheckString(1)
	argsTable := L.OptTable(2, L.NewTable())

	args := command.Args{}
	for k, v := range LuaTableToMap(argsTable) {
		args[k] = formatArg(v)
	}

	res := m.invoke(L, name, args)
	L.Push(GoToLuaValue(L, res.Data))
	return 1
}

// invoke runs the command and raises a Lua error when it fails.
func (m *StripModule) invoke(L *lua.LState, name string, args command.Args) command.Result {
	log.Debug().Str("command", name).Msg("Running command from Lua")

	res := m.exec.Invoke(command.NewRequest(name, args, "lua"))
	if res.Err != nil {
		L.RaiseError("%s failed: %s", name, res.Err.Error())
	}
	return res
}

func intArg(L *lua.LState, n int) string {
	return fmt.Sprintf("%d", L.CheckInt(n))
}

func formatArg(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", v)
}

func tuplesFromTable(L *lua.LState, tbl *lua.LTable) string {
	var b strings.Builder
	tbl.ForEach(func(_, v lua.LValue) {
		entry, ok := v.(*lua.LTable)
		if !ok {
			L.ArgError(1, "pixel entries must be tables")
			return
		}
		fields := make([]string, 4)
		for i := range fields {
			fields[i] = lua.LVAsString(entry.RawGetInt(i + 1))
			if fields[i] == "" {
				fields[i] = "0"
			}
		}
		b.WriteString("(" + strings.Join(fields, ",") + ")")
	})
	return b.String()
}
