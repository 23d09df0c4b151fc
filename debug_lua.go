// debug_lua.go - embedded Lua scripting surface for the Machine Monitor

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LuaEngine exposes bp/poke/peek/step to user scripts, grounded on the same
// gopher-lua host-function pattern the teacher's meta-programming layer
// uses. Every call resolves against the monitor's currently focused CPU, so
// a script sees whatever "cpu <id>" last selected, same as a console command
// would.
type LuaEngine struct {
	L       *lua.LState
	monitor *MachineMonitor
}

// NewLuaEngine creates a fresh interpreter bound to monitor and registers the
// debugger's host API as Lua globals.
func NewLuaEngine(monitor *MachineMonitor) *LuaEngine {
	e := &LuaEngine{
		L:       lua.NewState(),
		monitor: monitor,
	}
	e.L.SetGlobal("bp", e.L.NewFunction(e.luaBreakpoint))
	e.L.SetGlobal("poke", e.L.NewFunction(e.luaPoke))
	e.L.SetGlobal("peek", e.L.NewFunction(e.luaPeek))
	e.L.SetGlobal("step", e.L.NewFunction(e.luaStep))
	return e
}

// Close releases the interpreter's state.
func (e *LuaEngine) Close() {
	e.L.Close()
}

// Run executes a snippet of user Lua, returning any interpreter error.
func (e *LuaEngine) Run(code string) error {
	if err := e.L.DoString(code); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

func (e *LuaEngine) focusedCPU() DebuggableCPU {
	entry := e.monitor.cpus[e.monitor.focusedID]
	if entry == nil {
		return nil
	}
	return entry.CPU
}

// luaBreakpoint implements bp(addr [, cond]): sets a breakpoint at addr,
// optionally guarded by a condition string parsed the same way the console
// "b" command parses one.
func (e *LuaEngine) luaBreakpoint(L *lua.LState) int {
	cpu := e.focusedCPU()
	if cpu == nil {
		L.RaiseError("bp: no CPU focused")
		return 0
	}
	addr := uint64(L.CheckNumber(1))
	if L.GetTop() >= 2 {
		condStr := L.CheckString(2)
		cond, err := ParseCondition(condStr)
		if err != nil {
			L.RaiseError("bp: invalid condition: %s", err)
			return 0
		}
		cpu.SetConditionalBreakpoint(addr, cond)
		return 0
	}
	cpu.SetBreakpoint(addr)
	return 0
}

// luaPoke implements poke(addr, value): writes a single byte.
func (e *LuaEngine) luaPoke(L *lua.LState) int {
	cpu := e.focusedCPU()
	if cpu == nil {
		L.RaiseError("poke: no CPU focused")
		return 0
	}
	addr := uint64(L.CheckNumber(1))
	value := byte(L.CheckNumber(2))
	cpu.WriteMemory(addr, []byte{value})
	return 0
}

// luaPeek implements peek(addr): reads a single byte, returned to Lua.
func (e *LuaEngine) luaPeek(L *lua.LState) int {
	cpu := e.focusedCPU()
	if cpu == nil {
		L.RaiseError("peek: no CPU focused")
		return 0
	}
	addr := uint64(L.CheckNumber(1))
	data := cpu.ReadMemory(addr, 1)
	L.Push(lua.LNumber(data[0]))
	return 1
}

// luaStep implements step(): executes a single instruction on the focused
// CPU, returning the cycle count.
func (e *LuaEngine) luaStep(L *lua.LState) int {
	cpu := e.focusedCPU()
	if cpu == nil {
		L.RaiseError("step: no CPU focused")
		return 0
	}
	L.Push(lua.LNumber(cpu.Step()))
	return 1
}
