// debug_lua_test.go - Tests for the embedded Lua scripting surface.

package main

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func newLuaTestMonitor() (*MachineMonitor, *DebugZ80) {
	rig := newCPUZ80TestRig()
	cpu := NewDebugZ80(rig.cpu)
	m := &MachineMonitor{
		cpus:      map[int]*CPUEntry{1: {ID: 1, Label: "Z80", CPU: cpu}},
		focusedID: 1,
	}
	return m, cpu
}

func TestLuaPokeAndPeekRoundTrip(t *testing.T) {
	m, _ := newLuaTestMonitor()
	e := NewLuaEngine(m)
	defer e.Close()

	if err := e.Run(`poke(0x8000, 42)`); err != nil {
		t.Fatalf("poke failed: %v", err)
	}
	if err := e.Run(`v = peek(0x8000)`); err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	got, ok := e.L.GetGlobal("v").(lua.LNumber)
	if !ok || got != 42 {
		t.Fatalf("peek returned %v, want 42", got)
	}
}

func TestLuaStepAdvancesPC(t *testing.T) {
	m, cpu := newLuaTestMonitor()
	e := NewLuaEngine(m)
	defer e.Close()

	cpu.cpu.PC = 0x4000
	cpu.cpu.bus.Write(0x4000, 0x00) // NOP

	if err := e.Run(`step()`); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if cpu.cpu.PC != 0x4001 {
		t.Fatalf("PC = %#04x, want 0x4001 after a NOP step", cpu.cpu.PC)
	}
}

func TestLuaBreakpointSetsConditionalBreakpoint(t *testing.T) {
	m, cpu := newLuaTestMonitor()
	e := NewLuaEngine(m)
	defer e.Close()

	if err := e.Run(`bp(0x9000, "A==1")`); err != nil {
		t.Fatalf("bp failed: %v", err)
	}
	if !cpu.HasBreakpoint(0x9000) {
		t.Fatalf("breakpoint not set at 0x9000")
	}
	if cond := cpu.GetConditionalBreakpoint(0x9000); cond == nil || cond.Condition == nil {
		t.Fatalf("conditional breakpoint missing its condition")
	}
}

func TestLuaHostFunctionsRequireFocusedCPU(t *testing.T) {
	m := &MachineMonitor{cpus: map[int]*CPUEntry{}, focusedID: 1}
	e := NewLuaEngine(m)
	defer e.Close()

	if err := e.Run(`peek(0)`); err == nil {
		t.Fatalf("expected an error with no CPU focused")
	}
}
