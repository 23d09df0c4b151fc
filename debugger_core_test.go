// debugger_core_test.go - Tests for the port/time/event breakpoint dispatcher.

package main

import "testing"

func TestDebuggerCorePortBreakpointRequiresActiveMode(t *testing.T) {
	d := NewDebuggerCore(NewScheduler())
	d.AddPortReadBreakpoint(0x00FF, 0x001F)

	if d.CheckPort(BPPortRead, 0x001F) {
		t.Fatalf("breakpoint fired while mode is INACTIVE")
	}

	d.SetMode(ModeActive)
	if !d.CheckPort(BPPortRead, 0x001F) {
		t.Fatalf("breakpoint did not fire once mode is ACTIVE")
	}
	if d.Mode() != ModeHalted {
		t.Fatalf("mode = %v, want ModeHalted after trigger", d.Mode())
	}
}

func TestDebuggerCorePortBreakpointMaskValue(t *testing.T) {
	d := NewDebuggerCore(NewScheduler())
	d.SetMode(ModeActive)
	d.AddPortWriteBreakpoint(0x00FF, 0x00FE) // ULA port only

	if d.CheckPort(BPPortWrite, 0x00FD) {
		t.Fatalf("breakpoint matched an unrelated port")
	}
	if !d.CheckPort(BPPortWrite, 0x00FE) {
		t.Fatalf("breakpoint failed to match its own port")
	}
}

func TestDebuggerCoreTimeBreakpointFiresOnSchedule(t *testing.T) {
	sched := NewScheduler()
	d := NewDebuggerCore(sched)
	d.SetMode(ModeActive)
	d.AddTimeBreakpoint(1000)

	sched.RunUntil(999)
	if d.Mode() == ModeHalted {
		t.Fatalf("time breakpoint fired before its deadline")
	}

	sched.RunUntil(1000)
	if d.Mode() != ModeHalted {
		t.Fatalf("time breakpoint did not fire at its deadline")
	}
}

func TestDebuggerCoreEventBreakpointMatchesTypeAndDetail(t *testing.T) {
	d := NewDebuggerCore(NewScheduler())
	d.SetMode(ModeActive)
	d.AddEventBreakpoint("FDC", "RNF")

	if d.CheckEvent("FDC", "CRCERR") {
		t.Fatalf("event breakpoint matched the wrong detail")
	}
	if !d.CheckEvent("FDC", "RNF") {
		t.Fatalf("event breakpoint failed to match its own type/detail")
	}
}

func TestDebuggerCoreIgnoreCountDelaysTrigger(t *testing.T) {
	d := NewDebuggerCore(NewScheduler())
	d.SetMode(ModeActive)
	id := d.AddPortReadBreakpoint(0xFFFF, 0x0000)
	d.breakpoints[id].ignoreCount = 1

	if d.CheckPort(BPPortRead, 0x0000) {
		t.Fatalf("breakpoint fired while ignore_count > 0")
	}
	if d.Mode() == ModeHalted {
		t.Fatalf("mode changed despite ignored hit")
	}
	if !d.CheckPort(BPPortRead, 0x0000) {
		t.Fatalf("breakpoint did not fire once ignore_count reached 0")
	}
}

func TestDebuggerCoreRemoveCancelsTimeEvent(t *testing.T) {
	sched := NewScheduler()
	d := NewDebuggerCore(sched)
	d.SetMode(ModeActive)
	id := d.AddTimeBreakpoint(500)
	d.Remove(id)

	sched.RunUntil(500)
	if d.Mode() == ModeHalted {
		t.Fatalf("removed time breakpoint still fired")
	}
}
