// debugger_core.go - breakpoint-kind dispatch and the debugger's mode FSM
// (spec §4.8's C9): port and timed/event breakpoints, which sit outside
// what DebugZ80's per-instruction breakpoint/watchpoint map already covers
// (EXEC and memory WRITE).

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

// BreakpointKind names what a core breakpoint matches against, per spec
// §4.8. EXEC/READ/WRITE are left to DebugZ80's existing breakpoint/
// watchpoint map; the kinds modelled here (PORT_READ/PORT_WRITE/TIME/
// EVENT) have no other home in this codebase.
type BreakpointKind int

const (
	BPPortRead BreakpointKind = iota
	BPPortWrite
	BPTime
	BPEvent
)

// DebuggerMode is the debugger's run state (spec §4.8): INACTIVE means no
// breakpoint checking happens at all, ACTIVE checks every call, HALTED
// means a breakpoint has fired and the monitor owns the machine until it
// resumes (mirrors MachineMonitor's freeze, which already drives HALTED
// in practice via FreezeAll/Resume).
type DebuggerMode int

const (
	ModeInactive DebuggerMode = iota
	ModeActive
	ModeHalted
)

// coreBreakpoint is one non-CPU breakpoint entry.
type coreBreakpoint struct {
	id          uint64
	kind        BreakpointKind
	portMask    uint16
	portValue   uint16
	tstate      int64
	timeEvent   *Event
	eventType   string
	eventDetail string
	ignoreCount int
	oneShot     bool
}

// DebuggerCore holds the port/time/event breakpoint list and the mode FSM,
// independent of which CPU is focused (spec §4.8).
type DebuggerCore struct {
	scheduler   *Scheduler
	mode        DebuggerMode
	nextID      uint64
	breakpoints map[uint64]*coreBreakpoint
	onTrigger   func(id uint64)
}

func NewDebuggerCore(scheduler *Scheduler) *DebuggerCore {
	return &DebuggerCore{scheduler: scheduler, mode: ModeInactive, breakpoints: make(map[uint64]*coreBreakpoint)}
}

func (d *DebuggerCore) SetMode(m DebuggerMode) { d.mode = m }
func (d *DebuggerCore) Mode() DebuggerMode      { return d.mode }

// OnTrigger installs the callback invoked when a breakpoint fires (the
// monitor wires this to its own freeze-and-focus handling).
func (d *DebuggerCore) OnTrigger(fn func(id uint64)) { d.onTrigger = fn }

func (d *DebuggerCore) addPort(kind BreakpointKind, mask, value uint16) uint64 {
	d.nextID++
	id := d.nextID
	d.breakpoints[id] = &coreBreakpoint{id: id, kind: kind, portMask: mask, portValue: value}
	return id
}

func (d *DebuggerCore) AddPortReadBreakpoint(mask, value uint16) uint64  { return d.addPort(BPPortRead, mask, value) }
func (d *DebuggerCore) AddPortWriteBreakpoint(mask, value uint16) uint64 { return d.addPort(BPPortWrite, mask, value) }

// AddTimeBreakpoint fires once the scheduler's T-state cursor reaches
// tstate; it also seeds a BREAKPOINT event so a check is guaranteed even
// if nothing else happens to call Check at that instant (spec §4.8).
func (d *DebuggerCore) AddTimeBreakpoint(tstate int64) uint64 {
	d.nextID++
	id := d.nextID
	bp := &coreBreakpoint{id: id, kind: BPTime, tstate: tstate}
	bp.timeEvent = d.scheduler.Schedule(tstate, EventBreakpoint, id, func(payload interface{}) {
		d.CheckTime(d.scheduler.Now())
	})
	d.breakpoints[id] = bp
	return id
}

// AddEventBreakpoint matches a peripheral-registered (type, detail) pair
// (spec §4.8's EVENT kind).
func (d *DebuggerCore) AddEventBreakpoint(eventType, detail string) uint64 {
	d.nextID++
	id := d.nextID
	d.breakpoints[id] = &coreBreakpoint{id: id, kind: BPEvent, eventType: eventType, eventDetail: detail}
	return id
}

// Remove deletes a breakpoint; TIME breakpoints also cancel their own
// scheduled BREAKPOINT event (spec §4.8: "if the breakpoint was a TIME
// type, also null out the matching BREAKPOINT event") without disturbing
// any other TIME breakpoint's pending event.
func (d *DebuggerCore) Remove(id uint64) {
	bp, ok := d.breakpoints[id]
	if !ok {
		return
	}
	if bp.kind == BPTime {
		d.scheduler.Cancel(bp.timeEvent)
	}
	delete(d.breakpoints, id)
}

func (d *DebuggerCore) trigger(bp *coreBreakpoint) bool {
	if bp.ignoreCount > 0 {
		bp.ignoreCount--
		return false
	}
	d.mode = ModeHalted
	if d.onTrigger != nil {
		d.onTrigger(bp.id)
	}
	if bp.oneShot {
		delete(d.breakpoints, bp.id)
	}
	return true
}

// CheckPort evaluates PORT_READ/PORT_WRITE breakpoints against a just-
// performed port access (spec §4.8: `(value & mask) == port`).
func (d *DebuggerCore) CheckPort(kind BreakpointKind, port uint16) bool {
	if d.mode != ModeActive {
		return false
	}
	for _, bp := range d.breakpoints {
		if bp.kind != kind {
			continue
		}
		if (port & bp.portMask) == bp.portValue {
			if d.trigger(bp) {
				return true
			}
		}
	}
	return false
}

// CheckTime evaluates TIME breakpoints against the current T-state cursor.
func (d *DebuggerCore) CheckTime(now int64) bool {
	if d.mode != ModeActive {
		return false
	}
	for _, bp := range d.breakpoints {
		if bp.kind == BPTime && now >= bp.tstate {
			if d.trigger(bp) {
				return true
			}
		}
	}
	return false
}

// CheckEvent evaluates EVENT breakpoints against a peripheral-reported
// (type, detail) pair.
func (d *DebuggerCore) CheckEvent(eventType, detail string) bool {
	if d.mode != ModeActive {
		return false
	}
	for _, bp := range d.breakpoints {
		if bp.kind == BPEvent && bp.eventType == eventType && bp.eventDetail == detail {
			if d.trigger(bp) {
				return true
			}
		}
	}
	return false
}
