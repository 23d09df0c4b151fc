// z80_bus_adapter.go - wires the Z80 CPU-decode collaborator to the memory
// map, port dispatcher and scheduler, applying contention at the point of
// access rather than inside the CPU's own stepping loop.

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

// Z80Core wraps the teacher's CPU_Z80 decode/ALU engine: register file, flag
// tables and instruction dispatch are reused verbatim for opcode semantics,
// while bus access is redirected through MemoryMap/PortDispatcher so
// contention and port decode happen exactly once, at the scheduler's
// control.
type Z80Core struct {
	*CPU_Z80
	bridge *z80Bridge
}

// z80Bridge implements Z80Bus against the emulator's collaborators. Every
// Read/Write/In/Out charges contention immediately before performing the
// access (mirroring how real emulators apply contend_read/contend_port right
// before the bus transaction), then Tick forwards the instruction's base
// cost to the scheduler. This split is required because the CPU core calls
// tick() once per instruction with the total cycle cost, not once per
// M-cycle, so per-access contention cannot live inside tick().
type z80Bridge struct {
	mem   *MemoryMap
	ports *PortDispatcher
	sched *Scheduler

	// rzxIn, when set, intercepts every IN instruction's result. readBus
	// performs the real port dispatch; recording calls it and observes the
	// result, playback substitutes the recorded byte and never calls it.
	rzxIn func(port uint16, readBus func() byte) byte
}

func newZ80Bridge(mem *MemoryMap, ports *PortDispatcher, sched *Scheduler) *z80Bridge {
	return &z80Bridge{mem: mem, ports: ports, sched: sched}
}

// SetRZXHook installs the RZX recorder/player's IN interceptor.
func (b *z80Bridge) SetRZXHook(fn func(port uint16, readBus func() byte) byte) {
	b.rzxIn = fn
}

// NewZ80Core builds the CPU-decode collaborator wired to the given machine
// collaborators.
func NewZ80Core(mem *MemoryMap, ports *PortDispatcher, sched *Scheduler) *Z80Core {
	bridge := newZ80Bridge(mem, ports, sched)
	return &Z80Core{CPU_Z80: NewCPU_Z80(bridge), bridge: bridge}
}

// SetRZXHook installs the RZX recorder/player's IN interceptor on this
// core's bus bridge.
func (c *Z80Core) SetRZXHook(fn func(port uint16, readBus func() byte) byte) {
	c.bridge.SetRZXHook(fn)
}

func (b *z80Bridge) Read(addr uint16) byte {
	b.contendMemory(addr)
	return b.mem.ReadByte(addr)
}

func (b *z80Bridge) Write(addr uint16, value byte) {
	b.contendMemory(addr)
	b.mem.WriteByte(addr, value)
}

// contendMemory applies the per-machine contention table at the current
// T-state if addr sits on a contended page (spec §4.2/§4.3, scenario E1).
func (b *z80Bridge) contendMemory(addr uint16) {
	if !b.mem.Contended(addr) {
		return
	}
	delay := b.mem.ContentionDelay(b.sched.Now())
	if delay > 0 {
		b.sched.Advance(delay)
	}
}

// In reads a port. Early contention is charged before the access; if the
// port also addresses the ULA, late contention is added afterward, per
// spec §4.3: "add contention delay at the early beat; add again at the late
// beat if addressing the ULA."
func (b *z80Bridge) In(port uint16) byte {
	b.contendPortEarly(port)
	var v byte
	if b.rzxIn != nil {
		v = b.rzxIn(port, func() byte { return b.ports.Read(port) })
	} else {
		v = b.ports.Read(port)
	}
	b.contendPortLate(port)
	return v
}

func (b *z80Bridge) Out(port uint16, value byte) {
	b.contendPortEarly(port)
	b.ports.Write(port, value)
	b.contendPortLate(port)
}

func (b *z80Bridge) contendPortEarly(port uint16) {
	contendedPage := b.mem.Contended(uint16(port))
	if (port&0x0001) == 0 || contendedPage {
		if delay := b.mem.ContentionDelay(b.sched.Now()); delay > 0 {
			b.sched.Advance(delay)
		}
		return
	}
	// Odd port in an uncontended page: 4 uncontended cycles only.
	b.sched.Advance(4)
}

func (b *z80Bridge) contendPortLate(port uint16) {
	if port&0x0001 == 0 {
		if delay := b.mem.ContentionDelay(b.sched.Now()); delay > 0 {
			b.sched.Advance(delay)
		}
	}
}

// Tick forwards the instruction's base cycle cost to the scheduler's T-state
// cursor. Per-instruction granularity only: the CPU core calls this once
// per opcode with the opcode's total cost.
func (b *z80Bridge) Tick(cycles int) {
	b.sched.Advance(cycles)
}
