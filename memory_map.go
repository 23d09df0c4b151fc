// memory_map.go - Paged memory map for the ZX Spectrum core.

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

const (
	PageSize  = 0x2000 // 8KiB
	PageShift = 13
	PageMask  = PageSize - 1
	NumSlots  = 8 // 64KiB / 8KiB
)

// PageSource tags where a page's backing buffer comes from.
type PageSource int

const (
	SourceEmpty PageSource = iota
	SourceROM
	SourceRAM
	SourcePeripheral
)

// Page is a single 8KiB memory-map slot descriptor.
type Page struct {
	Buffer       []byte // backing buffer, sliced to exactly PageSize on assignment
	Source       PageSource
	PageNumber   int // page number within its source (bank index)
	Writable     bool
	Contended    bool
	SaveSnapshot bool
}

// PageEvent is fired whenever a paging operation rebuilds a slot, so debugger
// scripts can trap the page/unpage boundary.
type PageEvent struct {
	Slot int
	In   Page
	Out  Page
}

// MemoryMap holds the eight read slots and eight write slots that make up the
// live 64KiB Z80 address space, plus the per-machine contention table.
//
// Invariant: reading address a returns read[a>>13].Buffer[a&0x1FFF]; writing
// obeys Writable (configurable relaxation for "writable ROMs").
type MemoryMap struct {
	read  [NumSlots]Page
	write [NumSlots]Page

	contentionTable []int // indexed by T-state within frame
	scheduler       *Scheduler

	ula ULAContentionSink // notified on VRAM writes; see ula_ports.go

	onPage func(PageEvent) // debugger hook; nil if no debugger attached
}

// ULAContentionSink is the narrow observer interface the memory map uses to
// notify the ULA when a write lands on the current display page, per spec
// §4.2 ("if the write hits the current display page... the display
// collaborator is notified"). Kept narrow rather than a raw function pointer,
// per the design notes on callback-shaped cooperation.
type ULAContentionSink interface {
	HandleVRAMWrite(offset uint16, value byte)
}

// NewMemoryMap returns an empty memory map. The caller (machine registry)
// populates ROM/RAM pages and the contention table during reset.
func NewMemoryMap(sched *Scheduler) *MemoryMap {
	return &MemoryMap{scheduler: sched}
}

// AttachULA wires the display collaborator that gets notified on VRAM writes.
func (m *MemoryMap) AttachULA(ula ULAContentionSink) { m.ula = ula }

// SetPageHook installs the debugger's page/unpage notification callback.
func (m *MemoryMap) SetPageHook(fn func(PageEvent)) { m.onPage = fn }

// SetContentionTable installs the per-machine contend_delay(t) table built
// at reset.
func (m *MemoryMap) SetContentionTable(table []int) { m.contentionTable = table }

// MapRead assigns a read-side page to a slot and fires a page event.
func (m *MemoryMap) MapRead(slot int, p Page) {
	old := m.read[slot]
	m.read[slot] = p
	if m.onPage != nil {
		m.onPage(PageEvent{Slot: slot, In: p, Out: old})
	}
}

// MapWrite assigns a write-side page to a slot and fires a page event.
func (m *MemoryMap) MapWrite(slot int, p Page) {
	old := m.write[slot]
	m.write[slot] = p
	if m.onPage != nil {
		m.onPage(PageEvent{Slot: slot, In: p, Out: old})
	}
}

// Map assigns the same page descriptor to both the read and write slot, the
// common case for plain RAM/ROM banks.
func (m *MemoryMap) Map(slot int, p Page) {
	m.MapRead(slot, p)
	m.MapWrite(slot, p)
}

// ReadPage returns the current read-side descriptor for a slot (debugger use).
func (m *MemoryMap) ReadPage(slot int) Page { return m.read[slot] }

// WritePage returns the current write-side descriptor for a slot (debugger use).
func (m *MemoryMap) WritePage(slot int) Page { return m.write[slot] }

// ReadByte returns the byte at addr with no contention side effect; callers
// that need contention charge it explicitly via Contend before calling this
// (see z80_bus_adapter.go, which applies contention at the point of access).
func (m *MemoryMap) ReadByte(addr uint16) byte {
	p := &m.read[addr>>PageShift]
	if p.Buffer == nil {
		return 0xFF // open bus: unmapped slot
	}
	return p.Buffer[addr&PageMask]
}

// WriteByte stores a byte at addr, respecting the Writable flag, and notifies
// the ULA when the write lands on the screen bitmap+attribute range of the
// current display page (the low 6144+768 bytes of a page tagged Contended
// that also happens to be the active screen bank; the machine registry marks
// that page's contents so ordinary RAM slots elsewhere are unaffected).
func (m *MemoryMap) WriteByte(addr uint16, value byte) {
	slot := addr >> PageShift
	p := &m.write[slot]
	if p.Buffer == nil || !p.Writable {
		return
	}
	offset := addr & PageMask
	p.Buffer[offset] = value
	if p.Contended && m.ula != nil && offset < ULA_BITMAP_SIZE+ULA_ATTR_SIZE {
		m.ula.HandleVRAMWrite(offset, value)
	}
}

// Contended reports whether the given address currently sits on a page
// flagged contended, used by the bus adapter to decide whether to consult
// the contention table at all.
func (m *MemoryMap) Contended(addr uint16) bool {
	return m.read[addr>>PageShift].Contended
}

// ContentionDelay returns the number of wait cycles the per-machine table
// assigns to the given T-state, or 0 if the table is empty or t is outside
// the current frame (table entries beyond the recorded length are 0).
func (m *MemoryMap) ContentionDelay(t int64) int {
	if len(m.contentionTable) == 0 {
		return 0
	}
	idx := t
	if idx < 0 {
		idx = 0
	}
	if int(idx) >= len(m.contentionTable) {
		return 0
	}
	return m.contentionTable[idx]
}
