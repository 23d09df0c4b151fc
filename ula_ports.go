// ula_ports.go - port dispatcher: mask/value decode across the ULA, the
// AY-3-8912 register pair and the Kempston joystick, AND-combining matching
// reads the way real Spectrum hardware floats its open bus.

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

// PortEntry is a single peripheral port registration: matched whenever
// (port & Mask) == Value, per spec §3's peripheral port entry data model.
type PortEntry struct {
	Mask  uint16
	Value uint16
	Read  func(port uint16) (byte, bool) // bool reports whether this entry drives the bus at all
	Write func(port uint16, value byte)
}

// PortDispatcher AND-combines every matching entry's read result (simulating
// an undriven bus floating high where nothing responds) and fans out writes
// to every matching entry's writer, per spec §4.9's peripheral registry
// contract.
type PortDispatcher struct {
	entries []PortEntry

	onRead  func(port uint16)
	onWrite func(port uint16)
}

func NewPortDispatcher() *PortDispatcher {
	return &PortDispatcher{}
}

// SetDebugHooks wires the debugger core's PORT_READ/PORT_WRITE breakpoint
// checks into every port access (spec §4.8). Either hook may be nil.
func (d *PortDispatcher) SetDebugHooks(onRead, onWrite func(port uint16)) {
	d.onRead = onRead
	d.onWrite = onWrite
}

// Add registers a port entry. Order does not matter: matching is purely by
// mask/value, and reads AND-combine regardless of registration order.
func (d *PortDispatcher) Add(e PortEntry) {
	d.entries = append(d.entries, e)
}

// Remove drops every entry with the given mask/value pair (peripheral
// deactivation, spec §4.9).
func (d *PortDispatcher) Remove(mask, value uint16) {
	kept := d.entries[:0]
	for _, e := range d.entries {
		if e.Mask == mask && e.Value == value {
			continue
		}
		kept = append(kept, e)
	}
	d.entries = kept
}

func (d *PortDispatcher) Read(port uint16) byte {
	if d.onRead != nil {
		d.onRead(port)
	}
	result := byte(0xFF)
	driven := false
	for _, e := range d.entries {
		if e.Read == nil || (port&e.Mask) != e.Value {
			continue
		}
		if v, ok := e.Read(port); ok {
			result &= v
			driven = true
		}
	}
	if !driven {
		return 0xFF
	}
	return result
}

func (d *PortDispatcher) Write(port uint16, value byte) {
	if d.onWrite != nil {
		d.onWrite(port)
	}
	for _, e := range d.entries {
		if e.Write == nil || (port&e.Mask) != e.Value {
			continue
		}
		e.Write(port, value)
	}
}

// AttachULA registers the ULA's even-port decode: reads return the keyboard/
// tape/mic byte, writes set border/MIC/beeper (spec §4.3, §6).
func (d *PortDispatcher) AttachULA(ula *ULAEngine) {
	d.Add(PortEntry{
		Mask:  0x0001,
		Value: 0x0000,
		Read:  func(port uint16) (byte, bool) { return ula.ReadPort(port), true },
		Write: func(_ uint16, value byte) { ula.WritePort(value) },
	})
}

// AttachAY registers the 128K/+2/+2A/+3 AY-3-8912 register-select (0xFFFD)
// and data (0xBFFD) port pair.
func (d *PortDispatcher) AttachAY(psg *PSGEngine) {
	d.Add(PortEntry{
		Mask:  0xC002,
		Value: 0xC000,
		Read:  func(uint16) (byte, bool) { return psg.ReadSelected(), true },
		Write: func(_ uint16, value byte) { psg.SelectRegister(value) },
	})
	d.Add(PortEntry{
		Mask:  0xC002,
		Value: 0x8000,
		Read:  func(uint16) (byte, bool) { return psg.ReadSelected(), true },
		Write: func(_ uint16, value byte) { psg.WriteSelected(value) },
	})
}

// kempstonState holds the live Kempston joystick button mask (000FUDLR: bit
// 4 fire, bit 3 up, bit 2 down, bit 1 left, bit 0 right).
type kempstonState struct {
	mask byte
}

func (k *kempstonState) Set(mask byte) { k.mask = mask & 0x1F }
func (k *kempstonState) Get() byte     { return k.mask }

// AttachKempston registers the Kempston joystick interface port decode
// (spec §6: `(port & 0x00E0) == 0x0000`).
func (d *PortDispatcher) AttachKempston(state *kempstonState) {
	d.Add(PortEntry{
		Mask:  0x00E0,
		Value: 0x0000,
		Read:  func(uint16) (byte, bool) { return state.Get(), true },
	})
}

// kempstonMouseState holds the live Kempston mouse position and button
// mask (bit 0 left, bit 1 right button, set while pressed; the buttons
// port returns it inverted, active low).
type kempstonMouseState struct {
	x, y    byte
	buttons byte
}

func (m *kempstonMouseState) SetPosition(x, y byte) { m.x, m.y = x, y }
func (m *kempstonMouseState) SetButtons(mask byte)  { m.buttons = mask & 0x03 }

// kempstonMousePorts returns the three port entries the Kempston mouse
// interface answers (spec §6): buttons, X position, Y position.
func kempstonMousePorts(state *kempstonMouseState) []PortEntry {
	return []PortEntry{
		{Mask: 0x0121, Value: 0x0001, Read: func(uint16) (byte, bool) { return ^state.buttons | 0xFC, true }},
		{Mask: 0x0521, Value: 0x0101, Read: func(uint16) (byte, bool) { return state.x, true }},
		{Mask: 0x0521, Value: 0x0501, Read: func(uint16) (byte, bool) { return state.y, true }},
	}
}
