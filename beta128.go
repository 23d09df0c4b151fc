// beta128.go - Beta-128 disk interface: wires a WD1793 FDC onto the
// 0x1F/0x3F/0x5F/0x7F/0xFF port group (spec §6's port-decode table) and
// registers it with the peripheral registry.

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

// Beta128 couples a WD1793 to the TR-DOS port group and its system
// register (drive select bits 0-1, side bit 4, HRST bit 2).
type Beta128 struct {
	FDC      *WD17xxFDC
	AutoBoot bool

	sysReg uint8
}

func NewBeta128(scheduler *Scheduler) *Beta128 {
	return &Beta128{FDC: NewWD17xxFDC(WD1793FD(), scheduler)}
}

// WD1793FD returns the FD1793 variant, the chip real Beta-128 boards use.
func WD1793FD() FDCType { return FD1793 }

func (b *Beta128) writeSystem(v uint8) {
	b.sysReg = v
	b.FDC.SelectDrive(int(v & 0x03))
	side := 0
	if v&0x10 == 0 {
		side = 1
	}
	if d := b.FDC.drive(); d != nil {
		d.Side = side
	}
}

// Ports returns the five Beta-128 port entries for registration with the
// peripheral registry (spec §6: `(port & 0x00FF) ∈ {0x1F,0x3F,0x5F,0x7F,0xFF}`).
func (b *Beta128) Ports() []PortEntry {
	return []PortEntry{
		{Mask: 0x00FF, Value: 0x001F,
			Read:  func(uint16) (byte, bool) { return b.FDC.ReadStatus(), true },
			Write: func(_ uint16, v byte) { b.FDC.WriteCommand(v) }},
		{Mask: 0x00FF, Value: 0x003F,
			Read:  func(uint16) (byte, bool) { return b.FDC.ReadTrackRegister(), true },
			Write: func(_ uint16, v byte) { b.FDC.WriteTrackRegister(v) }},
		{Mask: 0x00FF, Value: 0x005F,
			Read:  func(uint16) (byte, bool) { return b.FDC.ReadSectorRegister(), true },
			Write: func(_ uint16, v byte) { b.FDC.WriteSectorRegister(v) }},
		{Mask: 0x00FF, Value: 0x007F,
			Read:  func(uint16) (byte, bool) { return b.FDC.ReadData(), true },
			Write: func(_ uint16, v byte) { b.FDC.WriteData(v) }},
		{Mask: 0x00FF, Value: 0x00FF,
			Read: func(uint16) (byte, bool) {
				var v byte = 0x3F
				if b.FDC.IRQ() {
					v |= 0x80
				}
				if b.FDC.DRQ() {
					v |= 0x40
				}
				return v, true
			},
			Write: func(_ uint16, v byte) { b.writeSystem(v) }},
	}
}
