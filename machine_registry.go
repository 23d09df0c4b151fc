// machine_registry.go - per-machine timing tables and memory layout: the
// 48K/128K/+2/+2A/+3/Pentagon variants each get their own T-state-per-frame
// count, contention table and ROM/RAM page plan (spec §4.4).

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

import "fmt"

// MachineKind identifies a specific Spectrum model/clone.
type MachineKind int

const (
	Machine48K MachineKind = iota
	Machine128K
	MachinePlus2
	MachinePlus2A
	MachinePlus3
	MachinePentagon
	MachineScorpion
	MachineTC2048
	MachineTC2068
	MachineTS2068
	MachineSE
)

func (k MachineKind) String() string {
	switch k {
	case Machine48K:
		return "48K"
	case Machine128K:
		return "128K"
	case MachinePlus2:
		return "+2"
	case MachinePlus2A:
		return "+2A"
	case MachinePlus3:
		return "+3"
	case MachinePentagon:
		return "Pentagon"
	case MachineScorpion:
		return "Scorpion"
	case MachineTC2048:
		return "TC2048"
	case MachineTC2068:
		return "TC2068"
	case MachineTS2068:
		return "TS2068"
	case MachineSE:
		return "SE"
	}
	return "unknown"
}

// MachineTiming carries the per-model constants that drive the scheduler and
// the ULA's frame geometry (spec §4.4, §4.10): T-states per scanline, lines
// per frame and the interrupt pulse length all vary by model.
type MachineTiming struct {
	TStatesPerFrame  int64
	TStatesPerLine   int64
	ScanlinesTotal   int
	FirstScreenLine  int
	IntLengthTStates int64
	RAMBanks         int // number of 16K RAM banks available for paging
	HasAY            bool
	HasFDC           bool
}

// machineTimings is the registry of per-model constants, grounded on the
// well-known Spectrum timing figures (69888 T-states/frame at 48K, 70908 at
// 128K/+2/+2A/+3 owing to the extra 4 T-states/line from the AY contended
// cycle).
var machineTimings = map[MachineKind]MachineTiming{
	Machine48K: {
		TStatesPerFrame: 69888, TStatesPerLine: 224, ScanlinesTotal: 312,
		FirstScreenLine: 64, IntLengthTStates: 32, RAMBanks: 3, HasAY: false,
	},
	Machine128K: {
		TStatesPerFrame: 70908, TStatesPerLine: 228, ScanlinesTotal: 311,
		FirstScreenLine: 63, IntLengthTStates: 36, RAMBanks: 8, HasAY: true,
	},
	MachinePlus2: {
		TStatesPerFrame: 70908, TStatesPerLine: 228, ScanlinesTotal: 311,
		FirstScreenLine: 63, IntLengthTStates: 36, RAMBanks: 8, HasAY: true,
	},
	MachinePlus2A: {
		TStatesPerFrame: 70908, TStatesPerLine: 228, ScanlinesTotal: 311,
		FirstScreenLine: 63, IntLengthTStates: 36, RAMBanks: 8, HasAY: true, HasFDC: true,
	},
	MachinePlus3: {
		TStatesPerFrame: 70908, TStatesPerLine: 228, ScanlinesTotal: 311,
		FirstScreenLine: 63, IntLengthTStates: 36, RAMBanks: 8, HasAY: true, HasFDC: true,
	},
	MachinePentagon: {
		TStatesPerFrame: 71680, TStatesPerLine: 224, ScanlinesTotal: 320,
		FirstScreenLine: 80, IntLengthTStates: 32, RAMBanks: 8, HasAY: true,
	},
	MachineScorpion: {
		TStatesPerFrame: 71680, TStatesPerLine: 224, ScanlinesTotal: 320,
		FirstScreenLine: 80, IntLengthTStates: 32, RAMBanks: 16, HasAY: true, HasFDC: true,
	},
	MachineTC2048: {
		TStatesPerFrame: 69888, TStatesPerLine: 224, ScanlinesTotal: 312,
		FirstScreenLine: 64, IntLengthTStates: 32, RAMBanks: 3, HasAY: false,
	},
	MachineTC2068: {
		TStatesPerFrame: 69888, TStatesPerLine: 224, ScanlinesTotal: 312,
		FirstScreenLine: 64, IntLengthTStates: 32, RAMBanks: 3, HasAY: true,
	},
	MachineTS2068: {
		TStatesPerFrame: 69888, TStatesPerLine: 224, ScanlinesTotal: 312,
		FirstScreenLine: 64, IntLengthTStates: 32, RAMBanks: 3, HasAY: true,
	},
	MachineSE: {
		TStatesPerFrame: 70908, TStatesPerLine: 228, ScanlinesTotal: 311,
		FirstScreenLine: 63, IntLengthTStates: 36, RAMBanks: 8, HasAY: true,
	},
}

// ParseMachineKind maps a CLI/config string onto a MachineKind.
func ParseMachineKind(name string) (MachineKind, error) {
	switch name {
	case "48k", "48":
		return Machine48K, nil
	case "128k", "128":
		return Machine128K, nil
	case "+2", "plus2":
		return MachinePlus2, nil
	case "+2a", "plus2a":
		return MachinePlus2A, nil
	case "+3", "plus3":
		return MachinePlus3, nil
	case "pentagon":
		return MachinePentagon, nil
	case "scorpion":
		return MachineScorpion, nil
	case "tc2048":
		return MachineTC2048, nil
	case "tc2068":
		return MachineTC2068, nil
	case "ts2068":
		return MachineTS2068, nil
	case "se":
		return MachineSE, nil
	}
	return Machine48K, fmt.Errorf("unknown machine %q", name)
}

// contendedLineTable builds one line's worth of contention delays for the
// classic "6,5,4,3,2,1,0,0 repeating" ULA contention pattern used by the
// 48K/128K timing model: contention applies only while the beam is drawing
// the visible screen area, for the 128 T-states during which the ULA fetches
// bitmap/attribute bytes.
func contendedLineTable(firstContendedT, lineLength int64) []int {
	pattern := []int{6, 5, 4, 3, 2, 1, 0, 0}
	table := make([]int, lineLength)
	for t := int64(0); t < lineLength; t++ {
		rel := t - firstContendedT
		if rel < 0 || rel >= 128 {
			continue
		}
		table[t] = pattern[rel%8]
	}
	return table
}

// BuildContentionTable expands the per-line pattern across every scanline of
// the frame, indexed by absolute T-state (spec §4.2's per-access contention
// invariant: MemoryMap.ContentionDelay(t) must return the delay for whatever
// T-state the CPU is at when it touches a contended page).
func BuildContentionTable(timing MachineTiming) []int {
	total := timing.TStatesPerFrame
	table := make([]int, total)
	line := contendedLineTable(timing.TStatesPerLine-128-24, timing.TStatesPerLine)
	for y := 0; y < timing.ScanlinesTotal; y++ {
		base := int64(y) * timing.TStatesPerLine
		if y < timing.FirstScreenLine || y >= timing.FirstScreenLine+192 {
			continue
		}
		for i, d := range line {
			idx := base + int64(i)
			if idx >= total {
				break
			}
			table[idx] = d
		}
	}
	return table
}

// RAMPage is one 16K logical RAM bank's contents, independent of which 8K
// MemoryMap slots it is currently paged into.
type RAMPage struct {
	Data      []byte
	Contended bool // bank 5 and (on 128K+) odd banks are contended
}

// MachineLayout owns ROM images and RAM banks and knows how to program a
// MemoryMap's eight read/write slots for the current paging state, per
// spec §4.4's "memory-map recomputation on page-register write" operation.
type MachineLayout struct {
	Kind    MachineKind
	ROMs    [][]byte // one or more 16K ROM images (ROM0/ROM1 for 128K+)
	RAM     []RAMPage
	romBank int
	ramBank int // current bank paged into 0xC000-0xFFFF (128K+ models)
	shadow  bool
}

// NewMachineLayout allocates zeroed RAM banks for the given machine kind.
// ROM images are supplied separately via LoadROM since they come from files
// the user points Settings at, not anything this registry can synthesize.
func NewMachineLayout(kind MachineKind) *MachineLayout {
	timing := machineTimings[kind]
	banks := make([]RAMPage, timing.RAMBanks)
	for i := range banks {
		banks[i] = RAMPage{
			Data:      make([]byte, 0x4000),
			Contended: i == 5 || (timing.RAMBanks > 3 && i%2 == 1),
		}
	}
	return &MachineLayout{Kind: kind, RAM: banks}
}

// LoadROM installs a 16K ROM image at the given index (0 = 48K ROM / 128K
// editor ROM, 1 = 128K BASIC ROM, and so on for +2A/+3's four-ROM set).
func (m *MachineLayout) LoadROM(index int, data []byte) error {
	if len(data) != 0x4000 {
		return fmt.Errorf("ROM image must be exactly 16384 bytes, got %d", len(data))
	}
	for len(m.ROMs) <= index {
		m.ROMs = append(m.ROMs, nil)
	}
	m.ROMs[index] = data
	return nil
}

// Apply programs every one of mem's eight 8K slots to reflect the current
// ROM/RAM bank selection. Machines with fewer than 8 RAM banks (48K, TC2048,
// TC2068, TS2068) have no 128K-style paging port: their three 16K banks map
// straight to slots 2-7 in order. 128K-family machines (128K, +2, +2A, +3,
// Pentagon, Scorpion, SE) recompute the chip-5/paged-bank layout on every
// 0x7FFD write via SetPaging.
func (m *MachineLayout) Apply(mem *MemoryMap) {
	rom := m.currentROM()
	for slot := 0; slot < 2; slot++ {
		off := slot * PageSize
		mem.Map(slot, Page{
			Buffer: rom[off : off+PageSize], Source: SourceROM,
			PageNumber: m.romBank, Writable: false,
		})
	}

	if machineTimings[m.Kind].RAMBanks < 8 {
		m.mapBank(mem, 2, 0, 0)
		m.mapBank(mem, 3, 0, 1)
		m.mapBank(mem, 4, 1, 0)
		m.mapBank(mem, 5, 1, 1)
		m.mapBank(mem, 6, 2, 0)
		m.mapBank(mem, 7, 2, 1)
		return
	}

	// bit 3 of the 128K paging port switches the ULA's rendered screen bank
	// between 5 and 7 on every 128K-capability machine, not just the +3.
	screenBank := 5
	if m.shadow {
		screenBank = 7
	}
	m.mapBank(mem, 2, screenBank, 0)
	m.mapBank(mem, 3, screenBank, 1)
	m.mapBank(mem, 4, 2, 0)
	m.mapBank(mem, 5, 2, 1)
	m.mapBank(mem, 6, m.ramBank, 0)
	m.mapBank(mem, 7, m.ramBank, 1)
}

// mapBank maps one 8K half of bank into mem's slot, using bankContended's
// bounds-checked lookup rather than indexing m.RAM directly.
func (m *MachineLayout) mapBank(mem *MemoryMap, slot, bank, half int) {
	mem.Map(slot, Page{
		Buffer: m.bankSlice(bank, half), Source: SourceRAM,
		PageNumber: bank, Writable: true, Contended: m.bankContended(bank),
	})
}

func (m *MachineLayout) bankContended(bank int) bool {
	if bank < 0 || bank >= len(m.RAM) {
		return false
	}
	return m.RAM[bank].Contended
}

func (m *MachineLayout) currentROM() []byte {
	if m.romBank < len(m.ROMs) && m.ROMs[m.romBank] != nil {
		return m.ROMs[m.romBank]
	}
	return make([]byte, 0x8000)
}

func (m *MachineLayout) bankSlice(bank, half int) []byte {
	if bank >= len(m.RAM) {
		return make([]byte, PageSize)
	}
	off := half * PageSize
	return m.RAM[bank].Data[off : off+PageSize]
}

// PagingState is the layout's current bank/ROM selection, for save-state use.
type PagingState struct {
	ROMBank, RAMBank int
	Shadow           bool
}

func (m *MachineLayout) PagingState() PagingState {
	return PagingState{ROMBank: m.romBank, RAMBank: m.ramBank, Shadow: m.shadow}
}

// RestorePaging reinstates a captured PagingState and reprograms mem to
// match, same as a live 0x7FFD/0x1FFD write would.
func (m *MachineLayout) RestorePaging(mem *MemoryMap, p PagingState) {
	m.romBank, m.ramBank, m.shadow = p.ROMBank, p.RAMBank, p.Shadow
	m.Apply(mem)
}

// SetPaging decodes a write to the 128K/+2/+2A/+3 paging port 0x7FFD (RAM
// bank, shadow screen, ROM select) and reprograms mem. The +2A/+3's 0x1FFD
// port is not decoded here.
// disablePaging latches the bit-5 "further writes ignored until reset" trap.
func (m *MachineLayout) SetPaging(mem *MemoryMap, value byte, disablePaging *bool) {
	if *disablePaging {
		return
	}
	m.ramBank = int(value & 0x07)
	m.romBank = int((value >> 4) & 0x01)
	m.shadow = (value>>3)&0x01 != 0
	if value&0x20 != 0 {
		*disablePaging = true
	}
	m.Apply(mem)
}
