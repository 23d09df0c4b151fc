// snapshot.go - whole-machine save state: CPU registers, every RAM bank,
// the current paging selection and the ULA/AY/FDC/tape sub-states needed to
// resume a machine exactly where it left off (SPEC_FULL.md's Snapshot
// collaborator). Distinct from debug_snapshot.go's MachineSnapshot, which
// captures only the CPU and its currently-mapped 64K for the debugger's
// single-CPU backstep/save-state commands; MachineState is the full machine
// RZX rollback and the monitor's whole-machine save/load commands use.

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	machineStateMagic   = "IEMC"
	machineStateVersion = 1
)

// ErrSnapshotNotImplemented is the error for state a SnapshotCodec does not
// cover. NativeCodec never returns it; Opus Discovery state is simply left
// out of MachineState.
var ErrSnapshotNotImplemented = errors.New("snapshot: not implemented")

// MachineState is everything needed to resume a machine: CPU registers and
// interrupt state, every RAM bank (not just the 64K currently paged in),
// the paging selection, and the ULA/AY/FDC/tape sub-states a restore needs
// to put those peripherals back where they were.
type MachineState struct {
	CPURegisters []RegisterInfo
	IFF1, IFF2   bool
	IM           uint8
	Halted       bool

	RAMBanks [][]byte
	Paging   PagingState

	Border uint8

	HasAY      bool
	AYSelected uint8
	AYRegs     [PSG_REG_COUNT]uint8

	HasFDC         bool
	FDC            FDCRegs
	TapeBlockIndex int
}

// SnapshotCodec marshals a MachineState to and from a byte stream. The
// on-disk layout is this codec's own, not a real .sna/.z80 file — spec.md's
// Non-goals exclude interop with external emulators' save formats.
type SnapshotCodec interface {
	Load(r io.Reader) (*MachineState, error)
	Save(w io.Writer, state *MachineState) error
}

// CaptureMachineState reads every collaborator EmulatorCore owns into a
// MachineState, for handing to a SnapshotCodec or to RZX's IRB rollback.
func CaptureMachineState(c *EmulatorCore) *MachineState {
	cpu := NewDebugZ80(c.CPU.CPU_Z80)
	state := &MachineState{
		CPURegisters: cpu.GetRegisters(),
		IFF1:         c.CPU.IFF1,
		IFF2:         c.CPU.IFF2,
		IM:           c.CPU.IM,
		Halted:       c.CPU.Halted,
		Paging:       c.Layout.PagingState(),
		Border:       c.ULA.Border(),
	}
	state.RAMBanks = make([][]byte, len(c.Layout.RAM))
	for i, bank := range c.Layout.RAM {
		state.RAMBanks[i] = append([]byte(nil), bank.Data...)
	}
	if c.PSG != nil {
		state.HasAY = true
		state.AYSelected, state.AYRegs = c.PSG.SnapshotRegisters()
	}
	if c.Beta != nil {
		state.HasFDC = true
		state.FDC = c.Beta.FDC.SnapshotRegs()
	}
	if c.Tape != nil {
		state.TapeBlockIndex = c.Tape.BlockIndex()
	}
	return state
}

// RestoreMachineState reinstates a MachineState into a live EmulatorCore.
func RestoreMachineState(c *EmulatorCore, state *MachineState) {
	cpu := NewDebugZ80(c.CPU.CPU_Z80)
	for _, r := range state.CPURegisters {
		cpu.SetRegister(r.Name, r.Value)
	}
	c.CPU.IFF1, c.CPU.IFF2, c.CPU.IM, c.CPU.Halted = state.IFF1, state.IFF2, state.IM, state.Halted

	for i, data := range state.RAMBanks {
		if i < len(c.Layout.RAM) {
			copy(c.Layout.RAM[i].Data, data)
		}
	}
	c.Layout.RestorePaging(c.Memory, state.Paging)
	c.ULA.WritePort(state.Border)

	if state.HasAY && c.PSG != nil {
		c.PSG.RestoreRegisters(state.AYSelected, state.AYRegs)
	}
	if state.HasFDC && c.Beta != nil {
		c.Beta.FDC.RestoreRegs(state.FDC)
	}
	if c.Tape != nil {
		c.Tape.SetBlockIndex(state.TapeBlockIndex)
	}
}

// NativeCodec is the default SnapshotCodec: a flat binary layout in the
// teacher's own debug_snapshot.go style (magic, version, length-prefixed
// fields), gzip being unnecessary here since RAM banks are already small.
type NativeCodec struct{}

func (NativeCodec) Save(w io.Writer, s *MachineState) error {
	var buf bytes.Buffer
	buf.WriteString(machineStateMagic)
	binary.Write(&buf, binary.LittleEndian, uint32(machineStateVersion))

	binary.Write(&buf, binary.LittleEndian, uint32(len(s.CPURegisters)))
	for _, r := range s.CPURegisters {
		writeString(&buf, r.Name)
		binary.Write(&buf, binary.LittleEndian, r.Value)
		binary.Write(&buf, binary.LittleEndian, uint32(r.BitWidth))
		writeString(&buf, r.Group)
	}
	writeBool(&buf, s.IFF1)
	writeBool(&buf, s.IFF2)
	buf.WriteByte(s.IM)
	writeBool(&buf, s.Halted)

	binary.Write(&buf, binary.LittleEndian, uint32(len(s.RAMBanks)))
	for _, bank := range s.RAMBanks {
		binary.Write(&buf, binary.LittleEndian, uint32(len(bank)))
		buf.Write(bank)
	}
	binary.Write(&buf, binary.LittleEndian, int32(s.Paging.ROMBank))
	binary.Write(&buf, binary.LittleEndian, int32(s.Paging.RAMBank))
	writeBool(&buf, s.Paging.Shadow)

	buf.WriteByte(s.Border)

	writeBool(&buf, s.HasAY)
	buf.WriteByte(s.AYSelected)
	buf.Write(s.AYRegs[:])

	writeBool(&buf, s.HasFDC)
	buf.WriteByte(s.FDC.Command)
	buf.WriteByte(s.FDC.Status)
	buf.WriteByte(s.FDC.Track)
	buf.WriteByte(s.FDC.Sector)
	buf.WriteByte(s.FDC.Data)
	binary.Write(&buf, binary.LittleEndian, int32(s.FDC.CurrentDrive))

	binary.Write(&buf, binary.LittleEndian, int32(s.TapeBlockIndex))

	_, err := w.Write(buf.Bytes())
	return err
}

func (NativeCodec) Load(r io.Reader) (*MachineState, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufByteReader{r}
	}
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != machineStateMagic {
		return nil, fmt.Errorf("invalid machine state magic: %q", string(magic))
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != machineStateVersion {
		return nil, fmt.Errorf("unsupported machine state version: %d", version)
	}

	s := &MachineState{}
	var regCount uint32
	if err := binary.Read(r, binary.LittleEndian, &regCount); err != nil {
		return nil, fmt.Errorf("reading register count: %w", err)
	}
	s.CPURegisters = make([]RegisterInfo, regCount)
	for i := range s.CPURegisters {
		name, err := readString(r, br)
		if err != nil {
			return nil, fmt.Errorf("reading register name: %w", err)
		}
		var value uint64
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return nil, fmt.Errorf("reading register value: %w", err)
		}
		var width uint32
		if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
			return nil, fmt.Errorf("reading register width: %w", err)
		}
		group, err := readString(r, br)
		if err != nil {
			return nil, fmt.Errorf("reading register group: %w", err)
		}
		s.CPURegisters[i] = RegisterInfo{Name: name, Value: value, BitWidth: int(width), Group: group}
	}

	var err error
	if s.IFF1, err = readBool(br); err != nil {
		return nil, err
	}
	if s.IFF2, err = readBool(br); err != nil {
		return nil, err
	}
	if s.IM, err = br.ReadByte(); err != nil {
		return nil, fmt.Errorf("reading IM: %w", err)
	}
	if s.Halted, err = readBool(br); err != nil {
		return nil, err
	}

	var bankCount uint32
	if err := binary.Read(r, binary.LittleEndian, &bankCount); err != nil {
		return nil, fmt.Errorf("reading RAM bank count: %w", err)
	}
	s.RAMBanks = make([][]byte, bankCount)
	for i := range s.RAMBanks {
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("reading RAM bank size: %w", err)
		}
		bank := make([]byte, size)
		if _, err := io.ReadFull(r, bank); err != nil {
			return nil, fmt.Errorf("reading RAM bank: %w", err)
		}
		s.RAMBanks[i] = bank
	}

	var romBank, ramBank int32
	if err := binary.Read(r, binary.LittleEndian, &romBank); err != nil {
		return nil, fmt.Errorf("reading ROM bank: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &ramBank); err != nil {
		return nil, fmt.Errorf("reading RAM bank selection: %w", err)
	}
	shadow, err := readBool(br)
	if err != nil {
		return nil, err
	}
	s.Paging = PagingState{ROMBank: int(romBank), RAMBank: int(ramBank), Shadow: shadow}

	if s.Border, err = br.ReadByte(); err != nil {
		return nil, fmt.Errorf("reading border: %w", err)
	}

	if s.HasAY, err = readBool(br); err != nil {
		return nil, err
	}
	if s.AYSelected, err = br.ReadByte(); err != nil {
		return nil, fmt.Errorf("reading AY selected register: %w", err)
	}
	if _, err := io.ReadFull(r, s.AYRegs[:]); err != nil {
		return nil, fmt.Errorf("reading AY registers: %w", err)
	}

	if s.HasFDC, err = readBool(br); err != nil {
		return nil, err
	}
	if s.FDC.Command, err = br.ReadByte(); err != nil {
		return nil, fmt.Errorf("reading FDC command register: %w", err)
	}
	if s.FDC.Status, err = br.ReadByte(); err != nil {
		return nil, fmt.Errorf("reading FDC status register: %w", err)
	}
	if s.FDC.Track, err = br.ReadByte(); err != nil {
		return nil, fmt.Errorf("reading FDC track register: %w", err)
	}
	if s.FDC.Sector, err = br.ReadByte(); err != nil {
		return nil, fmt.Errorf("reading FDC sector register: %w", err)
	}
	if s.FDC.Data, err = br.ReadByte(); err != nil {
		return nil, fmt.Errorf("reading FDC data register: %w", err)
	}
	var curDrive int32
	if err := binary.Read(r, binary.LittleEndian, &curDrive); err != nil {
		return nil, fmt.Errorf("reading FDC current drive: %w", err)
	}
	s.FDC.CurrentDrive = int(curDrive)

	var tapeBlock int32
	if err := binary.Read(r, binary.LittleEndian, &tapeBlock); err != nil {
		return nil, fmt.Errorf("reading tape block index: %w", err)
	}
	s.TapeBlockIndex = int(tapeBlock)

	return s, nil
}

func writeString(buf *bytes.Buffer, s string) {
	b := []byte(s)
	buf.WriteByte(byte(len(b)))
	buf.Write(b)
}

func readString(r io.Reader, br io.ByteReader) (string, error) {
	n, err := br.ReadByte()
	if err != nil {
		return "", fmt.Errorf("reading string length: %w", err)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("reading string bytes: %w", err)
	}
	return string(b), nil
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(br io.ByteReader) (bool, error) {
	b, err := br.ReadByte()
	if err != nil {
		return false, fmt.Errorf("reading bool: %w", err)
	}
	return b != 0, nil
}

// bufByteReader adapts an io.Reader with no ReadByte of its own (a plain
// bytes.Reader already satisfies io.ByteReader and skips this path).
type bufByteReader struct{ io.Reader }

func (b bufByteReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.Reader, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
