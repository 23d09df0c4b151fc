// snapshot_test.go - Tests for the whole-machine state codec's round-trip
// fidelity, exercised directly against MachineState rather than through a
// fully wired EmulatorCore.

package main

import (
	"bytes"
	"testing"
)

func sampleMachineState() *MachineState {
	return &MachineState{
		CPURegisters: []RegisterInfo{
			{Name: "A", BitWidth: 8, Value: 0x42, Group: "general"},
			{Name: "PC", BitWidth: 16, Value: 0x8000, Group: "general"},
		},
		IFF1: true, IFF2: false, IM: 1, Halted: false,
		RAMBanks: [][]byte{
			append(make([]byte, 0, 4), 1, 2, 3, 4),
			append(make([]byte, 0, 4), 5, 6, 7, 8),
		},
		Paging: PagingState{ROMBank: 1, RAMBank: 3, Shadow: true},
		Border: 4,
		HasAY:  true, AYSelected: 7,
		AYRegs:         [PSG_REG_COUNT]uint8{0: 0xAA, 13: 0x0F},
		HasFDC:         true,
		FDC:            FDCRegs{Command: 0x80, Status: 0x01, Track: 10, Sector: 3, Data: 0xFF, CurrentDrive: 1},
		TapeBlockIndex: 5,
	}
}

func TestNativeCodecRoundTrip(t *testing.T) {
	want := sampleMachineState()
	var buf bytes.Buffer
	if err := (NativeCodec{}).Save(&buf, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := (NativeCodec{}).Load(&buf)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(got.CPURegisters) != len(want.CPURegisters) {
		t.Fatalf("register count = %d, want %d", len(got.CPURegisters), len(want.CPURegisters))
	}
	for i, r := range want.CPURegisters {
		if got.CPURegisters[i] != r {
			t.Fatalf("register %d = %+v, want %+v", i, got.CPURegisters[i], r)
		}
	}
	if got.IFF1 != want.IFF1 || got.IFF2 != want.IFF2 || got.IM != want.IM || got.Halted != want.Halted {
		t.Fatalf("interrupt state mismatch: got %+v", got)
	}
	if len(got.RAMBanks) != len(want.RAMBanks) {
		t.Fatalf("RAM bank count = %d, want %d", len(got.RAMBanks), len(want.RAMBanks))
	}
	for i := range want.RAMBanks {
		if !bytes.Equal(got.RAMBanks[i], want.RAMBanks[i]) {
			t.Fatalf("RAM bank %d = %v, want %v", i, got.RAMBanks[i], want.RAMBanks[i])
		}
	}
	if got.Paging != want.Paging {
		t.Fatalf("paging = %+v, want %+v", got.Paging, want.Paging)
	}
	if got.Border != want.Border {
		t.Fatalf("border = %d, want %d", got.Border, want.Border)
	}
	if got.HasAY != want.HasAY || got.AYSelected != want.AYSelected || got.AYRegs != want.AYRegs {
		t.Fatalf("AY state mismatch: got %+v", got)
	}
	if got.HasFDC != want.HasFDC || got.FDC != want.FDC {
		t.Fatalf("FDC state mismatch: got %+v, want %+v", got.FDC, want.FDC)
	}
	if got.TapeBlockIndex != want.TapeBlockIndex {
		t.Fatalf("tape block index = %d, want %d", got.TapeBlockIndex, want.TapeBlockIndex)
	}
}

func TestNativeCodecLoadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("XXXX")
	if _, err := (NativeCodec{}).Load(&buf); err == nil {
		t.Fatalf("expected an error for a bad magic header")
	}
}

// TestDebugZ80RegisterRoundTripIncludesShadowAndIR exercises
// CaptureMachineState/RestoreMachineState's register plumbing directly
// against a DebugZ80, rather than NativeCodec's byte layout, to confirm the
// shadow registers and I/R survive a capture-then-restore round trip and
// aren't silently dropped by SetRegister.
func TestDebugZ80RegisterRoundTripIncludesShadowAndIR(t *testing.T) {
	rig := newCPUZ80TestRig()
	src := NewDebugZ80(rig.cpu)
	rig.cpu.A, rig.cpu.A2 = 0x11, 0x22
	rig.cpu.F, rig.cpu.F2 = 0x33, 0x44
	rig.cpu.B, rig.cpu.B2 = 0x55, 0x66
	rig.cpu.I, rig.cpu.R = 0x77, 0x88
	regs := src.GetRegisters()

	dstRig := newCPUZ80TestRig()
	dst := NewDebugZ80(dstRig.cpu)
	for _, r := range regs {
		if ok := dst.SetRegister(r.Name, r.Value); !ok {
			t.Fatalf("SetRegister(%q) reported unhandled register", r.Name)
		}
	}

	if dstRig.cpu.A2 != 0x22 || dstRig.cpu.F2 != 0x44 || dstRig.cpu.B2 != 0x66 {
		t.Fatalf("shadow registers not restored: A'=%#x F'=%#x B'=%#x", dstRig.cpu.A2, dstRig.cpu.F2, dstRig.cpu.B2)
	}
	if dstRig.cpu.I != 0x77 || dstRig.cpu.R != 0x88 {
		t.Fatalf("I/R not restored: I=%#x R=%#x", dstRig.cpu.I, dstRig.cpu.R)
	}
	if dstRig.cpu.A != 0x11 || dstRig.cpu.F != 0x33 || dstRig.cpu.B != 0x55 {
		t.Fatalf("primary registers not restored: A=%#x F=%#x B=%#x", dstRig.cpu.A, dstRig.cpu.F, dstRig.cpu.B)
	}
}
