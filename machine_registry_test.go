// machine_registry_test.go - Tests for MachineLayout.Apply's per-family bank
// mapping, covering the 48K-family fixed-bank path and the 128K-family
// shadow-screen paging path.

package main

import "testing"

func newTestLayout(t *testing.T, kind MachineKind) *MachineLayout {
	t.Helper()
	m := NewMachineLayout(kind)
	if err := m.LoadROM(0, make([]byte, 0x4000)); err != nil {
		t.Fatalf("LoadROM(0): %v", err)
	}
	if machineTimings[kind].RAMBanks >= 8 {
		if err := m.LoadROM(1, make([]byte, 0x4000)); err != nil {
			t.Fatalf("LoadROM(1): %v", err)
		}
	}
	return m
}

// TestMachineLayoutApply48KFamilyDoesNotPanic exercises the exact startup
// path (NewEmulatorCore -> Reset -> Layout.Apply) for every machine with
// fewer than 8 RAM banks, where the 128K chip-numbering scheme used to index
// m.RAM out of range.
func TestMachineLayoutApply48KFamilyDoesNotPanic(t *testing.T) {
	for _, kind := range []MachineKind{Machine48K, MachineTC2048, MachineTC2068, MachineTS2068} {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			m := newTestLayout(t, kind)
			mem := NewMemoryMap(NewScheduler())
			m.Apply(mem) // must not panic

			for slot := 2; slot < 8; slot++ {
				p := mem.ReadPage(slot)
				if p.Source != SourceRAM {
					t.Fatalf("slot %d source = %v, want SourceRAM", slot, p.Source)
				}
			}
			if got := mem.ReadPage(2).PageNumber; got != 0 {
				t.Fatalf("slot 2 bank = %d, want 0", got)
			}
			if got := mem.ReadPage(6).PageNumber; got != 2 {
				t.Fatalf("slot 6 bank = %d, want 2", got)
			}
		})
	}
}

// TestMachineLayoutApplyShadowScreenAppliesToPlain128K confirms bit 3 of the
// paging port switches the rendered screen bank on a plain 128K machine, not
// only on the +3.
func TestMachineLayoutApplyShadowScreenAppliesToPlain128K(t *testing.T) {
	m := newTestLayout(t, Machine128K)
	mem := NewMemoryMap(NewScheduler())

	m.Apply(mem)
	if got := mem.ReadPage(2).PageNumber; got != 5 {
		t.Fatalf("screen bank before shadow select = %d, want 5", got)
	}

	m.shadow = true
	m.Apply(mem)
	if got := mem.ReadPage(2).PageNumber; got != 7 {
		t.Fatalf("screen bank after shadow select = %d, want 7", got)
	}
	if got := mem.ReadPage(3).PageNumber; got != 7 {
		t.Fatalf("slot 3 bank after shadow select = %d, want 7", got)
	}
}

// TestMachineLayoutApplyScorpionShadowScreen confirms the same fix extends
// past the +2/+2A/+3 family to any machine with 128K-style paging, including
// the 16-bank Scorpion clone.
func TestMachineLayoutApplyScorpionShadowScreen(t *testing.T) {
	m := newTestLayout(t, MachineScorpion)
	mem := NewMemoryMap(NewScheduler())

	m.shadow = true
	m.Apply(mem)
	if got := mem.ReadPage(2).PageNumber; got != 7 {
		t.Fatalf("screen bank = %d, want 7", got)
	}
}
