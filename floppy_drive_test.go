// floppy_drive_test.go - Tests for disk image sector addressing and drive
// head mechanics.

package main

import "testing"

func TestDiskImageSectorRoundTrip(t *testing.T) {
	img := NewDiskImage(StandardMGTGeometry)
	want := make([]byte, StandardMGTGeometry.SectorSize)
	for i := range want {
		want[i] = byte(i)
	}

	if !img.WriteSector(5, 1, 3, want) {
		t.Fatalf("WriteSector failed for a valid address")
	}
	got, ok := img.ReadSector(5, 1, 3)
	if !ok {
		t.Fatalf("ReadSector failed for the address just written")
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sector byte %d = %d, want %d", i, got[i], want[i])
		}
	}
	if !img.Dirty() {
		t.Fatalf("image not marked dirty after a write")
	}
}

func TestDiskImageOutOfRangeSector(t *testing.T) {
	img := NewDiskImage(StandardMGTGeometry)
	if _, ok := img.ReadSector(0, 0, 0); ok {
		t.Fatalf("sector 0 should be out of range (sectors are 1-based)")
	}
	if _, ok := img.ReadSector(StandardMGTGeometry.Tracks, 0, 1); ok {
		t.Fatalf("track beyond geometry should be out of range")
	}
}

func TestLoadDiskImageRejectsWrongSize(t *testing.T) {
	if _, err := LoadDiskImage(StandardMGTGeometry, []byte{1, 2, 3}); err == nil {
		t.Fatalf("expected an error for a short image")
	}
}

func TestFloppyDriveStepOutClampsAtTrack0(t *testing.T) {
	drive := &FloppyDrive{}
	drive.StepOut()
	if drive.Track != 0 {
		t.Fatalf("track = %d, want 0 after stepping out at track 0", drive.Track)
	}
	if !drive.AtTrack0() {
		t.Fatalf("AtTrack0 false at track 0")
	}
}

func TestFloppyDriveStepInClampsAtMaxTrack(t *testing.T) {
	drive := &FloppyDrive{Disk: NewDiskImage(StandardMGTGeometry), Track: StandardMGTGeometry.Tracks - 1}
	drive.StepIn()
	if drive.Track != StandardMGTGeometry.Tracks-1 {
		t.Fatalf("track = %d, want clamped at max track %d", drive.Track, StandardMGTGeometry.Tracks-1)
	}
}
