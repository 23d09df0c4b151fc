// beta128_test.go - Tests for the Beta-128 port group and system register.

package main

import "testing"

func TestBeta128SystemRegisterSelectsDriveAndSide(t *testing.T) {
	b := NewBeta128(NewScheduler())
	drive := &FloppyDrive{Disk: NewDiskImage(StandardMGTGeometry)}
	b.FDC.AttachDrive(2, drive)

	ports := b.Ports()
	var sysPort PortEntry
	for _, p := range ports {
		if p.Value == 0x00FF {
			sysPort = p
		}
	}

	sysPort.Write(0x00FF, 0x02) // select drive 2, side bit 4 clear -> side 1
	if b.FDC.drive() != drive {
		t.Fatalf("system register write did not select drive 2")
	}
	if drive.Side != 1 {
		t.Fatalf("side = %d, want 1 when bit 4 is clear", drive.Side)
	}

	sysPort.Write(0x00FF, 0x12) // bit 4 set -> side 0
	if drive.Side != 0 {
		t.Fatalf("side = %d, want 0 when bit 4 is set", drive.Side)
	}
}

func TestBeta128PortGroupRoutesToFDC(t *testing.T) {
	b := NewBeta128(NewScheduler())
	drive := &FloppyDrive{Disk: NewDiskImage(StandardMGTGeometry)}
	b.FDC.AttachDrive(0, drive)
	b.FDC.SelectDrive(0)

	ports := b.Ports()
	byValue := make(map[uint16]PortEntry)
	for _, p := range ports {
		byValue[p.Value] = p
	}

	byValue[0x003F].Write(0x003F, 42)
	if got, _ := byValue[0x003F].Read(0x003F); got != 42 {
		t.Fatalf("track register read = %d, want 42", got)
	}

	byValue[0x005F].Write(0x005F, 7)
	if got, _ := byValue[0x005F].Read(0x005F); got != 7 {
		t.Fatalf("sector register read = %d, want 7", got)
	}
}

func TestBeta128SystemPortReportsIRQAndDRQ(t *testing.T) {
	b := NewBeta128(NewScheduler())
	ports := b.Ports()
	var sysPort PortEntry
	for _, p := range ports {
		if p.Value == 0x00FF {
			sysPort = p
		}
	}

	v, _ := sysPort.Read(0x00FF)
	if v&0x80 != 0 || v&0x40 != 0 {
		t.Fatalf("IRQ/DRQ bits set with no pending FDC condition")
	}

	b.FDC.raiseIRQ()
	v, _ = sysPort.Read(0x00FF)
	if v&0x80 == 0 {
		t.Fatalf("IRQ bit not reflected in system port read")
	}
}
