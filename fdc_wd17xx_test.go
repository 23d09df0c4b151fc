// fdc_wd17xx_test.go - Tests for the WD17xx/FD1793 command state machine.

package main

import "testing"

func newTestFDC() (*WD17xxFDC, *FloppyDrive) {
	sched := NewScheduler()
	fdc := NewWD17xxFDC(FD1793, sched)
	drive := &FloppyDrive{Disk: NewDiskImage(StandardMGTGeometry)}
	fdc.AttachDrive(0, drive)
	fdc.SelectDrive(0)
	return fdc, drive
}

func TestFDCRestoreSteppsToTrack0(t *testing.T) {
	fdc, drive := newTestFDC()
	drive.Track = 10

	fdc.WriteCommand(0x00) // Type I Restore, rate index 0
	rate := stepRateMs[FD1793][0] * cyclesPerMs

	// Restore must step one track at a time: after the first step period
	// only one track has been traversed, not all ten.
	fdc.scheduler.RunUntil(fdc.spinUpDelay() + rate)
	if drive.Track != 9 {
		t.Fatalf("track = %d after one step period, want 9 (one track per rate period)", drive.Track)
	}
	if fdc.IRQ() {
		t.Fatalf("Restore raised IRQ before reaching track 0")
	}

	// The remaining 9 steps each consume another full rate period.
	fdc.scheduler.RunUntil(fdc.spinUpDelay() + 10*rate)
	if drive.Track != 0 {
		t.Fatalf("track = %d, want 0 after Restore", drive.Track)
	}
	if fdc.statusReg&stTR00LOST == 0 {
		t.Fatalf("TR00 status bit not set after landing on track 0")
	}
	if !fdc.IRQ() {
		t.Fatalf("Restore did not raise IRQ on completion")
	}
}

func TestFDCReadSectorTransfersData(t *testing.T) {
	fdc, drive := newTestFDC()
	want := make([]byte, StandardMGTGeometry.SectorSize)
	for i := range want {
		want[i] = byte(i * 3)
	}
	drive.Disk.WriteSector(0, 0, 1, want)
	fdc.WriteSectorRegister(1)

	fdc.WriteCommand(0x80) // Type II Read Sector, single
	fdc.scheduler.RunUntil(30 * cyclesPerMs)

	if !fdc.DRQ() {
		t.Fatalf("DRQ not asserted after seek/read completes")
	}
	for i, w := range want {
		got := fdc.ReadData()
		if got != w {
			t.Fatalf("byte %d = %d, want %d", i, got, w)
		}
	}
	if fdc.DRQ() {
		t.Fatalf("DRQ still asserted after the full sector was read")
	}
	if !fdc.IRQ() {
		t.Fatalf("IRQ not raised once the sector transfer completed")
	}
}

func TestFDCWriteProtectedDiskRejectsWrite(t *testing.T) {
	fdc, drive := newTestFDC()
	drive.WriteProtect = true

	fdc.WriteCommand(0xA0) // Type II Write Sector, single
	if fdc.statusReg&stWRPROT == 0 {
		t.Fatalf("write-protect status bit not set")
	}
	if !fdc.IRQ() {
		t.Fatalf("write-protected command did not raise IRQ immediately")
	}
}

func TestFDCRecordNotFoundReportsEvent(t *testing.T) {
	fdc, _ := newTestFDC()
	fdc.WriteSectorRegister(99) // out of range for StandardMGTGeometry

	var gotType, gotDetail string
	fdc.SetEventSink(func(eventType, detail string) {
		gotType, gotDetail = eventType, detail
	})

	fdc.WriteCommand(0x80)
	fdc.scheduler.RunUntil(30 * cyclesPerMs)

	if gotType != "FDC" || gotDetail != "RNF" {
		t.Fatalf("event sink got (%q, %q), want (FDC, RNF)", gotType, gotDetail)
	}
	if fdc.statusReg&stRNF == 0 {
		t.Fatalf("RNF status bit not set")
	}
}

// TestFDCLostDataOnUnservicedDRQ confirms a DRQ left unserviced for a full
// byte period raises LOST and aborts the transfer, distinct from RNF.
func TestFDCLostDataOnUnservicedDRQ(t *testing.T) {
	fdc, drive := newTestFDC()
	want := make([]byte, StandardMGTGeometry.SectorSize)
	drive.Disk.WriteSector(0, 0, 1, want)
	fdc.WriteSectorRegister(1)

	fdc.WriteCommand(0x80) // Type II Read Sector, single
	fdc.scheduler.RunUntil(30 * cyclesPerMs)
	if !fdc.DRQ() {
		t.Fatalf("DRQ not asserted after seek/read completes")
	}

	// Never call ReadData: let the DRQ watchdog elapse.
	fdc.scheduler.RunUntil(30*cyclesPerMs + fdcByteTimeCycles)

	if fdc.DRQ() {
		t.Fatalf("DRQ still asserted after LOST DATA should have aborted the transfer")
	}
	if fdc.statusReg&stTR00LOST == 0 {
		t.Fatalf("LOST status bit not set after an unserviced DRQ")
	}
	if fdc.statusReg&stRNF != 0 {
		t.Fatalf("RNF should not be set by a DRQ timeout")
	}
	if !fdc.IRQ() {
		t.Fatalf("LOST DATA did not raise IRQ")
	}
}

func TestFDCForceInterruptCancelsPendingStep(t *testing.T) {
	fdc, _ := newTestFDC()
	fdc.WriteCommand(0x00) // Restore: schedules a step event
	fdc.WriteCommand(0xD0) // Force Interrupt

	fdc.scheduler.RunUntil(fdc.spinUpDelay() + stepRateMs[FD1793][0]*cyclesPerMs)
	if fdc.statusReg&stBusy != 0 {
		t.Fatalf("busy bit still set after Force Interrupt cancelled the command")
	}
}

func TestFDCReadStatusClearsIRQ(t *testing.T) {
	fdc, _ := newTestFDC()
	fdc.raiseIRQ()
	if !fdc.IRQ() {
		t.Fatalf("expected IRQ set")
	}
	fdc.ReadStatus()
	if fdc.IRQ() {
		t.Fatalf("reading status did not clear IRQ")
	}
}
