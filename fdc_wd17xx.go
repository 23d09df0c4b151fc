// fdc_wd17xx.go - WD1770/1772/1773/FD1793 floppy controller state machine
// (spec §4.4's C5): command classification, Type I/II/III/IV progression,
// status-register bit semantics and IRQ/DRQ signalling.

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

// FDCType identifies which member of the WD17xx/FD1793 family is fitted;
// it only changes the step-rate table and whether spin-up (1770/72) or
// head-load (1773/93) delay applies (spec §4.4).
type FDCType int

const (
	WD1770 FDCType = iota
	WD1772
	WD1773
	FD1793
)

// stepRateMs is indexed by command bits 0-1; 1772 runs faster than its
// siblings (spec §4.4).
var stepRateMs = map[FDCType][4]int64{
	WD1770: {6, 12, 20, 30},
	WD1773: {6, 12, 20, 30},
	FD1793: {6, 12, 20, 30},
	WD1772: {2, 3, 5, 6},
}

// fdcState names the controller's current command-in-progress phase.
type fdcState int

const (
	fdcIdle fdcState = iota
	fdcSeek
	fdcSeekDelay
	fdcVerify
	fdcRead
	fdcWrite
	fdcReadTrack
	fdcWriteTrack
	fdcReadID
)

// statusView records which command class the status register currently
// represents, since several bits are reinterpreted between Type I and
// Type II/III (spec §4.4).
type statusView int

const (
	statusTypeI statusView = iota
	statusTypeIIorIII
)

// Status register bit positions, shared across both views.
const (
	stBusy     = 1 << 0
	stIndexDRQ = 1 << 1 // Index (Type I) or DRQ (Type II/III)
	stTR00LOST = 1 << 2 // TR00 (Type I) or LOST DATA (Type II/III)
	stCRCERR   = 1 << 3
	stRNF      = 1 << 4 // Record Not Found (Type II/III only), distinct from LOST DATA
	stSpinDDM  = 1 << 5 // motor spun up (Type I) or deleted data mark (read)
	stWRPROT   = 1 << 6
	stNotReady = 1 << 7
)

const cyclesPerMs = 3500 // approx. Z80 clock; FDC timing is not contention-critical

// fdcByteTimeCycles approximates one single-density byte period (8 bits at
// 250kbit/s, 32us) in scheduler cycles: the window the host has to service a
// DRQ before LOST DATA is raised (spec §4.4's "LOST is raised when the host
// fails to service DRQ before the FDC needs the next byte").
const fdcByteTimeCycles = 112

// WD17xxFDC is the floppy controller core. It owns no drives directly;
// AttachDrive wires up to four FloppyDrives by unit number, matching how
// Beta-128/+D/Opus/DISCiPLE select drives via a system port.
type WD17xxFDC struct {
	Type FDCType

	scheduler *Scheduler

	state      fdcState
	statusView statusView
	lastWasTypeI bool

	commandReg uint8
	statusReg  uint8
	trackReg   uint8
	sectorReg  uint8
	dataReg    uint8

	direction  int // +1 step-in, -1 step-out
	dden       bool
	headLoaded bool
	intrq      bool
	datarq     bool

	multiSector bool
	writeCmd    bool
	sectorBuf   []byte
	bufPos      int

	rev int // revolutions remaining while searching for an ID (Type II timeout)

	drives  [4]*FloppyDrive
	current int

	indexHigh bool

	onEvent func(eventType, detail string)
}

func NewWD17xxFDC(kind FDCType, scheduler *Scheduler) *WD17xxFDC {
	f := &WD17xxFDC{Type: kind, scheduler: scheduler}
	f.scheduleIndex()
	return f
}

// SetEventSink wires a reporter for conditions a debugger EVENT breakpoint
// can match against (spec §4.8); the FDC itself doesn't know or care
// whether anything is listening.
func (f *WD17xxFDC) SetEventSink(fn func(eventType, detail string)) {
	f.onEvent = fn
}

func (f *WD17xxFDC) reportEvent(eventType, detail string) {
	if f.onEvent != nil {
		f.onEvent(eventType, detail)
	}
}

// AttachDrive wires a physical drive to unit slot 0-3.
func (f *WD17xxFDC) AttachDrive(unit int, drive *FloppyDrive) {
	if unit < 0 || unit > 3 {
		return
	}
	f.drives[unit] = drive
}

// SelectDrive changes which attached drive subsequent commands address.
func (f *WD17xxFDC) SelectDrive(unit int) {
	if unit >= 0 && unit <= 3 {
		f.current = unit
	}
}

func (f *WD17xxFDC) drive() *FloppyDrive { return f.drives[f.current] }

// scheduleIndex seeds the periodic index-pulse toggle: 10ms high, 190ms
// low (spec §4.4).
func (f *WD17xxFDC) scheduleIndex() {
	delay := int64(10 * cyclesPerMs)
	if f.indexHigh {
		delay = int64(190 * cyclesPerMs)
	}
	f.scheduler.Schedule(f.scheduler.Now()+delay, EventFDCIndex, nil, func(interface{}) {
		f.indexHigh = !f.indexHigh
		if d := f.drive(); d != nil {
			d.ToggleIndex(f.indexHigh)
		}
		f.scheduleIndex()
	})
}

// WriteCommand dispatches a command-register write per its top-bit
// classification (spec §4.4).
func (f *WD17xxFDC) WriteCommand(cmd uint8) {
	f.commandReg = cmd
	f.intrq = false
	switch {
	case cmd&0x80 == 0x00:
		f.execTypeI(cmd)
	case cmd&0xC0 == 0x80:
		f.execTypeII(cmd)
	case cmd&0xF0 == 0xD0:
		f.execTypeIV(cmd)
	case cmd&0xE0 == 0xC0:
		f.execReadAddress()
	default:
		// Read-Track/Write-Track: not modelled at the raw-cell level: report
		// immediate completion with no error, matching an always-formatted
		// disk image rather than streaming raw track content.
		f.statusView = statusTypeIIorIII
		f.statusReg = 0
		f.raiseIRQ()
	}
}

func (f *WD17xxFDC) raiseIRQ() {
	f.statusReg &^= stBusy
	f.intrq = true
}

func (f *WD17xxFDC) spinUpDelay() int64 {
	switch f.Type {
	case WD1773, FD1793:
		return 50 * cyclesPerMs
	default:
		return 6 * 200 * cyclesPerMs
	}
}

// execTypeI handles Restore/Seek/Step/Step-In/Step-Out. Restore and Seek
// step one track at a time toward their target, each step consuming a full
// step-rate period (spec §4.4); a 5-track Restore therefore takes 5*rate,
// not a single rate period regardless of distance.
func (f *WD17xxFDC) execTypeI(cmd uint8) {
	f.lastWasTypeI = true
	f.statusView = statusTypeI
	f.statusReg = stBusy
	verify := cmd&0x04 != 0
	rate := stepRateMs[f.Type][cmd&0x03] * cyclesPerMs
	kind := (cmd >> 4) & 0x07

	d := f.drive()

	finish := func() {
		if d != nil && d.AtTrack0() {
			f.statusReg |= stTR00LOST
		}
		if verify {
			if d != nil && d.Disk != nil {
				if _, ok := d.Disk.ReadSector(d.Track, d.Side, 1); !ok {
					f.statusReg |= stCRCERR
					f.reportEvent("FDC", "CRCERR")
				}
			}
		}
		f.statusReg |= stSpinDDM // motor spun up
		f.raiseIRQ()
	}

	var step func(interface{})
	schedule := func() {
		f.scheduler.Schedule(f.scheduler.Now()+rate, EventFDCStep, nil, step)
	}

	step = func(interface{}) {
		switch kind {
		case 0x0: // Restore: step out one track toward TR00
			if d == nil || d.AtTrack0() {
				f.trackReg = 0
				finish()
				return
			}
			d.StepOut()
			f.trackReg = uint8(d.Track)
			if d.AtTrack0() {
				finish()
				return
			}
			schedule()
		case 0x1: // Seek: step one track toward dataReg
			if d == nil {
				f.trackReg = f.dataReg
				finish()
				return
			}
			if uint8(d.Track) == f.dataReg {
				f.trackReg = uint8(d.Track)
				finish()
				return
			}
			if uint8(d.Track) < f.dataReg {
				d.StepIn()
			} else {
				d.StepOut()
			}
			f.trackReg = uint8(d.Track)
			if uint8(d.Track) == f.dataReg {
				finish()
				return
			}
			schedule()
		case 0x2, 0x3: // Step: repeat last direction, a single step
			f.stepDrive(d)
			if cmd&0x10 != 0 {
				f.trackReg = f.currentTrack(d)
			}
			finish()
		case 0x4, 0x5: // Step-In: a single step
			f.direction = 1
			f.stepDrive(d)
			if cmd&0x10 != 0 {
				f.trackReg = f.currentTrack(d)
			}
			finish()
		case 0x6, 0x7: // Step-Out: a single step
			f.direction = -1
			f.stepDrive(d)
			if cmd&0x10 != 0 {
				f.trackReg = f.currentTrack(d)
			}
			finish()
		}
	}

	f.scheduler.Schedule(f.scheduler.Now()+f.spinUpDelay()+rate, EventFDCStep, nil, step)
}

func (f *WD17xxFDC) currentTrack(d *FloppyDrive) uint8 {
	if d == nil {
		return f.trackReg
	}
	return uint8(d.Track)
}

func (f *WD17xxFDC) stepDrive(d *FloppyDrive) {
	if d == nil {
		return
	}
	if f.direction >= 0 {
		d.StepIn()
	} else {
		d.StepOut()
	}
}

// execTypeII handles Read/Write Sector (spec §4.4): searches for a matching
// ID field across up to 5 revolutions, then streams sectorLength bytes via
// DRQ.
func (f *WD17xxFDC) execTypeII(cmd uint8) {
	f.lastWasTypeI = false
	f.statusView = statusTypeIIorIII
	f.statusReg = stBusy
	f.writeCmd = cmd&0x20 != 0
	f.multiSector = cmd&0x10 != 0
	f.rev = 5

	d := f.drive()
	if f.writeCmd && d != nil && d.WriteProtect {
		f.statusReg = stWRPROT
		f.raiseIRQ()
		return
	}

	f.scheduler.Schedule(f.scheduler.Now()+int64(30*cyclesPerMs), EventFDCTimeout, nil, func(interface{}) {
		f.seekAndTransfer(d)
	})
}

func (f *WD17xxFDC) seekAndTransfer(d *FloppyDrive) {
	if d == nil || d.Disk == nil {
		f.statusReg |= stRNF
		f.reportEvent("FDC", "RNF")
		f.raiseIRQ()
		return
	}
	buf, ok := d.Disk.ReadSector(d.Track, d.Side, int(f.sectorReg))
	if !ok {
		f.statusReg |= stRNF
		f.reportEvent("FDC", "RNF")
		f.raiseIRQ()
		return
	}
	if f.writeCmd {
		f.sectorBuf = make([]byte, len(buf))
		f.bufPos = 0
		f.datarq = true
		f.statusReg |= stIndexDRQ
		f.scheduleDRQTimeout()
		return
	}
	f.sectorBuf = append([]byte(nil), buf...)
	f.bufPos = 0
	f.datarq = true
	f.statusReg |= stIndexDRQ
	f.scheduleDRQTimeout()
}

// scheduleDRQTimeout arms the LOST DATA watchdog for the byte currently
// waiting at bufPos: if the host hasn't serviced it via ReadData/WriteData
// within one byte period, checkDRQTimeout raises LOST and aborts the
// transfer.
func (f *WD17xxFDC) scheduleDRQTimeout() {
	pos := f.bufPos
	f.scheduler.Schedule(f.scheduler.Now()+fdcByteTimeCycles, EventFDCDRQTimeout, nil, func(interface{}) {
		f.checkDRQTimeout(pos)
	})
}

func (f *WD17xxFDC) checkDRQTimeout(expectBufPos int) {
	if !f.datarq || f.bufPos != expectBufPos {
		return
	}
	f.datarq = false
	f.statusReg &^= stIndexDRQ
	f.statusReg |= stTR00LOST // LOST DATA under the Type II/III view
	f.reportEvent("FDC", "LOST")
	f.raiseIRQ()
}

// ReadData is the CPU-side DRQ data-register read: pops the next byte from
// an in-flight Type II/III read, advancing multi-sector transfers.
func (f *WD17xxFDC) ReadData() uint8 {
	if !f.datarq || f.bufPos >= len(f.sectorBuf) {
		return f.dataReg
	}
	v := f.sectorBuf[f.bufPos]
	f.bufPos++
	f.dataReg = v
	if f.bufPos >= len(f.sectorBuf) {
		f.finishSectorTransfer()
	} else {
		f.scheduleDRQTimeout()
	}
	return v
}

// WriteData is the CPU-side DRQ data-register write, feeding bytes into an
// in-flight Type II write.
func (f *WD17xxFDC) WriteData(v uint8) {
	f.dataReg = v
	if !f.datarq || f.bufPos >= len(f.sectorBuf) {
		return
	}
	f.sectorBuf[f.bufPos] = v
	f.bufPos++
	if f.bufPos >= len(f.sectorBuf) {
		d := f.drive()
		if d != nil && d.Disk != nil {
			d.Disk.WriteSector(d.Track, d.Side, int(f.sectorReg), f.sectorBuf)
		}
		f.finishSectorTransfer()
	} else {
		f.scheduleDRQTimeout()
	}
}

func (f *WD17xxFDC) finishSectorTransfer() {
	f.datarq = false
	f.statusReg &^= stIndexDRQ
	if f.multiSector {
		f.sectorReg++
		f.seekAndTransfer(f.drive())
		return
	}
	f.raiseIRQ()
}

// execReadAddress answers Type III's Read-Address: 6 bytes (track, side,
// sector, length code, CRC hi, CRC lo) delivered via the same DRQ path as
// Read Sector (spec §4.4).
func (f *WD17xxFDC) execReadAddress() {
	f.statusView = statusTypeIIorIII
	f.statusReg = stBusy
	d := f.drive()
	if d == nil {
		f.raiseIRQ()
		return
	}
	f.sectorBuf = []byte{byte(d.Track), byte(d.Side), f.sectorReg, 2, 0, 0}
	f.bufPos = 0
	f.datarq = true
	f.statusReg |= stIndexDRQ
	f.trackReg = byte(d.Track)
	f.scheduleDRQTimeout()
}

// execTypeIV is Force Interrupt: cancels any queued step/seek event and
// optionally raises IRQ immediately (spec §4.4). Index- and ready-change
// triggered interrupts (command bits 0-1) are not separately modelled; any
// non-zero condition mask raises immediately, matching the common "abort
// now" use every FDC driver actually relies on.
func (f *WD17xxFDC) execTypeIV(cmd uint8) {
	f.scheduler.CancelType(EventFDCStep)
	f.scheduler.CancelType(EventFDCTimeout)
	f.scheduler.CancelType(EventFDCDRQTimeout)
	f.statusReg &^= (stBusy | stCRCERR | stIndexDRQ)
	if f.drive() != nil && f.drive().WriteProtect {
		f.statusReg |= stWRPROT
	}
	f.datarq = false
	if cmd&0x0F != 0 {
		f.intrq = true
	}
}

// ReadStatus returns the status register; reading it clears a pending IRQ
// (real WD17xx behaviour: status read is also the IRQ-acknowledge).
func (f *WD17xxFDC) ReadStatus() uint8 {
	f.intrq = false
	return f.statusReg
}

func (f *WD17xxFDC) IRQ() bool { return f.intrq }
func (f *WD17xxFDC) DRQ() bool { return f.datarq }

func (f *WD17xxFDC) WriteTrackRegister(v uint8)  { f.trackReg = v }
func (f *WD17xxFDC) ReadTrackRegister() uint8    { return f.trackReg }
func (f *WD17xxFDC) WriteSectorRegister(v uint8) { f.sectorReg = v }
func (f *WD17xxFDC) ReadSectorRegister() uint8   { return f.sectorReg }

// FDCRegs is the controller's register file, independent of any attached
// drive's disk image, for save-state use.
type FDCRegs struct {
	Command, Status, Track, Sector, Data uint8
	CurrentDrive                         int
}

func (f *WD17xxFDC) SnapshotRegs() FDCRegs {
	return FDCRegs{
		Command: f.commandReg, Status: f.statusReg, Track: f.trackReg,
		Sector: f.sectorReg, Data: f.dataReg, CurrentDrive: f.current,
	}
}

// RestoreRegs reinstates a register file captured by SnapshotRegs. It does
// not touch any in-flight command timing (spec §4.7/§4.8's snapshot scope
// is register state, not scheduler internals) so a restore mid-command
// drops whatever step/seek was pending, matching how Force Interrupt already
// behaves.
func (f *WD17xxFDC) RestoreRegs(r FDCRegs) {
	f.commandReg, f.statusReg, f.trackReg = r.Command, r.Status, r.Track
	f.sectorReg, f.dataReg = r.Sector, r.Data
	f.SelectDrive(r.CurrentDrive)
	f.scheduler.CancelType(EventFDCStep)
	f.scheduler.CancelType(EventFDCTimeout)
	f.datarq = false
	f.intrq = false
}
