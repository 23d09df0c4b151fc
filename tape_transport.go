// tape_transport.go - tape transport, trap loader/saver and recording
// (spec §4.6's C7): an edge-scheduled pulse iterator over a TAP-style
// block list, feeding the ULA's EAR input, plus the standard ROM loader
// fast-path and record mode.

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

// Standard ROM pulse lengths (T-states at 3.5MHz), per the well-known
// Spectrum ROM loader timings.
const (
	pilotPulseLen = 2168
	sync1PulseLen = 667
	sync2PulseLen = 735
	bit0PulseLen  = 855
	bit1PulseLen  = 1710
	headerPilotPulses = 8063
	dataPilotPulses   = 3223
)

// TapeBlockFlag carries the special behaviours spec §4.6 names; STOP48 is
// honoured only on non-128K machines.
type TapeBlockFlag int

const (
	FlagNone TapeBlockFlag = iota
	FlagStop
	FlagStop48
)

// TapeBlock is a standard ROM-format data block: a pilot tone, sync pulses,
// the data bytes (LSB first per byte, MSB first per bit, each bit 0/1
// mapped to bit0PulseLen/bit1PulseLen by ROM convention) and a trailing
// pause. Flag is the data's first byte by ROM convention (0x00 header,
// 0xFF data) and is also exposed for the trap loader.
type TapeBlock struct {
	Data      []byte
	PauseMs   int
	Flag      TapeBlockFlag
	IsHeader  bool
}

// tapePhase names where the edge scheduler is within one block.
type tapePhase int

const (
	phasePilot tapePhase = iota
	phaseSync1
	phaseSync2
	phaseData
	phasePause
	phaseDone
)

// TapeTransport iterates a tape's block list, scheduling EDGE events that
// toggle the ULA's EAR input at the pulse boundaries the ROM loader
// expects (spec §4.6).
type TapeTransport struct {
	scheduler *Scheduler
	ula       *ULAEngine

	blocks []TapeBlock
	block  int

	phase        tapePhase
	pilotPulsesLeft int
	byteIdx      int
	bitIdx       int
	halfBit      int // 0 = first half of bit pulse, 1 = second half
	level        bool

	playing    bool
	trapsOn    bool
	is128      bool

	recording  bool
	recBuf     []byte
	recRunLen  uint32
	recLastLevel bool
}

func NewTapeTransport(scheduler *Scheduler, ula *ULAEngine) *TapeTransport {
	return &TapeTransport{scheduler: scheduler, ula: ula, trapsOn: true}
}

func (t *TapeTransport) LoadBlocks(blocks []TapeBlock) {
	t.blocks = blocks
	t.block = 0
	t.Stop()
}

func (t *TapeTransport) SetTrapsEnabled(on bool) { t.trapsOn = on }
func (t *TapeTransport) SetIs128(is128 bool)      { t.is128 = is128 }

// Play starts (or resumes) pulse-by-pulse playback from the current block.
func (t *TapeTransport) Play() {
	if t.playing || t.block >= len(t.blocks) {
		return
	}
	t.playing = true
	t.phase = phasePilot
	blk := t.blocks[t.block]
	if blk.IsHeader {
		t.pilotPulsesLeft = headerPilotPulses
	} else {
		t.pilotPulsesLeft = dataPilotPulses
	}
	t.byteIdx, t.bitIdx, t.halfBit = 0, 0, 0
	t.level = false
	t.scheduleEdge(pilotPulseLen)
}

func (t *TapeTransport) Stop() {
	t.playing = false
	t.scheduler.CancelType(EventTapeEdge)
}

func (t *TapeTransport) IsPlaying() bool { return t.playing }

// BlockIndex and SetBlockIndex expose the current position in the block
// list for save-state use; playback always resumes from a block boundary.
func (t *TapeTransport) BlockIndex() int     { return t.block }
func (t *TapeTransport) SetBlockIndex(i int) { t.Stop(); t.block = i }

func (t *TapeTransport) scheduleEdge(tstates int64) {
	t.scheduler.Schedule(t.scheduler.Now()+tstates, EventTapeEdge, nil, func(interface{}) {
		t.edge()
	})
}

// edge is the EDGE event handler: toggles the EAR line and advances block
// state, scheduling the next edge with whatever pulse length the new state
// implies (spec §4.6).
func (t *TapeTransport) edge() {
	if !t.playing {
		return
	}
	t.level = !t.level
	t.ula.SetTapeInput(t.level)

	blk := t.blocks[t.block]
	switch t.phase {
	case phasePilot:
		t.pilotPulsesLeft--
		if t.pilotPulsesLeft > 0 {
			t.scheduleEdge(pilotPulseLen)
			return
		}
		t.phase = phaseSync1
		t.scheduleEdge(sync1PulseLen)
	case phaseSync1:
		t.phase = phaseSync2
		t.scheduleEdge(sync2PulseLen)
	case phaseSync2:
		t.phase = phaseData
		t.scheduleEdge(t.currentBitPulse(blk))
	case phaseData:
		t.advanceData(blk)
	case phasePause:
		t.phase = phaseDone
		t.nextBlock()
	}
}

func (t *TapeTransport) currentBitPulse(blk TapeBlock) int64 {
	if t.byteIdx >= len(blk.Data) {
		return bit0PulseLen
	}
	bit := (blk.Data[t.byteIdx] >> (7 - t.bitIdx)) & 1
	if bit == 1 {
		return bit1PulseLen
	}
	return bit0PulseLen
}

func (t *TapeTransport) advanceData(blk TapeBlock) {
	if t.halfBit == 0 {
		t.halfBit = 1
		t.scheduleEdge(t.currentBitPulse(blk))
		return
	}
	t.halfBit = 0
	t.bitIdx++
	if t.bitIdx == 8 {
		t.bitIdx = 0
		t.byteIdx++
	}
	if t.byteIdx >= len(blk.Data) {
		t.phase = phasePause
		pause := int64(blk.PauseMs) * cyclesPerMs
		if pause <= 0 {
			pause = 1
		}
		t.scheduleEdge(pause)
		return
	}
	t.scheduleEdge(t.currentBitPulse(blk))
}

func (t *TapeTransport) nextBlock() {
	blk := t.blocks[t.block]
	t.block++
	stop48Should := blk.Flag == FlagStop48 && !t.is128
	if blk.Flag == FlagStop || stop48Should || t.block >= len(t.blocks) {
		t.Stop()
		return
	}
	t.Play()
}

// TryFastLoad is the standard ROM loader trap (spec §4.6): when traps are
// enabled and the current block is a standard block whose length matches
// the byte count the ROM is about to request, loads/verifies it directly
// into the given buffer instead of running pulse-by-pulse, returning
// (carryFlag, ok). ok is false when the trap declines (normal emulation
// must proceed for this load).
func (t *TapeTransport) TryFastLoad(expectFlag uint8, requestLen uint16, verify bool, dest []byte) (carry bool, ok bool) {
	if !t.trapsOn || t.block >= len(t.blocks) {
		return false, false
	}
	blk := t.blocks[t.block]
	if len(blk.Data) == 0 || blk.Data[0] != expectFlag || len(blk.Data) != int(requestLen)+2 {
		return false, false
	}
	payload := blk.Data[1 : len(blk.Data)-1]
	parity := blk.Data[0]
	for _, b := range payload {
		parity ^= b
	}
	parity ^= blk.Data[len(blk.Data)-1]
	n := len(payload)
	if n > len(dest) {
		n = len(dest)
	}
	if verify {
		for i := 0; i < n; i++ {
			if dest[i] != payload[i] {
				t.block++
				return false, true
			}
		}
	} else {
		copy(dest, payload[:n])
	}
	t.block++
	return parity == 0, true
}

// SaveBlock is the standard ROM saver trap (spec §4.6): appends a fresh
// ROM block (flag + data + parity) with a 1s trailing pause.
func (t *TapeTransport) SaveBlock(flag uint8, data []byte) {
	buf := make([]byte, 0, len(data)+2)
	buf = append(buf, flag)
	buf = append(buf, data...)
	parity := flag
	for _, b := range data {
		parity ^= b
	}
	buf = append(buf, parity)
	t.blocks = append(t.blocks, TapeBlock{Data: buf, PauseMs: 1000, Flag: FlagNone, IsHeader: flag == 0x00})
}

// StartRecording begins sampling the EAR line at 44100Hz and RLE-encoding
// run lengths into a growing buffer (spec §4.6).
func (t *TapeTransport) StartRecording() {
	t.recording = true
	t.recBuf = nil
	t.recRunLen = 0
	t.recLastLevel = t.level
	t.scheduleRecordSample()
}

func (t *TapeTransport) scheduleRecordSample() {
	if !t.recording {
		return
	}
	interval := int64(cyclesPerMs) * 1000 / 44100
	t.scheduler.Schedule(t.scheduler.Now()+interval, EventTapeEdge, nil, func(interface{}) {
		t.recordSample()
	})
}

func (t *TapeTransport) recordSample() {
	if !t.recording {
		return
	}
	if t.level == t.recLastLevel {
		t.recRunLen++
	} else {
		t.flushRun()
		t.recLastLevel = t.level
		t.recRunLen = 1
	}
	t.scheduleRecordSample()
}

func (t *TapeTransport) flushRun() {
	if t.recRunLen < 0xFF {
		t.recBuf = append(t.recBuf, byte(t.recRunLen))
	} else {
		t.recBuf = append(t.recBuf, 0)
		t.recBuf = append(t.recBuf,
			byte(t.recRunLen), byte(t.recRunLen>>8), byte(t.recRunLen>>16), byte(t.recRunLen>>24))
	}
}

// StopRecording flushes the buffer as one RLE-pulse block and returns its
// raw bytes for embedding in the tape image.
func (t *TapeTransport) StopRecording() []byte {
	t.flushRun()
	t.recording = false
	out := t.recBuf
	t.recBuf = nil
	return out
}
