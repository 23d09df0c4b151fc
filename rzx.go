// rzx.go - input-recording (RZX) recorder/player: deterministic
// instruction-count + IN capture/replay with embedded rollback snapshots
// (spec §4.7's C8).

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

import (
	"fmt"
	"time"
)

// RZXFrame is one frame's worth of recorded input: how many instructions
// ran, and the bytes every IN during the frame returned, in order.
type RZXFrame struct {
	InstrCount int
	InBytes    []byte
}

// RZXIRB is one input-recording block: an optional rollback snapshot, the
// T-state the block starts at, and its sequence of frames (spec's RZX
// recording data model, spec.md §3).
type RZXIRB struct {
	Snapshot      *MachineState
	InitialTState int64
	Frames        []RZXFrame
}

// RZXRecorder owns the IRB list and drives both record and playback mode
// against one EmulatorCore. It intercepts every IN through the Z80 bus
// bridge (z80_bus_adapter.go's SetRZXHook) rather than duplicating port
// decode of its own.
type RZXRecorder struct {
	core    *EmulatorCore
	irbs    []RZXIRB
	speed   *SpeedEstimator
	compete bool

	recording bool
	curFrame  RZXFrame
	instrBase uint64

	playing  bool
	irbIdx   int
	frameIdx int
	inIdx    int
	err      error
}

func NewRZXRecorder(core *EmulatorCore) *RZXRecorder {
	r := &RZXRecorder{core: core, speed: NewSpeedEstimator()}
	core.CPU.SetRZXHook(r.onIn)
	return r
}

// StartRecording begins a new IRB, snapshotting the machine if snapshot is
// true (spec: "on start, optionally capture a snapshot into a new IRB").
// competitionMode enables the ±5% speed-tolerance abort rule.
func (r *RZXRecorder) StartRecording(snapshot bool, competitionMode bool) {
	r.playing = false
	r.recording = true
	r.compete = competitionMode
	r.err = nil
	irb := RZXIRB{InitialTState: r.core.Scheduler.Now()}
	if snapshot {
		irb.Snapshot = CaptureMachineState(r.core)
	}
	r.irbs = append(r.irbs, irb)
	r.beginFrame()
}

func (r *RZXRecorder) beginFrame() {
	r.curFrame = RZXFrame{}
	r.instrBase = r.core.CPU.InstructionCount
}

// StopRecording finalises the in-progress frame into the current IRB.
func (r *RZXRecorder) StopRecording() {
	if !r.recording {
		return
	}
	r.finishFrame()
	r.recording = false
}

func (r *RZXRecorder) finishFrame() {
	if len(r.irbs) == 0 {
		return
	}
	r.curFrame.InstrCount = int(r.core.CPU.InstructionCount - r.instrBase)
	last := &r.irbs[len(r.irbs)-1]
	last.Frames = append(last.Frames, r.curFrame)
}

// OnFrameBoundary is called once per frame by EmulatorCore.RunFrame, after
// the frame completes: it finalises the just-recorded frame, checks
// the competition-mode speed tolerance, and starts the next frame.
func (r *RZXRecorder) OnFrameBoundary() {
	if !r.recording {
		return
	}
	r.finishFrame()
	if r.compete {
		r.speed.Sample(len(r.irbs[len(r.irbs)-1].Frames), r.core.Settings.FrameRate, time.Now())
		ratio := r.speed.Ratio()
		if ratio < 0.95 || ratio > 1.05 {
			r.recording = false
			r.err = fmt.Errorf("rzx: recording aborted, speed %.1f%% outside ±5%% tolerance", ratio*100)
			return
		}
	}
	r.beginFrame()
}

// onIn is the z80Bridge IN interceptor: during recording it reads the real
// bus and appends the byte to the current frame; during playback it
// substitutes the next recorded byte and never touches the bus (spec
// §4.7: "each IN during playback returns the next recorded byte").
func (r *RZXRecorder) onIn(port uint16, readBus func() byte) byte {
	if r.playing {
		v, ok := r.nextPlaybackByte()
		if !ok {
			r.abortPlayback("recorded IN sequence exhausted mid-frame")
			return readBus()
		}
		return v
	}
	v := readBus()
	if r.recording {
		r.curFrame.InBytes = append(r.curFrame.InBytes, v)
	}
	return v
}

func (r *RZXRecorder) nextPlaybackByte() (byte, bool) {
	if r.irbIdx >= len(r.irbs) {
		return 0, false
	}
	irb := &r.irbs[r.irbIdx]
	if r.frameIdx >= len(irb.Frames) {
		return 0, false
	}
	frame := &irb.Frames[r.frameIdx]
	if r.inIdx >= len(frame.InBytes) {
		return 0, false
	}
	v := frame.InBytes[r.inIdx]
	r.inIdx++
	return v, true
}

// abortPlayback reinstates normal (non-RZX) port dispatch (spec: "the
// playback aborts with an error and normal frame scheduling is
// reinstated").
func (r *RZXRecorder) abortPlayback(reason string) {
	r.playing = false
	r.err = fmt.Errorf("rzx playback: %s", reason)
}

// Err returns the last recording/playback error, if any.
func (r *RZXRecorder) Err() error { return r.err }

// StartPlayback selects IRB index idx, restores its embedded snapshot (if
// present) and begins replaying its frames from the start (spec's
// rollback: "state is restored from that snapshot and a new IRB begins
// appending" — here used to resume playback instead, the same restore
// primitive serving both).
func (r *RZXRecorder) StartPlayback(idx int) error {
	if idx < 0 || idx >= len(r.irbs) {
		return fmt.Errorf("rzx: no such IRB %d", idx)
	}
	irb := &r.irbs[idx]
	if irb.Snapshot != nil {
		RestoreMachineState(r.core, irb.Snapshot)
	}
	r.irbIdx = idx
	r.frameIdx = 0
	r.inIdx = 0
	r.recording = false
	r.playing = true
	r.err = nil
	return nil
}

// PlaybackFrameInstrCount reports how many instructions the current
// playback frame should run for, or (0, false) once playback has run out
// of recorded frames (the caller should then stop stepping and fall back
// to normal scheduling).
func (r *RZXRecorder) PlaybackFrameInstrCount() (int, bool) {
	if !r.playing || r.irbIdx >= len(r.irbs) {
		return 0, false
	}
	irb := &r.irbs[r.irbIdx]
	if r.frameIdx >= len(irb.Frames) {
		return 0, false
	}
	return irb.Frames[r.frameIdx].InstrCount, true
}

// AdvancePlaybackFrame moves to the next recorded frame once the caller has
// stepped PlaybackFrameInstrCount instructions.
func (r *RZXRecorder) AdvancePlaybackFrame() {
	r.frameIdx++
	r.inIdx = 0
}

// IsPlaying reports whether playback mode is currently driving IN results.
func (r *RZXRecorder) IsPlaying() bool { return r.playing }

// IsRecording reports whether a recording is in progress.
func (r *RZXRecorder) IsRecording() bool { return r.recording }
