// rzx_test.go - Tests for the RZX record/playback IN-byte substitution and
// frame bookkeeping, exercised directly against RZXRecorder's internal state
// rather than through a fully wired EmulatorCore.

package main

import "testing"

func TestRZXRecordingCapturesBusReads(t *testing.T) {
	r := &RZXRecorder{recording: true}

	v := r.onIn(0xFE, func() byte { return 0xBF })
	if v != 0xBF {
		t.Fatalf("onIn returned %#x while recording, want the real bus value 0xBF", v)
	}
	if len(r.curFrame.InBytes) != 1 || r.curFrame.InBytes[0] != 0xBF {
		t.Fatalf("recorded frame bytes = %v, want [0xBF]", r.curFrame.InBytes)
	}
}

func TestRZXPlaybackSubstitutesRecordedBytes(t *testing.T) {
	r := &RZXRecorder{
		playing: true,
		irbs: []RZXIRB{{
			Frames: []RZXFrame{{InBytes: []byte{0x11, 0x22}}},
		}},
	}

	busCalled := false
	readBus := func() byte { busCalled = true; return 0xFF }

	if v := r.onIn(0xFE, readBus); v != 0x11 {
		t.Fatalf("first playback IN = %#x, want 0x11", v)
	}
	if v := r.onIn(0xFE, readBus); v != 0x22 {
		t.Fatalf("second playback IN = %#x, want 0x22", v)
	}
	if busCalled {
		t.Fatalf("playback should never call the real bus read")
	}
}

func TestRZXPlaybackAbortsWhenSequenceExhausted(t *testing.T) {
	r := &RZXRecorder{
		playing: true,
		irbs: []RZXIRB{{
			Frames: []RZXFrame{{InBytes: []byte{0x11}}},
		}},
	}

	r.onIn(0xFE, func() byte { return 0 }) // consumes the only recorded byte

	fellBackToBus := false
	v := r.onIn(0xFE, func() byte { fellBackToBus = true; return 0x99 })

	if r.IsPlaying() {
		t.Fatalf("playback should stop once the recorded IN sequence is exhausted mid-frame")
	}
	if r.Err() == nil {
		t.Fatalf("expected an error once playback aborts mid-frame")
	}
	if !fellBackToBus || v != 0x99 {
		t.Fatalf("aborted playback should fall back to the real bus read, got v=%#x called=%v", v, fellBackToBus)
	}
}

func TestRZXPlaybackFrameInstrCountAdvances(t *testing.T) {
	r := &RZXRecorder{
		playing: true,
		irbs: []RZXIRB{{
			Frames: []RZXFrame{{InstrCount: 100}, {InstrCount: 200}},
		}},
	}

	n, ok := r.PlaybackFrameInstrCount()
	if !ok || n != 100 {
		t.Fatalf("frame 0 instr count = %d (ok=%v), want 100", n, ok)
	}

	r.AdvancePlaybackFrame()
	n, ok = r.PlaybackFrameInstrCount()
	if !ok || n != 200 {
		t.Fatalf("frame 1 instr count = %d (ok=%v), want 200", n, ok)
	}

	r.AdvancePlaybackFrame()
	if _, ok := r.PlaybackFrameInstrCount(); ok {
		t.Fatalf("expected no instruction count once frames are exhausted")
	}
}

func TestRZXStartPlaybackRejectsOutOfRangeIRB(t *testing.T) {
	r := &RZXRecorder{irbs: []RZXIRB{{}}}
	if err := r.StartPlayback(5); err == nil {
		t.Fatalf("expected an error selecting a nonexistent IRB")
	}
}

func TestRZXNotRecordingOrPlayingPassesThroughBus(t *testing.T) {
	r := &RZXRecorder{}
	v := r.onIn(0xFE, func() byte { return 0x42 })
	if v != 0x42 {
		t.Fatalf("onIn = %#x, want the real bus value 0x42 when idle", v)
	}
	if len(r.curFrame.InBytes) != 0 {
		t.Fatalf("idle recorder should not capture bytes")
	}
}
