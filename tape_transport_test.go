// tape_transport_test.go - Tests for the tape pulse scheduler and the
// standard ROM loader/saver traps.

package main

import "testing"

func makeStandardBlock(flag byte, payload []byte, isHeader bool) TapeBlock {
	parity := flag
	data := append([]byte{flag}, payload...)
	for _, b := range payload {
		parity ^= b
	}
	data = append(data, parity)
	return TapeBlock{Data: data, PauseMs: 1000, IsHeader: isHeader}
}

func TestTapeTransportPlayStopsAtEndOfBlocks(t *testing.T) {
	sched := NewScheduler()
	ula := NewULAEngine(false)
	tt := NewTapeTransport(sched, ula)
	tt.LoadBlocks([]TapeBlock{makeStandardBlock(0xFF, []byte{1, 2, 3}, false)})
	tt.SetTrapsEnabled(false)

	tt.Play()
	if !tt.IsPlaying() {
		t.Fatalf("transport not playing after Play")
	}

	sched.RunUntil(2_000_000)
	if tt.IsPlaying() {
		t.Fatalf("transport still playing after its single block should have finished")
	}
}

func TestTapeTransportStopCancelsEdges(t *testing.T) {
	sched := NewScheduler()
	ula := NewULAEngine(false)
	tt := NewTapeTransport(sched, ula)
	tt.LoadBlocks([]TapeBlock{makeStandardBlock(0x00, []byte{1}, true)})

	tt.Play()
	tt.Stop()
	if tt.IsPlaying() {
		t.Fatalf("Stop did not clear playing state")
	}
}

func TestTryFastLoadAcceptsMatchingBlock(t *testing.T) {
	sched := NewScheduler()
	ula := NewULAEngine(false)
	tt := NewTapeTransport(sched, ula)
	payload := []byte{10, 20, 30}
	tt.LoadBlocks([]TapeBlock{makeStandardBlock(0xFF, payload, false)})

	dest := make([]byte, len(payload))
	carry, ok := tt.TryFastLoad(0xFF, uint16(len(payload)), false, dest)
	if !ok {
		t.Fatalf("trap declined a matching block")
	}
	if !carry {
		t.Fatalf("carry = false, want true for a clean parity load")
	}
	for i, b := range payload {
		if dest[i] != b {
			t.Fatalf("dest[%d] = %d, want %d", i, dest[i], b)
		}
	}
}

func TestTryFastLoadRejectsWrongFlag(t *testing.T) {
	sched := NewScheduler()
	ula := NewULAEngine(false)
	tt := NewTapeTransport(sched, ula)
	tt.LoadBlocks([]TapeBlock{makeStandardBlock(0x00, []byte{1, 2}, true)})

	dest := make([]byte, 2)
	_, ok := tt.TryFastLoad(0xFF, 2, false, dest)
	if ok {
		t.Fatalf("trap accepted a block with the wrong flag byte")
	}
}

func TestTryFastLoadVerifyDetectsMismatch(t *testing.T) {
	sched := NewScheduler()
	ula := NewULAEngine(false)
	tt := NewTapeTransport(sched, ula)
	payload := []byte{1, 2, 3}
	tt.LoadBlocks([]TapeBlock{makeStandardBlock(0xFF, payload, false)})

	dest := []byte{1, 2, 99}
	carry, ok := tt.TryFastLoad(0xFF, uint16(len(payload)), true, dest)
	if !ok {
		t.Fatalf("trap declined a matching-length verify block")
	}
	if carry {
		t.Fatalf("carry = true, want false when verify finds a mismatch")
	}
}

func TestSaveBlockAppendsParityBlock(t *testing.T) {
	sched := NewScheduler()
	ula := NewULAEngine(false)
	tt := NewTapeTransport(sched, ula)

	tt.SaveBlock(0xFF, []byte{5, 6, 7})
	dest := make([]byte, 3)
	carry, ok := tt.TryFastLoad(0xFF, 3, false, dest)
	if !ok || !carry {
		t.Fatalf("saved block did not round-trip through TryFastLoad: ok=%v carry=%v", ok, carry)
	}
	for i, b := range []byte{5, 6, 7} {
		if dest[i] != b {
			t.Fatalf("dest[%d] = %d, want %d", i, dest[i], b)
		}
	}
}

func TestTapeRecordingFlushesRunLengths(t *testing.T) {
	sched := NewScheduler()
	ula := NewULAEngine(false)
	tt := NewTapeTransport(sched, ula)

	tt.StartRecording()
	sched.RunUntil(1000 * cyclesPerMs)
	out := tt.StopRecording()
	if len(out) == 0 {
		t.Fatalf("expected recorded run-length bytes, got none")
	}
}
