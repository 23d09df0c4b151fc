// timer_pacing_test.go - Tests for the rolling speed estimator.

package main

import (
	"testing"
	"time"
)

func TestSpeedEstimatorFirstSampleOnlySeedsMark(t *testing.T) {
	s := NewSpeedEstimator()
	base := time.Now()
	s.Sample(50, 50, base)
	if s.Ratio() != 1.0 {
		t.Fatalf("ratio = %v, want 1.0 before any full second has elapsed", s.Ratio())
	}
}

func TestSpeedEstimatorReportsRealTimeRatio(t *testing.T) {
	s := NewSpeedEstimator()
	base := time.Now()
	s.Sample(0, 50, base)
	s.Sample(50, 50, base.Add(time.Second))

	if got := s.Ratio(); got < 0.99 || got > 1.01 {
		t.Fatalf("ratio = %v, want ~1.0 for 50 frames in exactly one second at 50fps", got)
	}
}

func TestSpeedEstimatorDetectsSlowdown(t *testing.T) {
	s := NewSpeedEstimator()
	base := time.Now()
	s.Sample(0, 50, base)
	s.Sample(25, 50, base.Add(time.Second)) // half the expected frames

	if got := s.Ratio(); got < 0.49 || got > 0.51 {
		t.Fatalf("ratio = %v, want ~0.5 when only half the frames land", got)
	}
}

func TestSpeedEstimatorRingWindowCaps(t *testing.T) {
	s := NewSpeedEstimator()
	mark := time.Now()
	s.Sample(0, 50, mark)
	for i := 1; i <= speedSampleWindow+5; i++ {
		mark = mark.Add(time.Second)
		s.Sample(i*50, 50, mark)
	}
	if s.count != speedSampleWindow {
		t.Fatalf("count = %d, want capped at %d", s.count, speedSampleWindow)
	}
}
