// timer_pacing.go - frame pacer and speed estimator (spec §4.10's C11):
// sleeps the balance between simulated and wall-clock time, or (when sound
// is enabled) slaves pacing to the audio ring buffer's backpressure
// instead, and reports the last 10 one-second speed samples to the UI.

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "time"

const speedSampleWindow = 10

// SpeedEstimator keeps a fixed-size ring of the last speedSampleWindow
// one-second wall-clock deltas (a plain array, matching the teacher's
// preference for fixed arrays over generic containers) and reports the
// ratio of simulated to real time.
type SpeedEstimator struct {
	samples  [speedSampleWindow]float64
	count    int
	next     int
	lastMark time.Time
	framesAtMark int
}

func NewSpeedEstimator() *SpeedEstimator {
	return &SpeedEstimator{lastMark: time.Time{}}
}

// Sample records one frame's completion. frameNum is the running frame
// counter; every wall-clock second it folds a new speed ratio into the
// ring (1.0 == real-time).
func (s *SpeedEstimator) Sample(frameNum int, frameRate int, now time.Time) {
	if s.lastMark.IsZero() {
		s.lastMark = now
		s.framesAtMark = frameNum
		return
	}
	elapsed := now.Sub(s.lastMark)
	if elapsed < time.Second {
		return
	}
	framesElapsed := frameNum - s.framesAtMark
	expected := float64(frameRate) * elapsed.Seconds()
	ratio := 1.0
	if expected > 0 {
		ratio = float64(framesElapsed) / expected
	}
	s.samples[s.next] = ratio
	s.next = (s.next + 1) % speedSampleWindow
	if s.count < speedSampleWindow {
		s.count++
	}
	s.lastMark = now
	s.framesAtMark = frameNum
}

// Ratio returns the mean of the recorded samples, or 1.0 if none yet.
func (s *SpeedEstimator) Ratio() float64 {
	if s.count == 0 {
		return 1.0
	}
	var sum float64
	for i := 0; i < s.count; i++ {
		sum += s.samples[i]
	}
	return sum / float64(s.count)
}

// FramePacer drives RunFrame at the machine's native rate, sleeping the
// wall-clock balance each frame, or (when the sound chip's backend is
// running) yielding to its own backpressure instead of sleeping, per spec
// §4.10.
type FramePacer struct {
	core      *EmulatorCore
	estimator *SpeedEstimator
	frameNum  int
}

func NewFramePacer(core *EmulatorCore) *FramePacer {
	return &FramePacer{core: core, estimator: NewSpeedEstimator()}
}

// Tick runs exactly one frame and paces wall-clock time against it. When
// FastLoad unthrottling is in effect (tape motor running) the caller should
// skip pacing entirely and call RunFrame back-to-back instead.
func (p *FramePacer) Tick(frameInterval time.Duration) {
	deadline := time.Now().Add(frameInterval)
	p.core.RunFrame()
	p.frameNum++
	p.estimator.Sample(p.frameNum, p.core.Settings.FrameRate, time.Now())

	if p.core.Sound != nil && p.core.Sound.IsStarted() {
		// Sound backend paces itself via its own ring buffer's
		// backpressure; no wall-clock sleep needed here.
		return
	}
	if balance := time.Until(deadline); balance > 0 {
		time.Sleep(balance)
	}
}

// Speed returns the current simulated/real-time ratio for the UI status
// line.
func (p *FramePacer) Speed() float64 {
	return p.estimator.Ratio()
}
