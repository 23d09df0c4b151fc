//go:build !headless

// audio_output_alsa.go - pumps SoundChip samples into ALSAPlayer's push-
// style Write, adapting it to the AudioOutput pull-lifecycle interface.

package main

import "time"

const alsaPumpChunk = 441 // 10ms at 44100Hz

type alsaOutput struct {
	player *ALSAPlayer
	chip   *SoundChip
	stop   chan struct{}
}

func newALSAOutput(chip *SoundChip) (AudioOutput, error) {
	player, err := NewALSAPlayer()
	if err != nil {
		return nil, err
	}
	return &alsaOutput{player: player, chip: chip, stop: make(chan struct{})}, nil
}

func (a *alsaOutput) Start() {
	a.player.Start()
	go a.pump()
}

func (a *alsaOutput) pump() {
	buf := make([]float32, alsaPumpChunk)
	ticker := time.NewTicker(time.Duration(alsaPumpChunk) * time.Second / SAMPLE_RATE)
	defer ticker.Stop()
	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			if !a.player.IsStarted() {
				continue
			}
			for i := range buf {
				buf[i] = a.chip.ReadSampleFromRing()
			}
			_ = a.player.Write(buf)
		}
	}
}

func (a *alsaOutput) Stop() {
	a.player.Stop()
}

func (a *alsaOutput) Close() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
	a.player.Close()
}

func (a *alsaOutput) IsStarted() bool {
	return a.player.IsStarted()
}
