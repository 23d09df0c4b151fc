//go:build headless

package main

import "fmt"

func newALSAOutput(chip *SoundChip) (AudioOutput, error) {
	return nil, fmt.Errorf("ALSA backend unavailable in headless build")
}
