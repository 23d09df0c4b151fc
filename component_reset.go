// component_reset.go - Reset() methods for hardware components (hard reset support)

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

// SoundChip.Reset restores the beeper/mixer chip to constructor defaults.
// Preserves the oto/ALSA output backend.
func (chip *SoundChip) Reset() {
	chip.mu.Lock()
	defer chip.mu.Unlock()

	chip.filterLP = DEFAULT_FILTER_LP
	chip.filterBP = DEFAULT_FILTER_BP
	chip.filterHP = DEFAULT_FILTER_HP
	chip.filterCutoff = 0
	chip.filterResonance = 0
	chip.filterModAmount = 0
	chip.overdriveLevel = 0
	chip.overdriveGain = 0
	chip.reverbMix = 0
	chip.sidMixerDCOffset = 0
	chip.filterType = 0
	chip.sidMixerEnabled = false
	chip.sidMixerSaturate = false

	waveTypes := [NUM_CHANNELS]int{WAVE_SQUARE, WAVE_TRIANGLE, WAVE_SINE, WAVE_NOISE}
	for i, ch := range chip.channels {
		if ch == nil {
			continue
		}
		ch.waveType = waveTypes[i]
		ch.frequency = 0
		ch.volume = MIN_VOLUME
		ch.phase = MIN_PHASE
		ch.enabled = false
		ch.attackTime = DEFAULT_ATTACK_TIME
		ch.decayTime = DEFAULT_DECAY_TIME
		ch.sustainLevel = DEFAULT_SUSTAIN
		ch.releaseTime = DEFAULT_RELEASE_TIME
		ch.attackRecip = 0
		ch.decayRecip = 0
		ch.releaseRecip = 0
		ch.releaseDecay = 0
		ch.envelopePhase = ENV_ATTACK
		ch.envelopeLevel = 0
		ch.dutyCycle = DEFAULT_DUTY_CYCLE
		ch.noiseSR = NOISE_LFSR_SEED
		ch.psgPlusGain = 1.0
		ch.psgPlusOversample = 1
		ch.pokeyPlusGain = 1.0
		ch.pokeyPlusOversample = 1
		ch.syncSource = nil
		ch.ringModSource = nil
		ch.sweepEnabled = false
	}

	for i := range chip.preDelayBuf {
		chip.preDelayBuf[i] = 0
	}
	chip.preDelayPos = 0
	for i := range chip.combFilters {
		for j := range chip.combFilters[i].buffer {
			chip.combFilters[i].buffer[j] = 0
		}
		chip.combFilters[i].pos = 0
	}
	for i := range chip.allpassBuf {
		for j := range chip.allpassBuf[i] {
			chip.allpassBuf[i][j] = 0
		}
	}
	for i := range chip.allpassPos {
		chip.allpassPos[i] = 0
	}

	chip.enabled.Store(false)
	chip.audioFrozen.Store(false)
}

// PSGEngine.Reset clears all AY-3-8912 registers and envelope state.
func (e *PSGEngine) Reset() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	for i := range e.regs {
		e.regs[i] = 0
	}
	e.envLevel = 15
	e.envDirection = -1
	e.envContinue = false
	e.envAlternate = false
	e.envAttack = false
	e.envHoldRequest = false
	e.envHoldActive = false
	e.envSampleCounter = 0

	e.selected = 0
	e.enabled = false
	e.channelsInit = false
	e.updateEnvPeriodSamples()
	e.silenceChannels()
}

// ULAEngine.Reset restores the ULA to cold boot state: black border, no
// tape/mic latch, clean VRAM, flash timer restarted.
func (ula *ULAEngine) Reset() {
	ula.mu.Lock()
	defer ula.mu.Unlock()

	ula.border = 0
	ula.micOut = false
	ula.earOut = false
	ula.earIn = false
	for i := range ula.keyRows {
		ula.keyRows[i] = 0xFF
	}
	ula.enabled.Store(true)
	ula.vblankActive.Store(false)

	for i := range ula.vram {
		ula.vram[i] = 0
	}
	ula.flashState = false
	ula.flashCounter = 0

	for i := range ula.frameBuffer {
		ula.frameBuffer[i] = 0
	}

	for i := range ula.frameBufs {
		for j := range ula.frameBufs[i] {
			ula.frameBufs[i][j] = 0
		}
	}
	ula.writeIdx = 0
	ula.sharedIdx.Store(1)
	ula.readingIdx = 2
}
