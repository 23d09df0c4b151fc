// psg_engine.go - AY-3-8912 register engine driven live by Z80 OUT/IN via the
// port dispatcher's 0xFFFD (select) / 0xBFFD (data) decode.

package main

import (
	"math"
	"sync"
)

type PSGEngine struct {
	mutex      sync.Mutex
	sound      *SoundChip
	sampleRate int
	clockHz    uint32

	selected uint8 // latched register index from the last 0xFFFD select write
	regs     [PSG_REG_COUNT]uint8

	envPeriodSamples float64
	envSampleCounter float64
	envLevel         int
	envDirection     int
	envContinue      bool
	envAlternate     bool
	envAttack        bool
	envHoldRequest   bool
	envHoldActive    bool

	enabled bool

	channelsInit bool
}

func NewPSGEngine(sound *SoundChip, sampleRate int) *PSGEngine {
	engine := &PSGEngine{
		sound:        sound,
		sampleRate:   sampleRate,
		clockHz:      PSG_CLOCK_ZX_SPECTRUM,
		envLevel:     15,
		envDirection: -1,
	}
	engine.updateEnvPeriodSamples()
	return engine
}

func (e *PSGEngine) SetClockHz(clock uint32) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if clock == 0 {
		return
	}
	e.clockHz = clock
	e.updateEnvPeriodSamples()
}

// SelectRegister latches the register index addressed by a port write to
// 0xFFFD, per spec §4.12's register-select/data port pair.
func (e *PSGEngine) SelectRegister(reg uint8) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.selected = reg & 0x0F
}

// WriteSelected writes value into the currently selected register (port
// write to 0xBFFD).
func (e *PSGEngine) WriteSelected(value uint8) {
	e.WriteRegister(e.currentRegister(), value)
}

// ReadSelected reads the currently selected register (port read from 0xFFFD).
func (e *PSGEngine) ReadSelected() uint8 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.selected >= PSG_REG_COUNT {
		return 0xFF
	}
	return e.regs[e.selected]
}

func (e *PSGEngine) currentRegister() uint8 {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.selected
}

func (e *PSGEngine) WriteRegister(reg uint8, value uint8) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if reg >= PSG_REG_COUNT {
		return
	}

	e.enabled = true
	e.regs[reg] = value
	if reg == 11 || reg == 12 {
		e.updateEnvPeriodSamples()
	}
	if reg == 13 {
		e.resetEnvelope()
	}

	e.syncToChip()
}

// SnapshotRegisters returns the selected-register index and the full
// register file for save-state use.
func (e *PSGEngine) SnapshotRegisters() (selected uint8, regs [PSG_REG_COUNT]uint8) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.selected, e.regs
}

// RestoreRegisters reprograms every AY register from a save state and
// re-latches the selected-register index, driving the same chip sync path
// WriteRegister uses so audio state matches what a live machine would have
// reached.
func (e *PSGEngine) RestoreRegisters(selected uint8, regs [PSG_REG_COUNT]uint8) {
	for reg, v := range regs {
		e.WriteRegister(uint8(reg), v)
	}
	e.SelectRegister(selected)
}

// TickSample advances the envelope generator by one audio sample; the audio
// backend calls this once per rendered sample while the PSG is enabled.
func (e *PSGEngine) TickSample() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if !e.enabled {
		return
	}

	e.advanceEnvelope()
}

func (e *PSGEngine) silenceChannels() {
	if e.sound == nil {
		return
	}
	for ch := 0; ch < 4; ch++ {
		e.sound.HandleRegisterWrite(chipChannelRegs[ch].vol, 0)
	}
}

func (e *PSGEngine) updateEnvPeriodSamples() {
	period := uint16(e.regs[11]) | uint16(e.regs[12])<<8
	if period == 0 {
		period = 1
	}
	e.envPeriodSamples = float64(e.sampleRate) * 256.0 * float64(period) / float64(e.clockHz)
	if e.envPeriodSamples <= 0 {
		e.envPeriodSamples = 1
	}
}

func (e *PSGEngine) resetEnvelope() {
	shape := e.regs[13] & 0x0F
	e.envContinue = (shape & 0x08) != 0
	e.envAttack = (shape & 0x04) != 0
	e.envAlternate = (shape & 0x02) != 0
	e.envHoldRequest = (shape & 0x01) != 0
	e.envHoldActive = false
	if e.envAttack {
		e.envLevel = 0
		e.envDirection = 1
	} else {
		e.envLevel = 15
		e.envDirection = -1
	}
}

func (e *PSGEngine) advanceEnvelope() {
	e.envSampleCounter++
	if e.envSampleCounter < e.envPeriodSamples {
		return
	}

	steps := int(e.envSampleCounter / e.envPeriodSamples)
	e.envSampleCounter -= float64(steps) * e.envPeriodSamples

	for i := 0; i < steps; i++ {
		if e.envHoldActive {
			break
		}

		// A ramp holds each of its 16 levels for one step; the end-of-ramp
		// action runs on the step after the last level, not on reaching it.
		next := e.envLevel + e.envDirection
		if next >= 0 && next <= 15 {
			e.envLevel = next
		} else {
			if !e.envContinue {
				e.envLevel = 0
				e.envHoldActive = true
				break
			}
			if e.envHoldRequest {
				e.envHoldActive = true
				if e.envAlternate {
					if e.envDirection > 0 {
						e.envLevel = 0
					} else {
						e.envLevel = 15
					}
				}
				break
			}
			if e.envAlternate {
				e.envDirection = -e.envDirection
			}
			if e.envDirection > 0 {
				e.envLevel = 0
			} else {
				e.envLevel = 15
			}
		}
	}

	e.applyVolumes()
}

// chipChannelRegs maps PSG channel index (0-2 tone, 3 shared noise) onto the
// synth chip's fixed per-channel register addresses. The chip has no ADSR of
// its own for AY playback: attack/release are pinned to zero and sustain to
// full so the channel's output tracks exactly the volume this engine sets.
var chipChannelRegs = [4]struct{ freq, vol, ctrl, atk, dec, sus, rel uint32 }{
	{SQUARE_FREQ, SQUARE_VOL, SQUARE_CTRL, SQUARE_ATK, SQUARE_DEC, SQUARE_SUS, SQUARE_REL},
	{TRI_FREQ, TRI_VOL, TRI_CTRL, TRI_ATK, TRI_DEC, TRI_SUS, TRI_REL},
	{SINE_FREQ, SINE_VOL, SINE_CTRL, SINE_ATK, SINE_DEC, SINE_SUS, SINE_REL},
	{NOISE_FREQ, NOISE_VOL, NOISE_CTRL, NOISE_ATK, NOISE_DEC, NOISE_SUS, NOISE_REL},
}

func (e *PSGEngine) ensureChannelsInitialized() {
	if e.channelsInit || e.sound == nil {
		return
	}

	for ch := 0; ch < 4; ch++ {
		regs := chipChannelRegs[ch]
		e.sound.HandleRegisterWrite(regs.atk, 0)
		e.sound.HandleRegisterWrite(regs.dec, 0)
		e.sound.HandleRegisterWrite(regs.sus, 255)
		e.sound.HandleRegisterWrite(regs.rel, 0)
		e.sound.HandleRegisterWrite(regs.ctrl, 3) // enabled + gate held open
	}

	e.channelsInit = true
}

func (e *PSGEngine) syncToChip() {
	e.ensureChannelsInitialized()
	e.applyFrequencies()
	e.applyVolumes()
}

func (e *PSGEngine) applyFrequencies() {
	if e.sound == nil {
		return
	}

	for ch := 0; ch < 3; ch++ {
		low := uint16(e.regs[ch*2])
		high := uint16(e.regs[ch*2+1] & 0x0F)
		period := (high << 8) | low
		freq := 0.0
		if period != 0 {
			freq = float64(e.clockHz) / (16.0 * float64(period))
		}
		e.sound.HandleRegisterWrite(chipChannelRegs[ch].freq, uint32(freq))
	}

	noisePeriod := uint16(e.regs[6] & 0x1F)
	if noisePeriod == 0 {
		noisePeriod = 1
	}
	noiseFreq := float64(e.clockHz) / (16.0 * float64(noisePeriod))
	e.sound.HandleRegisterWrite(chipChannelRegs[3].freq, uint32(noiseFreq))
}

func (e *PSGEngine) applyVolumes() {
	if e.sound == nil {
		return
	}

	mixer := e.regs[7]
	toneEnable := [3]bool{
		(mixer & 0x01) == 0,
		(mixer & 0x02) == 0,
		(mixer & 0x04) == 0,
	}
	noiseEnable := [3]bool{
		(mixer & 0x08) == 0,
		(mixer & 0x10) == 0,
		(mixer & 0x20) == 0,
	}

	var noiseSum float32
	for ch := 0; ch < 3; ch++ {
		vol := e.regs[8+ch]
		level := vol & 0x0F
		if vol&0x10 != 0 {
			level = uint8(e.envLevel)
		}
		toneLevel := level
		if !toneEnable[ch] {
			toneLevel = 0
		}
		toneGain := psgVolumeGain(toneLevel)
		e.sound.HandleRegisterWrite(chipChannelRegs[ch].vol, uint32(psgGainToDAC(toneGain)))

		noiseLevel := level
		if !noiseEnable[ch] {
			noiseLevel = 0
		}
		if noiseLevel > 0 {
			noiseSum += psgVolumeGain(noiseLevel)
		}
	}

	if noiseSum <= 0 {
		e.sound.HandleRegisterWrite(chipChannelRegs[3].vol, 0)
		return
	}
	if noiseSum > 1.0 {
		noiseSum = 1.0
	}
	e.sound.HandleRegisterWrite(chipChannelRegs[3].vol, uint32(psgGainToDAC(noiseSum)))
}

// psgVolumeCurve approximates the AY-3-8912's logarithmic volume DAC
// (roughly 2dB/step, per the chip's datasheet) rather than a linear ramp.
var psgVolumeCurve = func() [16]float32 {
	var curve [16]float32
	curve[0] = 0
	for i := 1; i < len(curve); i++ {
		db := float64(i-15) * 2.0
		curve[i] = float32(math.Pow(10.0, db/20.0))
	}
	curve[15] = 1.0
	return curve
}()

func psgVolumeGain(level uint8) float32 {
	if level > 15 {
		level = 15
	}
	return psgVolumeCurve[level]
}

func psgGainToDAC(gain float32) uint8 {
	if gain <= 0 {
		return 0
	}
	if gain >= 1.0 {
		return 255
	}
	return uint8(math.Round(float64(gain * 255.0)))
}
