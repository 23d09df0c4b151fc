// emulator_core.go - composes the scheduler, memory map, port dispatcher,
// Z80 core and peripherals into the single owned value that drives one
// emulated machine (spec.md §9's "EmulatorCore as the single owned value").

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

import "fmt"

const psgSampleRate = 44100

// EmulatorCore owns every live component of one running machine: the
// scheduler, memory map, port dispatcher, Z80 core, ULA, AY and the
// peripherals wired onto the port dispatcher. Host-facing code (main, the
// ebiten Game loop, the debugger) only ever reaches into the simulation
// through this struct.
type EmulatorCore struct {
	Settings Settings
	Timing   MachineTiming
	Layout   *MachineLayout

	Scheduler *Scheduler
	Memory    *MemoryMap
	Ports     *PortDispatcher
	CPU       *Z80Core
	ULA       *ULAEngine
	Sound     *SoundChip
	PSG       *PSGEngine
	Kempston      *kempstonState
	KempstonMouse *kempstonMouseState
	Beta          *Beta128
	Spectranet    *Spectranet
	Tape          *TapeTransport
	Peripherals   *PeripheralRegistry
	Debugger      *DebuggerCore
	RZX           *RZXRecorder

	disablePaging bool
	samplesOwed   float64

	Errors *uiErrorLog
}

// NewEmulatorCore builds and wires one machine per settings. ROM images must
// already be loaded into the returned core's Layout before the first Reset.
func NewEmulatorCore(settings Settings) (*EmulatorCore, error) {
	kind, err := ParseMachineKind(settings.Machine)
	if err != nil {
		return nil, err
	}
	timing := machineTimings[kind]

	core := &EmulatorCore{
		Settings: settings,
		Timing:   timing,
		Layout:   NewMachineLayout(kind),
		Errors:   newUIErrorLog(),
	}

	core.Scheduler = NewScheduler()
	core.Memory = NewMemoryMap(core.Scheduler)
	core.Memory.SetContentionTable(BuildContentionTable(timing))
	core.Ports = NewPortDispatcher()
	core.CPU = NewZ80Core(core.Memory, core.Ports, core.Scheduler)

	core.ULA = NewULAEngine(settings.Issue2)
	core.Memory.AttachULA(core.ULA)
	core.Ports.AttachULA(core.ULA)

	sound, err := NewSoundChip(AUDIO_BACKEND_OTO)
	if err != nil {
		return nil, fmt.Errorf("init sound chip: %w", err)
	}
	core.Sound = sound
	if timing.HasAY {
		core.PSG = NewPSGEngine(sound, psgSampleRate)
		core.Ports.AttachAY(core.PSG)
	}

	core.Kempston = &kempstonState{}
	core.Ports.AttachKempston(core.Kempston)

	core.KempstonMouse = &kempstonMouseState{}
	core.Peripherals = NewPeripheralRegistry(core.Ports)
	core.Peripherals.Register("kempston-mouse", kempstonMousePorts(core.KempstonMouse), nil, nil)
	if settings.KempstonMouse {
		core.Peripherals.SetPresent("kempston-mouse", PresenceAlways)
	}

	core.Beta = NewBeta128(core.Scheduler)
	for unit := 0; unit < 2; unit++ {
		core.Beta.FDC.AttachDrive(unit, &FloppyDrive{})
	}
	core.Peripherals.Register("beta128", core.Beta.Ports(), nil, nil)
	if settings.Beta128 {
		core.Peripherals.SetPresent("beta128", PresenceAlways)
	}

	core.Spectranet = NewSpectranet(core.Memory)
	core.Peripherals.Register("spectranet", core.Spectranet.Ports(), nil, func() { core.Spectranet.pageOut() })
	if settings.Spectranet {
		core.Peripherals.SetPresent("spectranet", PresenceAlways)
	}

	core.Peripherals.Update()

	core.Tape = NewTapeTransport(core.Scheduler, core.ULA)
	core.Tape.SetTrapsEnabled(settings.TapeTraps)
	core.Tape.SetIs128(timing.HasAY)

	core.Debugger = NewDebuggerCore(core.Scheduler)
	core.Ports.SetDebugHooks(
		func(port uint16) { core.Debugger.CheckPort(BPPortRead, port) },
		func(port uint16) { core.Debugger.CheckPort(BPPortWrite, port) },
	)
	core.Beta.FDC.SetEventSink(func(eventType, detail string) { core.Debugger.CheckEvent(eventType, detail) })

	core.RZX = NewRZXRecorder(core)

	return core, nil
}

// Reset powers the machine on: clears RAM banks, reprograms the memory map
// to the reset paging state and reseeds the scheduler's frame/interrupt
// events (spec §5: "reset reseeds the queue").
func (c *EmulatorCore) Reset() {
	for i := range c.Layout.RAM {
		for j := range c.Layout.RAM[i].Data {
			c.Layout.RAM[i].Data[j] = 0
		}
	}
	c.disablePaging = false
	c.Layout.Apply(c.Memory)
	c.CPU.Reset()
	c.CPU.SetRunning(true)

	c.ULA.Reset()
	c.Sound.Reset()
	if c.PSG != nil {
		c.PSG.Reset()
	}
	c.samplesOwed = 0

	c.Scheduler.Reset()
	c.scheduleFrameInterrupt()
}

// scheduleFrameInterrupt seeds the assert/deassert pair for the next frame's
// /INT pulse. The Z80 only samples irqLine at instruction boundaries (see
// CPU_Z80.Step), so the assert must stay live past the end of this RunFrame
// call for the CPU to actually see it on the first instruction of the next
// frame; a deassert event holds the pulse width to IntLengthTStates instead
// of clearing it the instant the frame boundary is crossed.
func (c *EmulatorCore) scheduleFrameInterrupt() {
	deadline := c.Timing.TStatesPerFrame
	c.Scheduler.Schedule(deadline, EventInterrupt, nil, func(interface{}) {
		c.CPU.SetIRQLine(true)
	})
	c.Scheduler.Schedule(deadline+c.Timing.IntLengthTStates, EventInterrupt, nil, func(interface{}) {
		c.CPU.SetIRQLine(false)
	})
}

// standardROMLoadEntry is LD-BYTES' entry point in every standard 48K/128K
// editor ROM; the tape trap only ever fires here, never inside custom
// loaders (spec §4.6: "the trap declines and normal pulse emulation
// proceeds" whenever the current block does not match what's requested).
const standardROMLoadEntry = 0x0556

// RunFrame advances the machine by exactly one frame's worth of T-states:
// steps the Z80 until the scheduler cursor reaches the frame boundary,
// dispatches due events (the interrupt among them), advances the PSG's
// sample clock and rebases the scheduler for the next frame.
func (c *EmulatorCore) RunFrame() {
	if c.RZX != nil && c.RZX.IsPlaying() {
		c.runFramePlayback()
		return
	}

	target := c.Timing.TStatesPerFrame

	for c.Scheduler.Now() < target {
		c.tryTapeTrap()
		c.CPU.Step()
		c.Scheduler.RunPending()
	}

	c.ULA.SignalVSync()

	if c.PSG != nil {
		c.tickPSG()
	}

	c.Scheduler.EndOfFrame(c.Timing.TStatesPerFrame)
	c.scheduleFrameInterrupt()

	if c.RZX != nil {
		c.RZX.OnFrameBoundary()
	}
}

// runFramePlayback replaces the T-state-bounded frame loop with an
// instruction-count-bounded one while an RZX recording is being replayed
// (spec §4.7: "the frame event is removed; the scheduler instead fires
// frame boundaries based on the recorded instruction counts"). It stops
// early and falls back to normal frame scheduling if the recording runs
// out mid-frame or the IRB itself is exhausted.
func (c *EmulatorCore) runFramePlayback() {
	instrCount, ok := c.RZX.PlaybackFrameInstrCount()
	if !ok {
		c.RZX.abortPlayback("IRB exhausted")
		target := c.Timing.TStatesPerFrame
		for c.Scheduler.Now() < target {
			c.CPU.Step()
			c.Scheduler.RunPending()
		}
		c.ULA.SignalVSync()
		c.Scheduler.EndOfFrame(target)
		c.scheduleFrameInterrupt()
		return
	}

	for i := 0; i < instrCount && c.RZX.IsPlaying(); i++ {
		c.CPU.Step()
		c.Scheduler.RunPending()
	}

	c.ULA.SignalVSync()
	if c.PSG != nil {
		c.tickPSG()
	}
	c.Scheduler.EndOfFrame(c.Scheduler.Now())
	c.scheduleFrameInterrupt()
	c.RZX.AdvancePlaybackFrame()
}

// tryTapeTrap intercepts the standard ROM loader at its entry point and, if
// the current tape block matches what's being requested, performs the
// load/verify directly against memory instead of running pulse-by-pulse
// (spec §4.6). DE is the requested byte count, IX the destination, A the
// expected flag byte, and carry set on entry selects verify over load (the
// real ROM's calling convention).
func (c *EmulatorCore) tryTapeTrap() {
	if c.Tape == nil || c.CPU.PC != standardROMLoadEntry {
		return
	}
	length := uint16(c.CPU.D)<<8 | uint16(c.CPU.E)
	verify := c.CPU.F&0x01 != 0
	dest := make([]byte, length)
	for i := range dest {
		dest[i] = c.Memory.ReadByte(c.CPU.IX + uint16(i))
	}
	carry, ok := c.Tape.TryFastLoad(c.CPU.A, length, verify, dest)
	if !ok {
		return
	}
	if !verify {
		for i, b := range dest {
			c.Memory.WriteByte(c.CPU.IX+uint16(i), b)
		}
	}
	if carry {
		c.CPU.F |= 0x01
	} else {
		c.CPU.F &^= 0x01
	}
	c.CPU.PC = uint16(c.Memory.ReadByte(c.CPU.SP)) | uint16(c.Memory.ReadByte(c.CPU.SP+1))<<8
	c.CPU.SP += 2
}

// tickPSG advances the AY envelope/noise generators by one frame's worth of
// audio samples. The PSG writes channel parameters into SoundChip, whose own
// audio-callback goroutine (oto) pulls samples independently; TickSample
// here only advances the slow envelope/noise clocks, not sample generation.
func (c *EmulatorCore) tickPSG() {
	c.samplesOwed += float64(psgSampleRate) / float64(c.Settings.FrameRate)
	for c.samplesOwed >= 1 {
		c.PSG.TickSample()
		c.samplesOwed--
	}
}

// HardReset is the F10 handler: identical to Reset, but routed through a
// named method so the video backend's HardResettable hookup (spec §4.13)
// reads as a deliberate user action rather than an internal call.
func (c *EmulatorCore) HardReset() {
	c.Reset()
}
