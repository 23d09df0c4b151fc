// main.go - entry point for the ZX Spectrum core.

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

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nA cycle-accurate ZX Spectrum core.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	boilerPlate()

	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printFeatures()
			return
		}
	}

	settings, err := ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "argument error: %v\n", err)
		os.Exit(1)
	}

	core, err := NewEmulatorCore(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init error: %v\n", err)
		os.Exit(1)
	}

	if err := loadROMs(core, settings); err != nil {
		fmt.Fprintf(os.Stderr, "ROM load error: %v\n", err)
		os.Exit(1)
	}
	if settings.TapePath != "" {
		if err := loadTape(core, settings.TapePath); err != nil {
			fmt.Fprintf(os.Stderr, "tape load error: %v\n", err)
			os.Exit(1)
		}
	}
	core.Reset()
	if settings.TapePath != "" && settings.AutoLoad {
		core.Tape.Play()
	}

	keyboard := NewSpectrumKeyboard(core.ULA, core.Kempston)
	if core.Peripherals.IsActive("kempston-mouse") {
		keyboard.AttachMouse(core.KempstonMouse)
	}

	backend := VIDEO_BACKEND_EBITEN
	videoOutput, err := NewVideoOutput(backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "video init error: %v\n", err)
		os.Exit(1)
	}
	if eb, ok := videoOutput.(*EbitenOutput); ok {
		eb.SetSpectrumKeyboard(keyboard)
	}
	if hr, ok := videoOutput.(HardResettable); ok {
		hr.SetHardResetHandler(core.HardReset)
	}

	compositor := NewVideoCompositor(videoOutput)
	compositor.LockResolution(core.ULA.GetDimensions())
	compositor.RegisterSource(core.ULA)

	monitor := NewMachineMonitor()
	monitor.RegisterCPU("Z80", NewDebugZ80(core.CPU.CPU_Z80))
	monitor.AttachDebuggerCore(core.Debugger)
	monitor.AttachRZX(core.RZX)
	monitor.AttachMachine(core)
	core.Debugger.OnTrigger(func(uint64) { monitor.FreezeAll() })
	go runDebugConsole(monitor)

	core.Sound.Start()
	if err := videoOutput.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "video start error: %v\n", err)
		os.Exit(1)
	}
	core.ULA.StartRenderLoop()
	defer core.ULA.StopRenderLoop()
	compositor.Start()
	defer compositor.Stop()

	runFrameLoop(core, videoOutput)
}

// runFrameLoop drives the simulation at the machine's native frame rate on
// the main goroutine; the ebiten backend's own RunGame loop runs on its
// background goroutine (EbitenOutput.Start), reading only the triple-
// buffered frame the compositor publishes. Pacing itself (sleep vs. slave
// to sound backpressure, and the rolling speed estimate) is delegated to a
// FramePacer.
func runFrameLoop(core *EmulatorCore, video VideoOutput) {
	interval := time.Second / time.Duration(core.Settings.FrameRate)
	pacer := NewFramePacer(core)

	for video.IsStarted() {
		if core.Settings.FastLoad && core.Tape != nil && core.Tape.IsPlaying() {
			core.RunFrame()
		} else {
			pacer.Tick(interval)
		}
		core.Errors.Tick()
	}
}

// runDebugConsole reads monitor commands from stdin, line-oriented, the way
// the teacher's own monitor expects interactive use.
func runDebugConsole(monitor *MachineMonitor) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if monitor.ExecuteCommand(scanner.Text()) {
			return
		}
	}
}

// loadROMs installs the ROM images the settings point at. A missing ROM
// path is a fatal error: the machine cannot run without its system ROM.
func loadROMs(core *EmulatorCore, settings Settings) error {
	romFor := func(name string) (string, bool) {
		p, ok := settings.ROMPaths[name]
		return p, ok
	}

	path, ok := romFor("rom0")
	if !ok {
		path, ok = romFor(settings.Machine)
	}
	if !ok {
		return fmt.Errorf("no ROM path given (use -rom rom0=path/to/rom)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read ROM %q: %w", path, err)
	}
	if err := core.Layout.LoadROM(0, data); err != nil {
		return fmt.Errorf("load ROM %q: %w", path, err)
	}

	if path, ok := romFor("rom1"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read ROM %q: %w", path, err)
		}
		if err := core.Layout.LoadROM(1, data); err != nil {
			return fmt.Errorf("load ROM %q: %w", path, err)
		}
	}

	if core.Spectranet != nil {
		if path, ok := romFor("spectranet"); ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read ROM %q: %w", path, err)
			}
			core.Spectranet.LoadROM(data)
		}
	}
	return nil
}

// loadTape parses a .tap image (the simplest widely-used tape format: a
// flat sequence of 2-byte little-endian length-prefixed blocks, each
// becoming one standard ROM TapeBlock with the conventional 1s pause) and
// installs it on the core's transport.
func loadTape(core *EmulatorCore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tape %q: %w", path, err)
	}
	var blocks []TapeBlock
	for pos := 0; pos+2 <= len(data); {
		blockLen := int(data[pos]) | int(data[pos+1])<<8
		pos += 2
		if pos+blockLen > len(data) {
			return fmt.Errorf("tape %q: truncated block at offset %d", path, pos)
		}
		raw := data[pos : pos+blockLen]
		pos += blockLen
		blocks = append(blocks, TapeBlock{
			Data:     raw,
			PauseMs:  1000,
			IsHeader: len(raw) > 0 && raw[0] == 0x00,
		})
	}
	core.Tape.LoadBlocks(blocks)
	return nil
}
