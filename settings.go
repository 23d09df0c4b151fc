// settings.go - CLI/config surface (spec.md §6's "settings" collaborator),
// populated with stdlib flag plus an optional key=value config file.

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
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Settings is the core's single configuration surface (spec §6's "settings"
// collaborator). Every field here maps onto one of the recognised CLI
// options; the zero value is the machine's power-on default.
type Settings struct {
	Machine string

	Issue2          bool
	TapeTraps       bool
	FastLoad        bool
	AutoLoad        bool
	ConfirmActions  bool
	EmulationSpeed  int // percent, 100 = real-time
	FrameRate       int

	Beta128          bool
	Beta128AutoBoot48K bool
	PlusD            bool
	Opus             bool
	Disciple         bool
	DivIDEEnabled    bool
	DivIDEWriteProtect bool
	KempstonMouse    bool
	Spectranet       bool
	RZXCompression   bool
	CompetitionMode  bool

	ROMPaths map[string]string // machine/peripheral name -> ROM image path

	SnapshotPath string
	TapePath     string
	RZXPath      string
	Headless     bool
}

// DefaultSettings returns power-on defaults matching a real 48K's factory
// configuration: issue 3 ULA, tape traps on for fast loading convenience,
// real-time speed.
func DefaultSettings() Settings {
	return Settings{
		Machine:        "48k",
		TapeTraps:      true,
		FastLoad:       true,
		ConfirmActions: true,
		EmulationSpeed: 100,
		FrameRate:      50,
		ROMPaths:       map[string]string{},
	}
}

// ParseFlags populates Settings from CLI flags using the standard flag
// package (the teacher parses os.Args directly for its -ie32/-m68k switch;
// we keep that register-light style rather than a third-party flag library).
// An optional -config file is read first so flags can override it.
func ParseFlags(args []string) (Settings, error) {
	s := DefaultSettings()

	fs := flag.NewFlagSet("zxspec", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a key=value config file")
	fs.StringVar(&s.Machine, "machine", s.Machine, "machine: 48k|128k|+2|+2a|+3|pentagon|scorpion|tc2048|tc2068|ts2068|se")
	fs.BoolVar(&s.Issue2, "issue2", s.Issue2, "emulate Issue 2 keyboard/EAR behaviour")
	fs.BoolVar(&s.TapeTraps, "tape-traps", s.TapeTraps, "intercept ROM tape routines for fast loading")
	fs.BoolVar(&s.FastLoad, "fastload", s.FastLoad, "run at unthrottled speed while tape motor is on")
	fs.BoolVar(&s.AutoLoad, "auto-load", s.AutoLoad, "auto-start tape on power-on")
	fs.BoolVar(&s.ConfirmActions, "confirm", s.ConfirmActions, "confirm destructive actions (reset, hard reset)")
	fs.IntVar(&s.EmulationSpeed, "speed", s.EmulationSpeed, "emulation speed, percent of real-time")
	fs.IntVar(&s.FrameRate, "fps", s.FrameRate, "target frame rate")
	fs.BoolVar(&s.Beta128, "beta128", s.Beta128, "attach Beta 128 disk interface")
	fs.BoolVar(&s.Beta128AutoBoot48K, "beta128-autoboot", s.Beta128AutoBoot48K, "auto-boot Beta 128 on a 48K machine")
	fs.BoolVar(&s.PlusD, "plusd", s.PlusD, "attach +D disk interface")
	fs.BoolVar(&s.Opus, "opus", s.Opus, "attach Opus Discovery disk interface")
	fs.BoolVar(&s.Disciple, "disciple", s.Disciple, "attach DISCiPLE disk interface")
	fs.BoolVar(&s.DivIDEEnabled, "divide", s.DivIDEEnabled, "attach DivIDE interface")
	fs.BoolVar(&s.DivIDEWriteProtect, "divide-wp", s.DivIDEWriteProtect, "write-protect DivIDE EEPROM")
	fs.BoolVar(&s.KempstonMouse, "kempston-mouse", s.KempstonMouse, "attach Kempston mouse")
	fs.BoolVar(&s.Spectranet, "spectranet", s.Spectranet, "attach Spectranet network/ROM card")
	fs.BoolVar(&s.RZXCompression, "rzx-compression", s.RZXCompression, "compress RZX input recordings")
	fs.BoolVar(&s.CompetitionMode, "competition", s.CompetitionMode, "RZX competition mode (disables snapshot embedding)")
	fs.StringVar(&s.SnapshotPath, "snapshot", "", "load a snapshot file at startup")
	fs.StringVar(&s.TapePath, "tape", "", "insert a tape image at startup")
	fs.StringVar(&s.RZXPath, "rzx", "", "play back an RZX recording at startup")
	fs.BoolVar(&s.Headless, "headless", s.Headless, "run without a video window (RZX replay, CI)")
	romFlag := fs.String("rom", "", "name=path ROM override, repeatable via commas")

	if err := fs.Parse(args); err != nil {
		return s, err
	}

	if *configPath != "" {
		if err := applyConfigFile(&s, *configPath); err != nil {
			return s, err
		}
		// Parse again so flags given on the command line win over the file.
		if err := fs.Parse(args); err != nil {
			return s, err
		}
	}
	if *romFlag != "" {
		for _, pair := range strings.Split(*romFlag, ",") {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				return s, fmt.Errorf("invalid -rom entry %q, want name=path", pair)
			}
			s.ROMPaths[k] = v
		}
	}
	return s, nil
}

// applyConfigFile reads key=value lines (# starts a comment, blank lines
// ignored) matching the teacher's preference for hand-rolled parsing over a
// config framework.
func applyConfigFile(s *Settings, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		applyConfigKey(s, key, val)
	}
	return scanner.Err()
}

func applyConfigKey(s *Settings, key, val string) {
	b, _ := strconv.ParseBool(val)
	n, _ := strconv.Atoi(val)
	switch key {
	case "machine":
		s.Machine = val
	case "issue2":
		s.Issue2 = b
	case "tape_traps":
		s.TapeTraps = b
	case "fastload":
		s.FastLoad = b
	case "auto_load":
		s.AutoLoad = b
	case "confirm_actions":
		s.ConfirmActions = b
	case "emulation_speed":
		s.EmulationSpeed = n
	case "frame_rate":
		s.FrameRate = n
	case "beta128":
		s.Beta128 = b
	case "plusd":
		s.PlusD = b
	case "opus":
		s.Opus = b
	case "disciple":
		s.Disciple = b
	case "divide_enabled":
		s.DivIDEEnabled = b
	case "divide_wp":
		s.DivIDEWriteProtect = b
	case "kempston_mouse":
		s.KempstonMouse = b
	case "spectranet":
		s.Spectranet = b
	case "rzx_compression":
		s.RZXCompression = b
	case "competition_mode":
		s.CompetitionMode = b
	default:
		if strings.HasPrefix(key, "rom.") {
			s.ROMPaths[strings.TrimPrefix(key, "rom.")] = val
		}
	}
}
