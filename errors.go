// errors.go - error taxonomy and the on-screen error de-duplication helper
// (spec.md §7's error handling design).

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
	"errors"
	"fmt"
	"os"
)

// ErrNotImplemented is the sentinel error for features that are out of
// scope. Nothing in this package returns it at present: MachineState holds
// no Opus Discovery state, and SnapshotCodec.Save does not fail when an
// Opus Discovery drive is attached.
var ErrNotImplemented = errors.New("not implemented")

// ErrorKind groups UI-facing error messages so uiError can de-duplicate by
// kind+message rather than by exact call site.
type ErrorKind int

const (
	ErrorTape ErrorKind = iota
	ErrorDisk
	ErrorSnapshot
	ErrorRZX
	ErrorROM
	ErrorConfig
	ErrorPeripheral
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorTape:
		return "tape"
	case ErrorDisk:
		return "disk"
	case ErrorSnapshot:
		return "snapshot"
	case ErrorRZX:
		return "rzx"
	case ErrorROM:
		return "rom"
	case ErrorConfig:
		return "config"
	case ErrorPeripheral:
		return "peripheral"
	}
	return "error"
}

// uiErrorLog de-duplicates identical (kind, msg) pairs seen within the last
// dedupWindowFrames frames (spec.md §7), so a tape error raised every frame
// while a load is stuck doesn't flood stderr.
type uiErrorLog struct {
	seen map[string]int // "kind:msg" -> frame last printed
	now  int
}

const dedupWindowFrames = 50

func newUIErrorLog() *uiErrorLog {
	return &uiErrorLog{seen: make(map[string]int)}
}

// Tick advances the log's frame counter; call once per emulated frame.
func (l *uiErrorLog) Tick() { l.now++ }

// Report prints kind: msg to stderr unless the identical pair was already
// printed within the last dedupWindowFrames frames.
func (l *uiErrorLog) Report(kind ErrorKind, msg string) {
	key := kind.String() + ":" + msg
	if last, ok := l.seen[key]; ok && l.now-last < dedupWindowFrames {
		return
	}
	l.seen[key] = l.now
	fmt.Fprintf(os.Stderr, "[%s] %s\n", kind, msg)
}

// uiError is the package-level convenience wrapper used by collaborators
// that don't hold their own uiErrorLog reference.
func uiError(log *uiErrorLog, kind ErrorKind, format string, args ...interface{}) {
	if log == nil {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", kind, fmt.Sprintf(format, args...))
		return
	}
	log.Report(kind, fmt.Sprintf(format, args...))
}
