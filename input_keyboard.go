//go:build !headless

// input_keyboard.go - host keyboard/joystick polling translated to the
// Spectrum's 8x5 keyboard matrix and the Kempston joystick port.

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

import "github.com/hajimehoshi/ebiten/v2"

// matrixKey locates a Spectrum key within the 8x5 half-row matrix scanned
// through port 0xFE (spec §4.3): row selects one of 8 address lines,
// col is the bit within that row (0 = the key at the outer end of the
// half-row: CAPS SHIFT, A, Q, 1 on the left; 0, P, ENTER, SPACE on the right).
type matrixKey struct {
	row, col int
}

// keyMatrix maps host keys onto their physical Spectrum position. Shifted
// symbols (e.g. '"' = Symbol Shift + P) are handled by asciiToKeys for
// pasted text rather than live play, where only the physical keys matter.
var keyMatrix = map[ebiten.Key]matrixKey{
	ebiten.KeyShiftLeft: {0, 0}, ebiten.KeyShiftRight: {0, 0}, // CAPS SHIFT
	ebiten.KeyZ: {0, 1}, ebiten.KeyX: {0, 2}, ebiten.KeyC: {0, 3}, ebiten.KeyV: {0, 4},
	ebiten.KeyA: {1, 0}, ebiten.KeyS: {1, 1}, ebiten.KeyD: {1, 2}, ebiten.KeyF: {1, 3}, ebiten.KeyG: {1, 4},
	ebiten.KeyQ: {2, 0}, ebiten.KeyW: {2, 1}, ebiten.KeyE: {2, 2}, ebiten.KeyR: {2, 3}, ebiten.KeyT: {2, 4},
	ebiten.Key1: {3, 0}, ebiten.Key2: {3, 1}, ebiten.Key3: {3, 2}, ebiten.Key4: {3, 3}, ebiten.Key5: {3, 4},
	ebiten.Key0: {4, 0}, ebiten.Key9: {4, 1}, ebiten.Key8: {4, 2}, ebiten.Key7: {4, 3}, ebiten.Key6: {4, 4},
	ebiten.KeyP: {5, 0}, ebiten.KeyO: {5, 1}, ebiten.KeyI: {5, 2}, ebiten.KeyU: {5, 3}, ebiten.KeyY: {5, 4},
	ebiten.KeyEnter: {6, 0}, ebiten.KeyL: {6, 1}, ebiten.KeyK: {6, 2}, ebiten.KeyJ: {6, 3}, ebiten.KeyH: {6, 4},
	ebiten.KeySpace: {7, 0}, ebiten.KeyControlLeft: {7, 1}, ebiten.KeyControlRight: {7, 1}, // SYMBOL SHIFT
	ebiten.KeyM: {7, 2}, ebiten.KeyN: {7, 3}, ebiten.KeyB: {7, 4},
}

// SpectrumKeyboard polls host input every frame and drives a ULAEngine's
// key matrix plus a Kempston joystick port entry.
type SpectrumKeyboard struct {
	ula      *ULAEngine
	kempston *kempstonState
	mouse    *kempstonMouseState

	pasteQueue  []byte
	pasteHold   int // frames remaining for the key(s) currently being "typed"
	pasteActive []matrixKey
}

func NewSpectrumKeyboard(ula *ULAEngine, kempston *kempstonState) *SpectrumKeyboard {
	return &SpectrumKeyboard{ula: ula, kempston: kempston}
}

// AttachMouse enables Kempston mouse polling; called only when the
// peripheral is actually present (spec §4.9).
func (k *SpectrumKeyboard) AttachMouse(mouse *kempstonMouseState) {
	k.mouse = mouse
}

// Poll reads live key state and updates the matrix; called once per Update().
func (k *SpectrumKeyboard) Poll() {
	var rows [8]byte
	for i := range rows {
		rows[i] = 0xFF
	}

	for key, pos := range keyMatrix {
		if ebiten.IsKeyPressed(key) {
			rows[pos.row] &^= 1 << uint(pos.col)
		}
	}

	k.applyPaste(rows[:])

	for row, mask := range rows {
		k.ula.SetKeyRow(row, mask)
	}

	k.pollKempston()
	k.pollMouse()
}

// pollMouse feeds the host cursor position and buttons to the Kempston
// mouse interface, clamped to the single byte range the port returns.
func (k *SpectrumKeyboard) pollMouse() {
	if k.mouse == nil {
		return
	}
	cx, cy := ebiten.CursorPosition()
	k.mouse.SetPosition(byte(cx), byte(cy))
	var buttons byte
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		buttons |= 0x01
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		buttons |= 0x02
	}
	k.mouse.SetButtons(buttons)
}

func (k *SpectrumKeyboard) pollKempston() {
	if k.kempston == nil {
		return
	}
	var mask byte
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		mask |= 0x01
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		mask |= 0x02
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		mask |= 0x04
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		mask |= 0x08
	}
	for _, gp := range ebiten.AppendGamepadIDs(nil) {
		if ebiten.IsStandardGamepadButtonPressed(gp, ebiten.StandardGamepadButtonRightBottom) {
			mask |= 0x10
		}
	}
	k.kempston.Set(mask)
}

// asciiToKeys maps a pasted ASCII byte onto the physical key(s) that type it,
// including the CAPS SHIFT / SYMBOL SHIFT modifier rows the real keyboard
// needs for punctuation and capitals.
func asciiToKeys(b byte) ([]matrixKey, bool) {
	caps := matrixKey{0, 0}
	symbol := matrixKey{7, 1}
	switch {
	case b == '\n' || b == '\r':
		return []matrixKey{{6, 0}}, true
	case b == ' ':
		return []matrixKey{{7, 0}}, true
	case b >= 'a' && b <= 'z':
		if pos, ok := keyMatrix[letterKey(b-'a'+'A')]; ok {
			return []matrixKey{pos}, true
		}
	case b >= 'A' && b <= 'Z':
		if pos, ok := keyMatrix[letterKey(b)]; ok {
			return []matrixKey{caps, pos}, true
		}
	case b >= '0' && b <= '9':
		if pos, ok := keyMatrix[digitKey(b)]; ok {
			return []matrixKey{pos}, true
		}
	case b == '"':
		return []matrixKey{symbol, keyMatrix[ebiten.KeyP]}, true
	case b == ',':
		return []matrixKey{symbol, keyMatrix[ebiten.KeyN]}, true
	case b == '.':
		return []matrixKey{symbol, keyMatrix[ebiten.KeyM]}, true
	}
	return nil, false
}

func letterKey(upper byte) ebiten.Key {
	return ebiten.KeyA + ebiten.Key(upper-'A')
}

func digitKey(digit byte) ebiten.Key {
	if digit == '0' {
		return ebiten.Key0
	}
	return ebiten.Key1 + ebiten.Key(digit-'1')
}

// QueuePaste appends clipboard text to be "typed" one byte at a time,
// holding each byte's keys down for pasteHoldFrames more frames so the ULA's keyboard
// scan loop (which polls once per frame from BASIC) reliably sees them.
func (k *SpectrumKeyboard) QueuePaste(data []byte) {
	k.pasteQueue = append(k.pasteQueue, data...)
}

const pasteHoldFrames = 4

func (k *SpectrumKeyboard) applyPaste(rows []byte) {
	if k.pasteHold > 0 {
		for _, pos := range k.pasteActive {
			rows[pos.row] &^= 1 << uint(pos.col)
		}
		k.pasteHold--
		return
	}
	for len(k.pasteQueue) > 0 {
		b := k.pasteQueue[0]
		k.pasteQueue = k.pasteQueue[1:]
		keys, ok := asciiToKeys(b)
		if !ok {
			continue
		}
		k.pasteActive = keys
		k.pasteHold = pasteHoldFrames
		for _, pos := range keys {
			rows[pos.row] &^= 1 << uint(pos.col)
		}
		return
	}
}
