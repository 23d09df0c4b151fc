// debug_ioview.go - I/O register viewer for Machine Monitor

package main

import "fmt"

// IORegisterDesc describes a single I/O register for display.
type IORegisterDesc struct {
	Name   string
	Addr   uint32
	Width  int    // 1, 2, or 4 bytes
	Access string // "RW", "RO", "WO"
}

// IODeviceDesc describes a group of I/O registers for a device.
type IODeviceDesc struct {
	Name      string
	Registers []IORegisterDesc
}

var ioDevices = map[string]*IODeviceDesc{
	"ula": {
		Name: "ULA",
		Registers: []IORegisterDesc{
			{"PORT_FE", 0x00FE, 1, "RW"}, // border/MIC/beeper write, keyboard/tape/EAR read
		},
	},
	"ay": {
		Name: "AY-3-8912",
		Registers: []IORegisterDesc{
			{"SELECT_FFFD", 0xFFFD, 1, "RW"},
			{"DATA_BFFD", 0xBFFD, 1, "RW"},
			{"REG0_FREQ_A_LO", 0x0000, 1, "RW"},
			{"REG1_FREQ_A_HI", 0x0001, 1, "RW"},
			{"REG2_FREQ_B_LO", 0x0002, 1, "RW"},
			{"REG3_FREQ_B_HI", 0x0003, 1, "RW"},
			{"REG4_FREQ_C_LO", 0x0004, 1, "RW"},
			{"REG5_FREQ_C_HI", 0x0005, 1, "RW"},
			{"REG6_NOISE_PER", 0x0006, 1, "RW"},
			{"REG7_MIXER", 0x0007, 1, "RW"},
			{"REG8_AMP_A", 0x0008, 1, "RW"},
			{"REG9_AMP_B", 0x0009, 1, "RW"},
			{"REG10_AMP_C", 0x000A, 1, "RW"},
			{"REG11_ENV_LO", 0x000B, 1, "RW"},
			{"REG12_ENV_HI", 0x000C, 1, "RW"},
			{"REG13_ENV_SHAPE", 0x000D, 1, "RW"},
		},
	},
	"kempston": {
		Name: "Kempston joystick",
		Registers: []IORegisterDesc{
			{"JOYSTICK", 0x001F, 1, "RO"},
		},
	},
	"fdc": {
		Name: "WD17xx FDC",
		Registers: []IORegisterDesc{
			{"COMMAND_STATUS", 0x2FFD, 1, "RW"},
			{"TRACK", 0x3FFD, 1, "RW"},
			{"SECTOR", 0x4FFD, 1, "RW"},
			{"DATA", 0x5FFD, 1, "RW"},
			{"SYSTEM", 0x1FFD, 1, "RW"},
		},
	},
}

// formatIOView renders the register view for a device. Each value shown is
// what cpu.ReadMemory returns for the listed address: no I/O port is read and
// the AY's internal register file is not consulted, so the values are memory
// bytes, not the devices' register contents.
func formatIOView(cpu DebuggableCPU, deviceName string) []string {
	dev, ok := ioDevices[deviceName]
	if !ok {
		return []string{fmt.Sprintf("Unknown device: %s", deviceName)}
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("--- %s Registers ---", dev.Name))

	for _, reg := range dev.Registers {
		data := cpu.ReadMemory(uint64(reg.Addr), reg.Width)
		if len(data) < reg.Width {
			lines = append(lines, fmt.Sprintf("  %-16s ($%05X) = ??       [%s]", reg.Name, reg.Addr, reg.Access))
			continue
		}

		var val uint32
		switch reg.Width {
		case 1:
			val = uint32(data[0])
			lines = append(lines, fmt.Sprintf("  %-16s ($%05X) = $%02X       [%d] %s", reg.Name, reg.Addr, val, val, reg.Access))
		case 2:
			val = uint32(data[0]) | uint32(data[1])<<8
			lines = append(lines, fmt.Sprintf("  %-16s ($%05X) = $%04X     [%d] %s", reg.Name, reg.Addr, val, val, reg.Access))
		case 4:
			val = uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
			lines = append(lines, fmt.Sprintf("  %-16s ($%05X) = $%08X [%d] %s", reg.Name, reg.Addr, val, val, reg.Access))
		}
	}

	return lines
}

// listIODevices returns the names of all available IO devices.
func listIODevices() []string {
	return []string{"ula", "ay", "kempston", "fdc"}
}
