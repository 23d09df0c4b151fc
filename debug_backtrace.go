// debug_backtrace.go - stack backtrace for Machine Monitor

package main

import "encoding/binary"

// backtrace walks the focused CPU's stack and returns up to depth return
// addresses. The machine only ever registers a Z80, but the dispatch stays
// CPU-named rather than hardcoded so a future coprocessor adapter slots in
// the same way the teacher's multi-architecture monitor did.
func backtrace(cpu DebuggableCPU, depth int) []uint64 {
	switch cpu.CPUName() {
	case "Z80":
		return backtraceZ80(cpu, depth)
	default:
		return nil
	}
}

// backtraceZ80 walks 2-byte stack slots (little-endian).
func backtraceZ80(cpu DebuggableCPU, depth int) []uint64 {
	sp, _ := cpu.GetRegister("SP")
	var result []uint64
	for range depth {
		data := cpu.ReadMemory(sp, 2)
		if len(data) < 2 {
			break
		}
		addr := uint64(binary.LittleEndian.Uint16(data))
		result = append(result, addr)
		sp += 2
	}
	return result
}
