package main

const (
	PSG_REG_COUNT = 14

	PSG_CLOCK_ZX_SPECTRUM = 1773400 // AY-3-8912 clock on every real Spectrum model (CPU clock / 2)
	Z80_CLOCK_ZX_SPECTRUM = 3500000

	// 128K/+2/+2A/+3 AY port pair, decoded on A15/A14/A1 (spec §4.12).
	AY_PORT_SELECT = 0xFFFD
	AY_PORT_DATA   = 0xBFFD
)
