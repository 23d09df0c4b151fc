// floppy_drive.go - floppy drive mechanics and disk image (spec §4.5's C6):
// head position, motor/write-protect/index state, and a flat sector-image
// backing store for the WD-FDC to read and write through.

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "fmt"

// DiskGeometry describes a flat sector-addressable floppy layout: tracks
// per side, sides, sectors per track and bytes per sector. This covers the
// common flat .img/.dsk geometries Beta-128/+D/Opus/DISCiPLE software
// shipped in, trading pulse-level MFM fidelity for a byte-addressable
// model the FDC can read/write directly.
type DiskGeometry struct {
	Tracks        int
	Sides         int
	SectorsPerTrack int
	SectorSize    int
}

// StandardMGTGeometry is the 80-track double-sided, 10 sector/track,
// 512-byte sector layout used by Beta-128/+D TRD-style disks.
var StandardMGTGeometry = DiskGeometry{Tracks: 80, Sides: 2, SectorsPerTrack: 10, SectorSize: 512}

// DiskImage is a flat, sector-addressable disk backing store. data is laid
// out track-major, side-minor, sector-minor: offset =
// ((track*Sides+side)*SectorsPerTrack + (sector-1)) * SectorSize.
type DiskImage struct {
	Geometry DiskGeometry
	data     []byte
	dirty    bool
}

// NewDiskImage creates a blank formatted image of the given geometry.
func NewDiskImage(geom DiskGeometry) *DiskImage {
	size := geom.Tracks * geom.Sides * geom.SectorsPerTrack * geom.SectorSize
	return &DiskImage{Geometry: geom, data: make([]byte, size)}
}

// LoadDiskImage attaches raw bytes (e.g. read from a .img/.dsk file) as a
// disk of the given geometry; the byte count must match exactly.
func LoadDiskImage(geom DiskGeometry, raw []byte) (*DiskImage, error) {
	want := geom.Tracks * geom.Sides * geom.SectorsPerTrack * geom.SectorSize
	if len(raw) != want {
		return nil, fmt.Errorf("disk image size %d does not match geometry (want %d)", len(raw), want)
	}
	img := &DiskImage{Geometry: geom, data: make([]byte, want)}
	copy(img.data, raw)
	return img, nil
}

func (d *DiskImage) sectorOffset(track, side, sector int) (int, bool) {
	if track < 0 || track >= d.Geometry.Tracks || side < 0 || side >= d.Geometry.Sides ||
		sector < 1 || sector > d.Geometry.SectorsPerTrack {
		return 0, false
	}
	idx := (track*d.Geometry.Sides+side)*d.Geometry.SectorsPerTrack + (sector - 1)
	return idx * d.Geometry.SectorSize, true
}

// ReadSector returns the full sector contents, or ok=false if the
// track/side/sector address is out of range (the FDC reports this as RNF).
func (d *DiskImage) ReadSector(track, side, sector int) ([]byte, bool) {
	off, ok := d.sectorOffset(track, side, sector)
	if !ok {
		return nil, false
	}
	return d.data[off : off+d.Geometry.SectorSize], true
}

// WriteSector overwrites a sector's contents and marks the image dirty.
func (d *DiskImage) WriteSector(track, side, sector int, buf []byte) bool {
	off, ok := d.sectorOffset(track, side, sector)
	if !ok {
		return false
	}
	copy(d.data[off:off+d.Geometry.SectorSize], buf)
	d.dirty = true
	return true
}

func (d *DiskImage) Dirty() bool { return d.dirty }
func (d *DiskImage) Bytes() []byte {
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

// FloppyDrive is one physical drive: head position, motor/index/write-
// protect state and the inserted disk image (if any), per spec §4.5's
// `fdd_t`.
type FloppyDrive struct {
	Track        int
	Side         int
	MotorOn      bool
	WriteProtect bool
	Index        bool // true during the index-pulse high phase
	Disk         *DiskImage
}

// Insert attaches a disk image to the drive. Eject logic (dirty-save
// prompt) lives at the UI layer, which calls Dirty/Bytes before detaching.
func (f *FloppyDrive) Insert(img *DiskImage, writeProtect bool) {
	f.Disk = img
	f.WriteProtect = writeProtect
}

func (f *FloppyDrive) Eject() {
	f.Disk = nil
}

// StepIn moves the head toward the spindle centre (higher track numbers);
// a no-op beyond the drive's maximum track (no physical motion, spec §3).
func (f *FloppyDrive) StepIn() {
	if f.Disk != nil && f.Track >= f.Disk.Geometry.Tracks-1 {
		return
	}
	f.Track++
}

// StepOut moves the head toward track 0; a no-op there (spec §3: "step-out
// at track 0 is a no-op").
func (f *FloppyDrive) StepOut() {
	if f.Track == 0 {
		return
	}
	f.Track--
}

func (f *FloppyDrive) AtTrack0() bool { return f.Track == 0 }

// ToggleIndex flips the index-pulse signal; called by the FDC's periodic
// index event (spec §4.4: "10ms high / 190ms low" duty cycle).
func (f *FloppyDrive) ToggleIndex(high bool) { f.Index = high }
