// Package disk provides concrete implementations of the ATA controller's
// disk-backend contract (spec §6): a flat-file-backed image and an
// in-memory backend for tests.
package disk

import (
	"fmt"
	"os"
)

const sectorSize = 512

// RawFile is a flat, sector-addressable disk image backed by a regular
// file, the way the pack's cartridge/ROM loaders treat flat binary images
// (see jeebie/memory/cartridge.go for the grounding pattern).
type RawFile struct {
	file    *os.File
	sectors uint64
}

// OpenRawFile opens path as a raw ATA disk image. The file's size must be
// a whole number of 512-byte sectors.
func OpenRawFile(path string) (*RawFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open disk image %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat disk image %q: %w", path, err)
	}
	return &RawFile{file: f, sectors: uint64(info.Size()) / sectorSize}, nil
}

// SectorCount implements ata.Disk.
func (r *RawFile) SectorCount() uint64 { return r.sectors }

// ReadSector implements ata.Disk.
func (r *RawFile) ReadSector(lba uint64, buf *[512]byte) bool {
	if lba >= r.sectors {
		return false
	}
	_, err := r.file.ReadAt(buf[:], int64(lba)*sectorSize)
	return err == nil
}

// WriteSector implements ata.Disk.
func (r *RawFile) WriteSector(lba uint64, buf *[512]byte) bool {
	if lba >= r.sectors {
		return false
	}
	_, err := r.file.WriteAt(buf[:], int64(lba)*sectorSize)
	return err == nil
}

// Close releases the underlying file handle.
func (r *RawFile) Close() error { return r.file.Close() }

// Ram is an in-memory disk backend, used by tests and the headless
// scenario harness.
type Ram struct {
	data []byte
}

// NewRam returns a Ram backend of sectorCount*512 zeroed bytes.
func NewRam(sectorCount uint64) *Ram {
	return &Ram{data: make([]byte, sectorCount*sectorSize)}
}

// NewRamFromBytes wraps an existing byte slice (its length must be a
// multiple of 512) as a Ram backend, useful for pre-seeding an MBR in
// tests.
func NewRamFromBytes(data []byte) *Ram {
	return &Ram{data: data}
}

// SectorCount implements ata.Disk.
func (r *Ram) SectorCount() uint64 { return uint64(len(r.data)) / sectorSize }

// ReadSector implements ata.Disk.
func (r *Ram) ReadSector(lba uint64, buf *[512]byte) bool {
	if lba >= r.SectorCount() {
		return false
	}
	copy(buf[:], r.data[lba*sectorSize:(lba+1)*sectorSize])
	return true
}

// WriteSector implements ata.Disk.
func (r *Ram) WriteSector(lba uint64, buf *[512]byte) bool {
	if lba >= r.SectorCount() {
		return false
	}
	copy(r.data[lba*sectorSize:(lba+1)*sectorSize], buf[:])
	return true
}
