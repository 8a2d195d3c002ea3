// Package zigpod ties the PP5021C peripheral packages together into a
// single address-mapped bus and drives the CPU/COP execution loop, per
// spec §2 and §4.
package zigpod

import (
	"fmt"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
)

// Peripheral is the minimal register-file contract every device on the
// bus implements: a 32-bit register window addressed by an offset
// relative to the base the device was registered at.
type Peripheral interface {
	Read(offset uint32) uint32
	Write(offset uint32, value uint32)
}

// WidthPeripheral is implemented by devices whose behaviour depends on
// the access width of an individual load/store, namely the ATA DATA
// register (spec §4.4, §6). The bus type-asserts for it and falls back
// to Peripheral.Read/Write otherwise.
type WidthPeripheral interface {
	ReadWidth(offset uint32, width int) uint32
	WriteWidth(offset uint32, width int, value uint32)
}

type region struct {
	base uint32
	size uint32
	dev  Peripheral
}

func (r region) contains(address uint32) bool {
	return address >= r.base && address < r.base+r.size
}

// remapEntry models one of the PP5021C's four logical-to-physical remap
// slots, used by boot firmware to alias IRAM over other regions (spec
// §2 EXPANSION, §9 Open Questions).
type remapEntry struct {
	logicalBase  uint32
	physicalBase uint32
	size         uint32
	active       bool
}

const remapSlotCount = 4

// Bus is the PP5021C memory-mapped address space: flat IRAM/SDRAM arrays,
// a peripheral region table dispatched by (base, size) window, and the
// four-entry logical remap table.
type Bus struct {
	iram  []byte
	sdram []byte

	regions []region
	remap   [remapSlotCount]remapEntry
}

// NewBus returns a Bus with IRAM/SDRAM zeroed and no peripherals
// registered yet; callers register each peripheral package's window via
// RegisterPeripheral.
func NewBus() *Bus {
	return &Bus{
		iram:  make([]byte, addr.IRAMSize),
		sdram: make([]byte, addr.SDRAMMax),
	}
}

// RegisterPeripheral maps dev's register file into the bus's address
// space at [base, base+size).
func (b *Bus) RegisterPeripheral(base, size uint32, dev Peripheral) {
	b.regions = append(b.regions, region{base: base, size: size, dev: dev})
}

// SetRemap installs and activates one of the four logical-to-physical
// remap slots (spec §2 EXPANSION); ClearRemap disables a slot.
func (b *Bus) SetRemap(slot int, logicalBase, physicalBase, size uint32) error {
	if slot < 0 || slot >= remapSlotCount {
		return fmt.Errorf("zigpod: remap slot %d out of range", slot)
	}
	b.remap[slot] = remapEntry{logicalBase: logicalBase, physicalBase: physicalBase, size: size, active: true}
	return nil
}

// ClearRemap disables a remap slot.
func (b *Bus) ClearRemap(slot int) {
	if slot < 0 || slot >= remapSlotCount {
		return
	}
	b.remap[slot].active = false
}

func (b *Bus) resolve(address uint32) uint32 {
	for _, e := range b.remap {
		if e.active && address >= e.logicalBase && address < e.logicalBase+e.size {
			return e.physicalBase + (address - e.logicalBase)
		}
	}
	return address
}

// LoadIRAM copies data into IRAM starting at offset 0; images larger than
// addr.IRAMSize are rejected. Used to seed a boot stub or firmware image
// before the CPU starts stepping.
func (b *Bus) LoadIRAM(data []byte) error {
	if uint32(len(data)) > addr.IRAMSize {
		return fmt.Errorf("zigpod: IRAM image too large: %d bytes", len(data))
	}
	copy(b.iram, data)
	return nil
}

// LoadSDRAM copies data into SDRAM starting at offset 0.
func (b *Bus) LoadSDRAM(data []byte) error {
	if uint32(len(data)) > addr.SDRAMMax {
		return fmt.Errorf("zigpod: SDRAM image too large: %d bytes", len(data))
	}
	copy(b.sdram, data)
	return nil
}

func (b *Bus) findRegion(address uint32) (*region, uint32, bool) {
	for i := range b.regions {
		if b.regions[i].contains(address) {
			return &b.regions[i], address - b.regions[i].base, true
		}
	}
	return nil, 0, false
}

// ReadByte/WriteByte satisfy dma.RAMAccessor so the DMA controller can
// push ATA bulk transfers straight into IRAM/SDRAM (spec §4.5).
func (b *Bus) ReadByte(address uint32) byte {
	return b.Read8(address)
}

func (b *Bus) WriteByte(address uint32, value byte) {
	b.Write8(address, value)
}

func (b *Bus) readWidth(address uint32, width int) uint32 {
	address = b.resolve(address)

	if address < addr.IRAMBase+addr.IRAMSize {
		return readLE(b.iram, address-addr.IRAMBase, width)
	}
	if address >= addr.SDRAMBase && address < addr.SDRAMBase+addr.SDRAMMax {
		return readLE(b.sdram, address-addr.SDRAMBase, width)
	}
	if r, off, ok := b.findRegion(address); ok {
		if wp, ok := r.dev.(WidthPeripheral); ok {
			return wp.ReadWidth(off, width)
		}
		return r.dev.Read(off)
	}
	return 0
}

func (b *Bus) writeWidth(address uint32, width int, value uint32) {
	address = b.resolve(address)

	if address < addr.IRAMBase+addr.IRAMSize {
		writeLE(b.iram, address-addr.IRAMBase, width, value)
		return
	}
	if address >= addr.SDRAMBase && address < addr.SDRAMBase+addr.SDRAMMax {
		writeLE(b.sdram, address-addr.SDRAMBase, width, value)
		return
	}
	if r, off, ok := b.findRegion(address); ok {
		if wp, ok := r.dev.(WidthPeripheral); ok {
			wp.WriteWidth(off, width, value)
			return
		}
		r.dev.Write(off, value)
	}
}

func readLE(mem []byte, offset uint32, width int) uint32 {
	var value uint32
	for i := 0; i < width; i++ {
		idx := int(offset) + i
		if idx < 0 || idx >= len(mem) {
			continue
		}
		value |= uint32(mem[idx]) << (8 * i)
	}
	return value
}

func writeLE(mem []byte, offset uint32, width int, value uint32) {
	for i := 0; i < width; i++ {
		idx := int(offset) + i
		if idx < 0 || idx >= len(mem) {
			continue
		}
		mem[idx] = byte(value >> (8 * i))
	}
}

// Read8/Read16/Read32/Write8/Write16/Write32 satisfy cpu.Bus.
func (b *Bus) Read8(address uint32) uint8    { return uint8(b.readWidth(address, 1)) }
func (b *Bus) Read16(address uint32) uint16  { return uint16(b.readWidth(address, 2)) }
func (b *Bus) Read32(address uint32) uint32  { return b.readWidth(address, 4) }
func (b *Bus) Write8(address uint32, v uint8) {
	b.writeWidth(address, 1, uint32(v))
}
func (b *Bus) Write16(address uint32, v uint16) {
	b.writeWidth(address, 2, uint32(v))
}
func (b *Bus) Write32(address uint32, v uint32) {
	b.writeWidth(address, 4, v)
}
