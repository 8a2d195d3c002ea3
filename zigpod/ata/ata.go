// Package ata implements the PP5021C's ATA task-file interface: IDENTIFY,
// LBA28/LBA48 sector read/write, and sector streaming through the data
// window, per spec §4.4.
package ata

import (
	"log/slog"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
)

// Disk is the abstract block device backing the controller (spec §6).
type Disk interface {
	SectorCount() uint64
	ReadSector(lba uint64, buf *[512]byte) bool
	WriteSector(lba uint64, buf *[512]byte) bool
}

type direction int

const (
	dirNone direction = iota
	dirRead
	dirWrite
)

// shiftReg models the HOB (high-order-byte) latch behaviour used for
// LBA48 addressing: each write pushes the previous value into "prev" and
// stores the new one in "cur". Reading the register always returns "cur";
// LBA48 uses "prev" as the high-order byte, matching firmware that writes
// the high byte of each pair before the low one (spec §9 Open Questions:
// no hardware-accurate HOB control bit is modelled, this is the chosen
// simplification).
type shiftReg struct {
	prev, cur uint8
}

func (s *shiftReg) write(v uint8) {
	s.prev = s.cur
	s.cur = v
}

// Controller is the ATA task-file register interface plus its 512-byte
// sector buffer.
type Controller struct {
	errFeature uint8
	nsector    shiftReg
	sector     shiftReg
	cylLo      shiftReg
	cylHi      shiftReg
	selectReg  uint8
	status     uint8
	control    uint8

	buffer   [512]byte
	bufPos   int
	bufLen   int
	dir      direction
	curLBA   uint64
	remain   int
	multiple int

	disk Disk

	// RequestInterrupt is a non-owning callback into the interrupt
	// controller, asserted only when nIEN (control bit1) is clear.
	RequestInterrupt func(addr.Interrupt)

	// ClearInterrupt is a non-owning callback into the interrupt
	// controller, invoked whenever firmware reads the status register or
	// the controller is reset — the real hardware's "reading STATUS
	// clears INTRQ" behaviour.
	ClearInterrupt func(addr.Interrupt)
}

// New returns a Controller backed by disk, initialised to DRDY|DSC as if a
// diagnostic had just completed.
func New(disk Disk) *Controller {
	c := &Controller{disk: disk}
	c.status = addr.ATAStatusDRDY | addr.ATAStatusDSC
	return c
}

func (c *Controller) lbaMode() bool {
	return c.selectReg&addr.ATASelectLBAMode != 0
}

func (c *Controller) head() uint8 {
	return c.selectReg & 0x0F
}

func (c *Controller) computeLBA(ext bool) uint64 {
	if ext {
		low := uint64(c.sector.cur) | uint64(c.cylLo.cur)<<8 | uint64(c.cylHi.cur)<<16
		high := uint64(c.sector.prev) | uint64(c.cylLo.prev)<<8 | uint64(c.cylHi.prev)<<16
		return (high << 24) | low
	}
	if c.lbaMode() {
		return uint64(c.sector.cur) | uint64(c.cylLo.cur)<<8 | uint64(c.cylHi.cur)<<16 | uint64(c.head())<<24
	}
	// CHS, assumed geometry of 16 heads / 63 sectors-per-track (spec §9
	// Open Questions: not a hardware-accurate CHS translator).
	cyl := uint32(c.cylLo.cur) | uint32(c.cylHi.cur)<<8
	sectorNum := uint64(c.sector.cur)
	if sectorNum == 0 {
		sectorNum = 1
	}
	return uint64(cyl)*16*63 + uint64(c.head())*63 + sectorNum - 1
}

func (c *Controller) computeSectorCount(ext bool) int {
	if ext {
		n := int(c.nsector.prev)<<8 | int(c.nsector.cur)
		if n == 0 {
			n = 65536
		}
		return n
	}
	n := int(c.nsector.cur)
	if n == 0 {
		n = 256
	}
	return n
}

func (c *Controller) maybeIRQ() {
	if c.control&addr.ATACtrlNIEN != 0 {
		return
	}
	if c.RequestInterrupt != nil {
		c.RequestInterrupt(addr.IRQIDE)
	}
}

func (c *Controller) clearIRQ() {
	if c.ClearInterrupt != nil {
		c.ClearInterrupt(addr.IRQIDE)
	}
}

func (c *Controller) abort() {
	c.errFeature = 0x04
	c.status = addr.ATAStatusDRDY | addr.ATAStatusERR
	c.maybeIRQ()
}

func (c *Controller) softReset() {
	c.status = addr.ATAStatusDRDY | addr.ATAStatusDSC
	c.errFeature = 0x01
	c.bufPos, c.bufLen, c.remain = 0, 0, 0
	c.dir = dirNone
	c.clearIRQ()
}

func (c *Controller) fetchSector(lba uint64) bool {
	if !c.disk.ReadSector(lba, &c.buffer) {
		return false
	}
	c.bufPos, c.bufLen = 0, 512
	return true
}

func (c *Controller) dispatch(cmd uint8) {
	c.status = addr.ATAStatusBSY
	slog.Debug("ata command", "cmd", cmd)

	switch cmd {
	case addr.ATACmdIdentify:
		c.populateIdentify()
		c.bufPos, c.bufLen = 0, 512
		c.dir = dirRead
		c.remain = 0
		c.status = addr.ATAStatusDRDY | addr.ATAStatusDRQ

	case addr.ATACmdReadSectors, addr.ATACmdReadSectorsExt, addr.ATACmdReadMultiple:
		ext := cmd == addr.ATACmdReadSectorsExt
		lba := c.computeLBA(ext)
		count := c.computeSectorCount(ext)
		if !c.fetchSector(lba) {
			c.abort()
			return
		}
		c.curLBA = lba
		c.remain = count
		c.dir = dirRead
		c.status = addr.ATAStatusDRDY | addr.ATAStatusDRQ
		c.maybeIRQ()

	case addr.ATACmdWriteSectors, addr.ATACmdWriteMultiple:
		ext := false
		lba := c.computeLBA(ext)
		count := c.computeSectorCount(ext)
		c.curLBA = lba
		c.remain = count
		c.bufPos, c.bufLen = 0, 512
		c.dir = dirWrite
		c.status = addr.ATAStatusDRDY | addr.ATAStatusDRQ

	case addr.ATACmdFlushCache, addr.ATACmdFlushCacheExt,
		addr.ATACmdStandbyImm, addr.ATACmdIdleImm, addr.ATACmdSetFeatures:
		c.status = addr.ATAStatusDRDY | addr.ATAStatusDSC
		c.maybeIRQ()

	case addr.ATACmdSetMultiple:
		n := int(c.nsector.cur)
		if n == 0 {
			n = 1
		}
		c.multiple = n
		c.status = addr.ATAStatusDRDY | addr.ATAStatusDSC
		c.maybeIRQ()

	default:
		c.abort()
	}
}

// ReadWidth implements width-aware peripheral access: the data register
// needs to know how many bytes an individual access consumed in order to
// track the 512-byte sector buffer correctly.
func (c *Controller) ReadWidth(offset uint32, width int) uint32 {
	if offset == addr.ATAData {
		return c.readData(width)
	}
	return c.Read(offset)
}

// WriteWidth is the write counterpart of ReadWidth.
func (c *Controller) WriteWidth(offset uint32, width int, value uint32) {
	if offset == addr.ATAData {
		c.writeData(width, value)
		return
	}
	c.Write(offset, value)
}

func (c *Controller) readData(width int) uint32 {
	if c.dir != dirRead || c.bufPos >= c.bufLen {
		return 0
	}
	var value uint32
	for i := 0; i < width && c.bufPos < c.bufLen; i++ {
		value |= uint32(c.buffer[c.bufPos]) << (8 * i)
		c.bufPos++
	}

	if c.bufPos >= c.bufLen {
		c.advanceReadSector()
	}
	return value
}

func (c *Controller) advanceReadSector() {
	if c.remain <= 0 {
		c.status = addr.ATAStatusDRDY | addr.ATAStatusDSC
		return
	}
	c.remain--
	if c.remain > 0 {
		c.curLBA++
		if !c.fetchSector(c.curLBA) {
			c.abort()
			return
		}
		c.maybeIRQ()
	} else {
		c.status = addr.ATAStatusDRDY | addr.ATAStatusDSC
		c.maybeIRQ()
	}
}

func (c *Controller) writeData(width int, value uint32) {
	if c.dir != dirWrite || c.bufPos >= c.bufLen {
		return
	}
	for i := 0; i < width && c.bufPos < c.bufLen; i++ {
		c.buffer[c.bufPos] = byte(value >> (8 * i))
		c.bufPos++
	}

	if c.bufPos >= c.bufLen {
		c.advanceWriteSector()
	}
}

func (c *Controller) advanceWriteSector() {
	if !c.disk.WriteSector(c.curLBA, &c.buffer) {
		c.abort()
		return
	}
	c.remain--
	if c.remain > 0 {
		c.curLBA++
		c.bufPos, c.bufLen = 0, 512
		c.maybeIRQ()
	} else {
		c.status = addr.ATAStatusDRDY | addr.ATAStatusDSC
		c.maybeIRQ()
	}
}

// Read implements the bus Peripheral contract for every register except
// DATA, which goes through ReadWidth.
func (c *Controller) Read(offset uint32) uint32 {
	switch offset {
	case addr.ATAData:
		return c.readData(4)
	case addr.ATAErrFeature:
		return uint32(c.errFeature)
	case addr.ATANSector:
		return uint32(c.nsector.cur)
	case addr.ATASector:
		return uint32(c.sector.cur)
	case addr.ATALCyl:
		return uint32(c.cylLo.cur)
	case addr.ATAHCyl:
		return uint32(c.cylHi.cur)
	case addr.ATASelect:
		return uint32(c.selectReg)
	case addr.ATACommand:
		status := uint32(c.status)
		c.clearIRQ()
		return status
	case addr.ATAAltStatus:
		return uint32(c.status)
	case addr.ATAControl:
		return uint32(c.control)
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract for every register except
// DATA, which goes through WriteWidth.
func (c *Controller) Write(offset uint32, value uint32) {
	switch offset {
	case addr.ATAData:
		c.writeData(4, value)
	case addr.ATAErrFeature:
		c.errFeature = uint8(value)
	case addr.ATANSector:
		c.nsector.write(uint8(value))
	case addr.ATASector:
		c.sector.write(uint8(value))
	case addr.ATALCyl:
		c.cylLo.write(uint8(value))
	case addr.ATAHCyl:
		c.cylHi.write(uint8(value))
	case addr.ATASelect:
		c.selectReg = uint8(value)
	case addr.ATACommand:
		c.dispatch(uint8(value))
	case addr.ATAControl:
		prev := c.control
		c.control = uint8(value)
		if c.control&addr.ATACtrlSRST != 0 && prev&addr.ATACtrlSRST == 0 {
			c.softReset()
		}
	case addr.ATAAltStatus:
		// read-only: ignored
	}
}
