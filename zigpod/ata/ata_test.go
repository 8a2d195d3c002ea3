package ata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/disk"
)

func newTestDisk(sectors uint64) *disk.Ram {
	return disk.NewRam(sectors)
}

func TestIdentifyPopulatesBufferAndDRQ(t *testing.T) {
	c := New(newTestDisk(16))
	c.Write(addr.ATACommand, addr.ATACmdIdentify)

	status := c.Read(addr.ATACommand)
	assert.NotEqual(t, uint32(0), status&uint32(addr.ATAStatusDRQ))

	word := c.Read(addr.ATAData)
	assert.NotEqual(t, uint32(0), word, "IDENTIFY word 0 should be non-zero")
}

func TestReadSectorsLBA28(t *testing.T) {
	d := newTestDisk(16)
	var seed [512]byte
	seed[0] = 0xAB
	d.WriteSector(1, &seed)

	c := New(d)
	c.Write(addr.ATASector, 1)
	c.Write(addr.ATALCyl, 0)
	c.Write(addr.ATAHCyl, 0)
	c.Write(addr.ATASelect, addr.ATASelectLBAMode)
	c.Write(addr.ATANSector, 1)
	c.Write(addr.ATACommand, addr.ATACmdReadSectors)

	first := c.ReadWidth(addr.ATAData, 1)
	assert.Equal(t, uint32(0xAB), first)
}

func TestWriteSectorsPersistsToDisk(t *testing.T) {
	d := newTestDisk(16)
	c := New(d)

	c.Write(addr.ATASector, 2)
	c.Write(addr.ATALCyl, 0)
	c.Write(addr.ATAHCyl, 0)
	c.Write(addr.ATASelect, addr.ATASelectLBAMode)
	c.Write(addr.ATANSector, 1)
	c.Write(addr.ATACommand, addr.ATACmdWriteSectors)

	for i := 0; i < 512; i += 4 {
		c.WriteWidth(addr.ATAData, 4, 0x11223344)
	}

	var out [512]byte
	d.ReadSector(2, &out)
	assert.Equal(t, byte(0x44), out[0])
}

func TestReadPastDiskEndAborts(t *testing.T) {
	d := newTestDisk(2)
	c := New(d)
	c.Write(addr.ATASector, 10)
	c.Write(addr.ATASelect, addr.ATASelectLBAMode)
	c.Write(addr.ATANSector, 1)
	c.Write(addr.ATACommand, addr.ATACmdReadSectors)

	status := c.Read(addr.ATACommand)
	assert.NotEqual(t, uint32(0), status&uint32(addr.ATAStatusERR))
}

func TestInterruptSuppressedWhenNIENSet(t *testing.T) {
	c := New(newTestDisk(16))
	fired := false
	c.RequestInterrupt = func(addr.Interrupt) { fired = true }

	c.Write(addr.ATAControl, addr.ATACtrlNIEN)
	c.Write(addr.ATASelect, addr.ATASelectLBAMode)
	c.Write(addr.ATANSector, 1)
	c.Write(addr.ATACommand, addr.ATACmdReadSectors)

	assert.False(t, fired)
}

func TestReadingStatusClearsInterrupt(t *testing.T) {
	c := New(newTestDisk(16))
	cleared := false
	c.ClearInterrupt = func(s addr.Interrupt) {
		assert.Equal(t, addr.IRQIDE, s)
		cleared = true
	}

	c.Write(addr.ATASelect, addr.ATASelectLBAMode)
	c.Write(addr.ATANSector, 1)
	c.Write(addr.ATACommand, addr.ATACmdReadSectors)
	c.Read(addr.ATACommand) // reading STATUS clears INTRQ

	assert.True(t, cleared)
}

func TestSoftResetClearsInterrupt(t *testing.T) {
	c := New(newTestDisk(16))
	cleared := false
	c.ClearInterrupt = func(addr.Interrupt) { cleared = true }

	c.Write(addr.ATAControl, addr.ATACtrlSRST)
	assert.True(t, cleared)
}

func TestSoftResetRestoresReadyStatus(t *testing.T) {
	c := New(newTestDisk(16))
	c.Write(addr.ATACommand, 0xFF) // unknown command -> abort/error
	assert.NotEqual(t, uint32(0), c.Read(addr.ATACommand)&uint32(addr.ATAStatusERR))

	c.Write(addr.ATAControl, addr.ATACtrlSRST)
	status := c.Read(addr.ATACommand)
	assert.NotEqual(t, uint32(0), status&uint32(addr.ATAStatusDRDY))
	assert.Equal(t, uint32(0), status&uint32(addr.ATAStatusERR))
}
