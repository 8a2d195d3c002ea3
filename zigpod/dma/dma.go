// Package dma implements the PP5021C's four DMA channels: command/status/
// address/count registers, with transfers completing instantly on tick()
// per spec §4.5 (DMA byte-stream timing is explicitly a non-goal).
package dma

import (
	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/bit"
)

const channelCount = 4

type channel struct {
	command uint32
	status  uint32
	ramAddr uint32
	flags   uint32
	perAddr uint32
	incr    uint32
	count   uint32
	remain  uint32
}

func (c *channel) enabled() bool   { return bit.IsSet(addr.DMACmdEnable, c.command) }
func (c *channel) interrupt() bool { return bit.IsSet(addr.DMACmdInterrupt, c.command) }

// RAMAccessor lets the DMA controller move bytes to/from the memory bus
// during the ATA bulk-transfer side channel (spec §4.5).
type RAMAccessor interface {
	ReadByte(addr uint32) byte
	WriteByte(addr uint32, value byte)
}

// Controller owns the four DMA channels and the aggregated master status.
type Controller struct {
	channels     [channelCount]channel
	masterStatus uint32

	// RequestInterrupt is a non-owning callback into the interrupt
	// controller.
	RequestInterrupt func(addr.Interrupt)

	// ClearInterrupt is a non-owning callback into the interrupt
	// controller, invoked whenever firmware write-1-to-clears a channel's
	// or the master's status bits.
	ClearInterrupt func(addr.Interrupt)
}

// New returns a Controller with every channel idle.
func New() *Controller {
	return &Controller{}
}

func (c *Controller) request() {
	if c.RequestInterrupt != nil {
		c.RequestInterrupt(addr.IRQDMA)
	}
}

func (c *Controller) clear() {
	if c.ClearInterrupt != nil {
		c.ClearInterrupt(addr.IRQDMA)
	}
}

// Tick completes every active channel instantly: this emulator does not
// model DMA byte-stream timing (spec §1 Non-goals).
func (c *Controller) Tick(cycles int) {
	for i := range c.channels {
		ch := &c.channels[i]
		if !ch.enabled() {
			continue
		}
		ch.remain = 0
		ch.status = bit.Set(addr.DMAStatusComplete, bit.Set(addr.DMAStatusFIFOEmpty, ch.status))
		ch.status = bit.Clear(addr.DMAStatusActive, ch.status)
		ch.command = bit.Clear(addr.DMACmdEnable, ch.command)

		if ch.interrupt() {
			c.masterStatus = bit.Set(uint(i), c.masterStatus)
			c.request()
		}
	}
}

// PerformATATransfer pushes or pulls a bulk byte slice through the given
// channel's RAM address, used by the ATA controller's fast-path bulk
// transfer (spec §4.5).
func (c *Controller) PerformATATransfer(channelIndex int, ram RAMAccessor, data []byte, toRAM bool) {
	if channelIndex < 0 || channelIndex >= channelCount {
		return
	}
	ch := &c.channels[channelIndex]
	base := ch.ramAddr
	for i := range data {
		a := base + uint32(i)
		if toRAM {
			ram.WriteByte(a, data[i])
		} else {
			data[i] = ram.ReadByte(a)
		}
	}
}

func (c *Controller) channelOffset(offset uint32) (int, uint32, bool) {
	if offset < addr.DMAChannel0Base {
		return -1, 0, false
	}
	rel := offset - addr.DMAChannel0Base
	idx := int(rel / addr.DMAChannelStride)
	if idx >= channelCount {
		return -1, 0, false
	}
	return idx, rel % addr.DMAChannelStride, true
}

// Read implements the bus Peripheral contract.
func (c *Controller) Read(offset uint32) uint32 {
	if offset == addr.DMAMasterStatus {
		return c.masterStatus
	}
	idx, reg, ok := c.channelOffset(offset)
	if !ok {
		return 0
	}
	ch := &c.channels[idx]
	switch reg {
	case addr.DMACommand:
		return ch.command
	case addr.DMAStatus:
		return ch.status
	case addr.DMARamAddr:
		return ch.ramAddr
	case addr.DMAFlags:
		return ch.flags
	case addr.DMAPerAddr:
		return ch.perAddr
	case addr.DMAIncr:
		return ch.incr
	case addr.DMACount:
		return ch.count
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract.
func (c *Controller) Write(offset uint32, value uint32) {
	if offset == addr.DMAMasterStatus {
		c.masterStatus &^= value // write-1-to-clear
		c.clear()
		return
	}
	idx, reg, ok := c.channelOffset(offset)
	if !ok {
		return
	}
	ch := &c.channels[idx]
	switch reg {
	case addr.DMACommand:
		ch.command = value
		if bit.IsSet(addr.DMACmdAbort, value) {
			ch.command = bit.Clear(addr.DMACmdEnable, ch.command)
			ch.remain = 0
			return
		}
		if bit.IsSet(addr.DMACmdEnable, value) {
			ch.remain = ch.count
			ch.status = bit.Set(addr.DMAStatusActive, ch.status)
		}
	case addr.DMAStatus:
		ch.status &^= value // write-1-to-clear
		c.clear()
	case addr.DMARamAddr:
		ch.ramAddr = value
	case addr.DMAFlags:
		ch.flags = value
	case addr.DMAPerAddr:
		ch.perAddr = value
	case addr.DMAIncr:
		ch.incr = value
	case addr.DMACount:
		ch.count = value
	}
}
