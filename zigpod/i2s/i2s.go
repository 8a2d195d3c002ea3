// Package i2s implements the PP5021C's I2S sample FIFO, per spec §4.7.
package i2s

import (
	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/bit"
)

const fifoCapacity = 256

// Sample is a single stereo audio frame delivered to the host.
type Sample struct {
	Left  int16
	Right int16
}

// Controller owns the 256-entry sample FIFO and drains it to a callback
// once it reaches half-full.
type Controller struct {
	control  uint32
	clockDiv uint32
	fifo     []uint32

	// OnHalfFull, when set, is invoked with the drained samples once the
	// FIFO reaches half capacity (the framebuffer/audio contract in §6).
	OnHalfFull func([]Sample)

	// RequestInterrupt is a non-owning callback into the interrupt
	// controller, asserted whenever the FIFO drains.
	RequestInterrupt func(addr.Interrupt)

	// ClearInterrupt is a non-owning callback into the interrupt
	// controller, invoked whenever the FIFO is reset by disabling the
	// controller.
	ClearInterrupt func(addr.Interrupt)
}

// New returns a Controller with TX/RX disabled and an empty FIFO.
func New() *Controller {
	return &Controller{fifo: make([]uint32, 0, fifoCapacity)}
}

func (c *Controller) enabled() bool   { return bit.IsSet(addr.I2SCtlEnable, c.control) }
func (c *Controller) txEnabled() bool { return bit.IsSet(addr.I2SCtlTXEnable, c.control) }

// SampleRateHz derives the playback rate from the clock-divider register,
// using the base clock and frame-clock divisor assumed in spec §9.
func (c *Controller) SampleRateHz() uint32 {
	if c.clockDiv == 0 {
		return 0
	}
	return addr.I2SBaseClockHz / (64 * c.clockDiv)
}

func (c *Controller) enqueue(word uint32) {
	if !c.enabled() || !c.txEnabled() {
		return
	}
	c.fifo = append(c.fifo, word)
	if len(c.fifo) >= fifoCapacity/2 {
		c.drain()
	}
}

func (c *Controller) drain() {
	samples := make([]Sample, len(c.fifo))
	for i, word := range c.fifo {
		samples[i] = Sample{
			Left:  int16(bit.Low16(word)),
			Right: int16(bit.High16(word)),
		}
	}
	c.fifo = c.fifo[:0]
	if c.OnHalfFull != nil {
		c.OnHalfFull(samples)
	}
	if c.RequestInterrupt != nil {
		c.RequestInterrupt(addr.IRQI2S)
	}
}

// Read implements the bus Peripheral contract.
func (c *Controller) Read(offset uint32) uint32 {
	switch offset {
	case addr.I2SControl:
		return c.control
	case addr.I2SClockDiv:
		return c.clockDiv
	case addr.I2SStatus:
		status := uint32(0)
		if len(c.fifo) == 0 {
			status = bit.Set(0, status) // FIFO empty
		}
		return status
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract.
func (c *Controller) Write(offset uint32, value uint32) {
	switch offset {
	case addr.I2SConfig:
		// accepted, not otherwise observable
	case addr.I2SControl:
		c.control = value
		if !c.enabled() {
			c.fifo = c.fifo[:0]
			if c.ClearInterrupt != nil {
				c.ClearInterrupt(addr.IRQI2S)
			}
		}
	case addr.I2SFifoWr:
		c.enqueue(value)
	case addr.I2SClockDiv:
		c.clockDiv = value
	}
}
