// Package irq implements the PP5021C interrupt controller: it aggregates
// every peripheral's interrupt source into raw/forced status bits and
// evaluates per-core (CPU/COP) pending IRQ/FIQ state on demand.
package irq

import (
	"log/slog"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/bit"
)

// Controller aggregates peripheral interrupt sources and exposes
// per-core pending IRQ/FIQ queries.
type Controller struct {
	raw      uint32 // raw_status: one bit per source
	forced   uint32 // software-injected bits, OR'd into raw for evaluation
	cpuMask  uint32
	copMask  uint32
}

// New returns a Controller with every source disabled and clear.
func New() *Controller {
	return &Controller{}
}

// Assert sets the raw status bit for source.
func (c *Controller) Assert(source addr.Interrupt) {
	c.raw = bit.Set(uint(source), c.raw)
	slog.Debug("irq asserted", "source", source)
}

// Clear clears the raw status bit for source. The forced bit, if any,
// is left untouched: forcing an interrupt keeps it pending until the
// force register itself is cleared.
func (c *Controller) Clear(source addr.Interrupt) {
	c.raw = bit.Clear(uint(source), c.raw)
}

// SetCPUEnable replaces the CPU's per-source enable mask.
func (c *Controller) SetCPUEnable(mask uint32) {
	c.cpuMask = mask
}

// SetCOPEnable replaces the COP's per-source enable mask.
func (c *Controller) SetCOPEnable(mask uint32) {
	c.copMask = mask
}

// pending returns the bitmask of sources that are pending for the given
// core enable mask: (raw | forced) & enable.
func (c *Controller) pending(enableMask uint32) uint32 {
	return (c.raw | c.forced) & enableMask
}

// HasPendingIRQ reports whether the CPU has a pending, unmasked,
// non-FIQ-classified interrupt.
func (c *Controller) HasPendingIRQ() bool {
	return c.pending(c.cpuMask)&^addr.FIQMask != 0
}

// HasPendingFIQ reports whether the CPU has a pending, unmasked,
// FIQ-classified interrupt.
func (c *Controller) HasPendingFIQ() bool {
	return c.pending(c.cpuMask)&addr.FIQMask != 0
}

// HasPendingCOPIRQ / HasPendingCOPFIQ mirror the above for the COP mask.
func (c *Controller) HasPendingCOPIRQ() bool {
	return c.pending(c.copMask)&^addr.FIQMask != 0
}

func (c *Controller) HasPendingCOPFIQ() bool {
	return c.pending(c.copMask)&addr.FIQMask != 0
}

// Read implements the bus Peripheral contract.
func (c *Controller) Read(offset uint32) uint32 {
	switch offset {
	case addr.IRQRawStatus:
		return c.raw
	case addr.IRQForce:
		return c.forced
	case addr.IRQCPUMaskSet, addr.IRQCPUMaskClr:
		return c.cpuMask
	case addr.IRQCOPMaskSet, addr.IRQCOPMaskClr:
		return c.copMask
	case addr.IRQCPUEnabled:
		return c.pending(c.cpuMask)
	case addr.IRQCOPEnabled:
		return c.pending(c.copMask)
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract.
//
// The two mask windows per core follow the real hardware convention: the
// "set" window ORs bits in, the "clear" window ANDs them out, so firmware
// can enable/disable individual sources without a read-modify-write.
func (c *Controller) Write(offset uint32, value uint32) {
	switch offset {
	case addr.IRQRawStatus:
		// read-only: ignored
	case addr.IRQForce:
		c.forced = value
	case addr.IRQCPUMaskSet:
		c.cpuMask |= value
	case addr.IRQCPUMaskClr:
		c.cpuMask &^= value
	case addr.IRQCOPMaskSet:
		c.copMask |= value
	case addr.IRQCOPMaskClr:
		c.copMask &^= value
	case addr.IRQCPUEnabled, addr.IRQCOPEnabled:
		// read-only: ignored
	}
}
