// Package gpio implements the PP5021C's twelve 8-pin GPIO ports (A..L),
// per spec §4.10.
package gpio

import (
	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/bit"
)

// port holds one GPIO port's register file.
type port struct {
	enable       uint32
	outputEnable uint32
	outputValue  uint32
	externalIn   uint32
	intEnable    uint32
	intStatus    uint32
	intLevel     uint32
}

// inputValue computes input_value = (output & outEnable) | (external & ^outEnable).
func (p *port) inputValue() uint32 {
	return (p.outputValue & p.outputEnable) | (p.externalIn &^ p.outputEnable)
}

// Controller owns the twelve GPIO ports.
type Controller struct {
	ports [addr.GPIOPortCount]port

	// OnOutputChange, when set, observes output writes so dependent
	// peripherals (e.g. the click wheel's serial line) can react.
	OnOutputChange func(portIndex int, value uint32)
}

// New returns a Controller with every port's pins floating low.
func New() *Controller {
	return &Controller{}
}

// SetExternalInput updates the external pin state driving a port, raising
// an interrupt on any edge for pins with their interrupt-enable bit set.
func (c *Controller) SetExternalInput(portIndex int, value uint32) {
	if portIndex < 0 || portIndex >= addr.GPIOPortCount {
		return
	}
	p := &c.ports[portIndex]
	before := p.inputValue()
	p.externalIn = value
	after := p.inputValue()

	changed := before ^ after
	if changed&p.intEnable != 0 {
		p.intStatus |= changed & p.intEnable
	}
}

func (c *Controller) portOffset(offset uint32) (int, uint32) {
	idx := int(offset / addr.GPIOPortStride)
	return idx, offset % addr.GPIOPortStride
}

// Read implements the bus Peripheral contract.
func (c *Controller) Read(offset uint32) uint32 {
	idx, reg := c.portOffset(offset)
	if idx < 0 || idx >= addr.GPIOPortCount {
		return 0
	}
	p := &c.ports[idx]
	switch reg {
	case addr.GPIOEnable:
		return p.enable
	case addr.GPIOOutputEn:
		return p.outputEnable
	case addr.GPIOOutputVal:
		return p.outputValue
	case addr.GPIOInputVal:
		return p.inputValue()
	case addr.GPIOIntEnable:
		return p.intEnable
	case addr.GPIOIntStatus:
		return p.intStatus
	case addr.GPIOIntLevel:
		return p.intLevel
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract.
func (c *Controller) Write(offset uint32, value uint32) {
	idx, reg := c.portOffset(offset)
	if idx < 0 || idx >= addr.GPIOPortCount {
		return
	}
	p := &c.ports[idx]
	switch reg {
	case addr.GPIOEnable:
		p.enable = value & bit.Mask(8)
	case addr.GPIOOutputEn:
		p.outputEnable = value & bit.Mask(8)
	case addr.GPIOOutputVal:
		p.outputValue = value & bit.Mask(8)
		if c.OnOutputChange != nil {
			c.OnOutputChange(idx, p.outputValue)
		}
	case addr.GPIOInputVal:
		// read-only: ignored
	case addr.GPIOIntEnable:
		p.intEnable = value & bit.Mask(8)
	case addr.GPIOIntStatus:
		// read-only except via GPIOIntClear
	case addr.GPIOIntLevel:
		p.intLevel = value & bit.Mask(8)
	case addr.GPIOIntClear:
		p.intStatus &^= value
	}
}
