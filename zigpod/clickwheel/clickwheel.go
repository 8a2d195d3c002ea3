// Package clickwheel implements the iPod click wheel: a button bitmap,
// wheel position and a data-available latch that packs into the 32-bit
// packet firmware expects (spec §4.8).
package clickwheel

import (
	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/bit"
)

// Button identifies one of the six click wheel buttons. Values are the bit
// positions the firmware's packet layout expects them at directly (spec
// §4.8, §8 invariant 9, scenario S4): SELECT..MENU occupy bits 16..20.
type Button uint

const (
	ButtonSelect   Button = 16
	ButtonBackward Button = 17
	ButtonForward  Button = 18
	ButtonPlay     Button = 19
	ButtonMenu     Button = 20
	ButtonHold     Button = 21
)

// Controller owns the wheel's button/position state and the serial
// interrupt line it drives on every change.
type Controller struct {
	buttons  uint32 // bitmap, bits 16..21 per Button
	position uint32 // 0..95

	dataAvailable bool

	// RequestInterrupt is a non-owning callback into the interrupt
	// controller, asserted on serial0 whenever new data is latched.
	RequestInterrupt func(addr.Interrupt)

	// ClearInterrupt is a non-owning callback into the interrupt
	// controller, invoked whenever firmware reads the data register and
	// consumes the latched packet.
	ClearInterrupt func(addr.Interrupt)
}

// New returns a Controller with no buttons pressed and the wheel at 0.
func New() *Controller {
	return &Controller{}
}

func (c *Controller) latch() {
	c.dataAvailable = true
	if c.RequestInterrupt != nil {
		c.RequestInterrupt(addr.IRQSerial0)
	}
}

// Press marks a button as held and latches new data. b's value is already
// the bit position in the packet layout.
func (c *Controller) Press(b Button) {
	c.buttons = bit.Set(uint(b), c.buttons)
	c.latch()
}

// Release marks a button as released and latches new data.
func (c *Controller) Release(b Button) {
	c.buttons = bit.Clear(uint(b), c.buttons)
	c.latch()
}

// Touch sets the wheel position directly (a finger landing on the wheel)
// and latches new data.
func (c *Controller) Touch(position uint32) {
	c.position = position % 96
	c.latch()
}

// Rotate advances the wheel position by delta (positive = clockwise) and
// latches new data.
func (c *Controller) Rotate(delta int) {
	pos := int(c.position) + delta
	pos %= 96
	if pos < 0 {
		pos += 96
	}
	c.position = uint32(pos)
	c.latch()
}

// packet formats the current state into the firmware's expected 32-bit
// layout: a fixed valid-command base OR'd with button bits at 16..21 and
// the wheel position in the low bits.
func (c *Controller) packet() uint32 {
	value := addr.ClickWheelValidBase
	value |= c.buttons & (0x3F << addr.ClickWheelButtonShift)
	value |= c.position & addr.ClickWheelPositionMask
	return value
}

// Read implements the bus Peripheral contract.
func (c *Controller) Read(offset uint32) uint32 {
	switch offset {
	case addr.ClickWheelData:
		value := c.packet()
		c.dataAvailable = false
		if c.ClearInterrupt != nil {
			c.ClearInterrupt(addr.IRQSerial0)
		}
		return value
	case addr.ClickWheelStatus:
		return bit.Cond(addr.ClickWheelDataAvailBit, 0, c.dataAvailable)
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract. The click wheel's
// registers are read-only from the bus side; real input comes from
// Press/Release/Touch/Rotate.
func (c *Controller) Write(offset uint32, value uint32) {}
