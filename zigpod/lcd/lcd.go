// Package lcd implements the BCM2722 direct LCD interface and its
// block-transfer bridge, per spec §4.9. Both paths write into the same
// 320x240 RGB565 framebuffer.
package lcd

import (
	"encoding/binary"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
)

const (
	Width  = 320
	Height = 240
	// FramebufferBytes is Width*Height*2 bytes/pixel (RGB565).
	FramebufferBytes = Width * Height * 2
)

// Controller owns the framebuffer and the direct BCM write path.
type Controller struct {
	framebuffer [FramebufferBytes]byte
	internalAddr uint32

	// OnUpdate, when set, is invoked with a snapshot of the framebuffer on
	// an UPDATE command (the §6 framebuffer contract).
	OnUpdate func([FramebufferBytes]byte)
}

// New returns a Controller with a zeroed framebuffer.
func New() *Controller {
	return &Controller{}
}

// WritePixel stores a RGB565 pixel at the given pixel index (0-based, row
// major) directly into the framebuffer, used by the LCD2 bridge's
// block-transfer path.
func (c *Controller) WritePixel(pixelIndex int, value uint16) {
	off := pixelIndex * 2
	if off < 0 || off+2 > FramebufferBytes {
		return
	}
	binary.LittleEndian.PutUint16(c.framebuffer[off:], value)
}

// Framebuffer returns a snapshot of the current framebuffer contents.
func (c *Controller) Framebuffer() [FramebufferBytes]byte {
	return c.framebuffer
}

// TriggerUpdate invokes the display callback, used both by the direct UPDATE
// command and by the LCD2 bridge on transfer completion.
func (c *Controller) TriggerUpdate() {
	if c.OnUpdate != nil {
		c.OnUpdate(c.framebuffer)
	}
}

func (c *Controller) writeAutoIncrement(value uint16) {
	if c.internalAddr >= addr.LCDFramebufferBase {
		off := c.internalAddr - addr.LCDFramebufferBase
		if int(off)+2 <= FramebufferBytes {
			binary.LittleEndian.PutUint16(c.framebuffer[off:], value)
		}
	}
	c.internalAddr += 2
}

// Read implements the bus Peripheral contract. Only bits 16..18 of the
// offset are decoded on real hardware, selecting one of three slots.
func (c *Controller) Read(offset uint32) uint32 {
	switch offset & 0x70000 {
	case addr.LCDAddressSlot:
		return c.internalAddr
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract.
func (c *Controller) Write(offset uint32, value uint32) {
	switch offset & 0x70000 {
	case addr.LCDAddressSlot:
		c.internalAddr = value
	case addr.LCDDataSlot:
		c.writeAutoIncrement(uint16(value))
	case addr.LCDControlSlot:
		switch value {
		case addr.LCDCmdUpdate:
			c.TriggerUpdate()
		case addr.LCDCmdNOP, addr.LCDCmdSetWindow, addr.LCDCmdWriteData:
			// SET_WINDOW/WRITE_DATA commands are accepted; the address and
			// data slots already carry their payload in this model.
		}
	}
}
