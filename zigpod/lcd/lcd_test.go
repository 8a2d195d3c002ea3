package lcd

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
)

func TestWritePixelAndFramebuffer(t *testing.T) {
	c := New()
	c.WritePixel(5, 0xBEEF)

	fb := c.Framebuffer()
	assert.Equal(t, uint16(0xBEEF), binary.LittleEndian.Uint16(fb[10:]))
}

func TestWritePixelOutOfBoundsIgnored(t *testing.T) {
	c := New()
	c.WritePixel(-1, 0x1234)
	c.WritePixel(Width*Height, 0x1234)
	fb := c.Framebuffer()
	for _, b := range fb {
		assert.Equal(t, byte(0), b)
	}
}

func TestAutoIncrementDataWrite(t *testing.T) {
	c := New()
	c.Write(addr.LCDAddressSlot, addr.LCDFramebufferBase)
	c.Write(addr.LCDDataSlot, 0x1111)
	c.Write(addr.LCDDataSlot, 0x2222)

	fb := c.Framebuffer()
	assert.Equal(t, uint16(0x1111), binary.LittleEndian.Uint16(fb[0:]))
	assert.Equal(t, uint16(0x2222), binary.LittleEndian.Uint16(fb[2:]))
	assert.Equal(t, addr.LCDFramebufferBase+4, c.Read(addr.LCDAddressSlot))
}

func TestUpdateCommandInvokesCallback(t *testing.T) {
	c := New()
	called := false
	c.OnUpdate = func([FramebufferBytes]byte) { called = true }

	c.Write(addr.LCDControlSlot, addr.LCDCmdUpdate)
	assert.True(t, called)
}
