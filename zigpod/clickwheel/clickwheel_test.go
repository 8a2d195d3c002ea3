package clickwheel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
)

func TestSelectPressSetsBit16(t *testing.T) {
	c := New()
	c.Press(ButtonSelect)

	packet := c.Read(addr.ClickWheelData)
	assert.NotEqual(t, uint32(0), packet&(1<<16))
	assert.Equal(t, addr.ClickWheelValidBase&addr.ClickWheelValidMask, packet&addr.ClickWheelValidMask&^uint32(0x3F<<16))
}

func TestMenuPressSetsBit20(t *testing.T) {
	c := New()
	c.Press(ButtonMenu)
	assert.NotEqual(t, uint32(0), c.Read(addr.ClickWheelData)&(1<<20))
}

func TestReleaseClearsBit(t *testing.T) {
	c := New()
	c.Press(ButtonHold)
	c.Release(ButtonHold)
	assert.Equal(t, uint32(0), c.Read(addr.ClickWheelData)&(1<<21))
}

func TestRotateWrapsAt96(t *testing.T) {
	c := New()
	c.Rotate(-1)
	assert.Equal(t, uint32(95), c.Read(addr.ClickWheelData)&addr.ClickWheelPositionMask)

	c.Rotate(2)
	assert.Equal(t, uint32(1), c.Read(addr.ClickWheelData)&addr.ClickWheelPositionMask)
}

func TestStatusReflectsDataAvailable(t *testing.T) {
	c := New()
	assert.Equal(t, uint32(0), c.Read(addr.ClickWheelStatus))

	c.Touch(10)
	assert.NotEqual(t, uint32(0), c.Read(addr.ClickWheelStatus))

	c.Read(addr.ClickWheelData) // clears the latch
	assert.Equal(t, uint32(0), c.Read(addr.ClickWheelStatus))
}

func TestInterruptRequestedOnPress(t *testing.T) {
	c := New()
	var got addr.Interrupt
	fired := false
	c.RequestInterrupt = func(s addr.Interrupt) { got, fired = s, true }

	c.Press(ButtonPlay)
	assert.True(t, fired)
	assert.Equal(t, addr.IRQSerial0, got)
}

func TestReadingDataClearsInterrupt(t *testing.T) {
	c := New()
	cleared := false
	c.ClearInterrupt = func(s addr.Interrupt) {
		assert.Equal(t, addr.IRQSerial0, s)
		cleared = true
	}

	c.Press(ButtonPlay)
	c.Read(addr.ClickWheelData)
	assert.True(t, cleared)
}
