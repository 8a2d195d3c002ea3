package i2s

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
)

func enable(c *Controller) {
	c.Write(addr.I2SControl, (1<<addr.I2SCtlEnable)|(1<<addr.I2SCtlTXEnable))
}

func TestFIFODrainsAtHalfFull(t *testing.T) {
	c := New()
	enable(c)

	var drained []Sample
	c.OnHalfFull = func(s []Sample) { drained = s }

	for i := 0; i < fifoCapacity/2; i++ {
		c.Write(addr.I2SFifoWr, uint32(i)|uint32(i+1)<<16)
	}

	assert.Len(t, drained, fifoCapacity/2)
	assert.Equal(t, int16(0), drained[0].Left)
	assert.Equal(t, int16(1), drained[0].Right)
	assert.Equal(t, uint32(1), c.Read(addr.I2SStatus)&1)
}

func TestDisabledControllerDropsWrites(t *testing.T) {
	c := New()
	c.Write(addr.I2SFifoWr, 0x00010002)
	assert.Equal(t, uint32(1), c.Read(addr.I2SStatus)&1, "FIFO should stay empty when not enabled")
}

func TestSampleRateDerivation(t *testing.T) {
	c := New()
	c.Write(addr.I2SClockDiv, 4)
	assert.Equal(t, uint32(addr.I2SBaseClockHz/(64*4)), c.SampleRateHz())

	c.Write(addr.I2SClockDiv, 0)
	assert.Equal(t, uint32(0), c.SampleRateHz())
}

func TestDisablingClearsFIFO(t *testing.T) {
	c := New()
	enable(c)
	c.Write(addr.I2SFifoWr, 1)
	c.Write(addr.I2SControl, 0)
	assert.Equal(t, uint32(1), c.Read(addr.I2SStatus)&1)
}

func TestFIFODrainRequestsInterrupt(t *testing.T) {
	c := New()
	enable(c)
	var got addr.Interrupt
	fired := false
	c.RequestInterrupt = func(s addr.Interrupt) { got, fired = s, true }

	for i := 0; i < fifoCapacity/2; i++ {
		c.Write(addr.I2SFifoWr, uint32(i)|uint32(i+1)<<16)
	}

	assert.True(t, fired)
	assert.Equal(t, addr.IRQI2S, got)
}

func TestDisablingClearsInterrupt(t *testing.T) {
	c := New()
	enable(c)
	c.Write(addr.I2SFifoWr, 1)

	cleared := false
	c.ClearInterrupt = func(s addr.Interrupt) {
		assert.Equal(t, addr.IRQI2S, s)
		cleared = true
	}

	c.Write(addr.I2SControl, 0)
	assert.True(t, cleared)
}
