package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetClearIsSet(t *testing.T) {
	var v uint32 = 0

	v = Set(3, v)
	assert.True(t, IsSet(3, v))
	assert.Equal(t, uint32(0x08), v)

	v = Clear(3, v)
	assert.False(t, IsSet(3, v))
	assert.Equal(t, uint32(0), v)
}

func TestCond(t *testing.T) {
	assert.Equal(t, uint32(1), Cond(0, 0, true))
	assert.Equal(t, uint32(0), Cond(0, 1, false))
}

func TestExtract(t *testing.T) {
	v := uint32(0xABCD1234)
	assert.Equal(t, uint32(0x1234), Extract(v, 15, 0))
	assert.Equal(t, uint32(0xABCD), Extract(v, 31, 16))
	assert.Equal(t, uint32(0x2), Extract(v, 5, 4))
}

func TestMask(t *testing.T) {
	assert.Equal(t, uint32(0x0F), Mask(4))
	assert.Equal(t, uint32(0xFFFFFFFF), Mask(32))
	assert.Equal(t, uint32(0xFFFFFFFF), Mask(40))
}

func TestLowHigh16(t *testing.T) {
	v := uint32(0xAABBCCDD)
	assert.Equal(t, uint16(0xCCDD), Low16(v))
	assert.Equal(t, uint16(0xAABB), High16(v))
}
