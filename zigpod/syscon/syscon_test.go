package syscon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
)

func TestCOPCtlAlwaysReportsSleepBit(t *testing.T) {
	c := New()
	assert.NotEqual(t, uint32(0), c.Read(addr.COPCtl)&(1<<addr.ProcSleepBit))

	c.Write(addr.COPCtl, 0) // a write that looks like "wake up"
	assert.NotEqual(t, uint32(0), c.Read(addr.COPCtl)&(1<<addr.ProcSleepBit),
		"COP_CTL must always read with PROC_SLEEP set regardless of the write")
}

func TestCPUCtlAlwaysClearsSleepBit(t *testing.T) {
	c := New()
	c.Write(addr.CPUCtl, 0xFFFFFFFF)
	assert.Equal(t, uint32(0), c.Read(addr.CPUCtl)&(1<<addr.ProcSleepBit))
}

func TestCOPWakeRendezvous(t *testing.T) {
	c := New()
	assert.Equal(t, COPSleeping, c.COPState())

	c.Write(addr.COPCtl, 0) // clearing the sleep bit on write triggers RequestWake
	assert.Equal(t, COPWaking, c.COPState())

	c.AdvanceCOP()
	assert.Equal(t, COPRunning, c.COPState())
}

func TestChipIDAndPLLStatus(t *testing.T) {
	c := New()
	assert.Equal(t, chipIDMagic, c.Read(addr.ChipID))
	assert.NotEqual(t, uint32(0), c.Read(addr.PLLStatus)&(1<<31))
}

func TestDevEnableReadWrite(t *testing.T) {
	c := New()
	c.Write(addr.DevEnable, 0x1234)
	assert.Equal(t, uint32(0x1234), c.Read(addr.DevEnable))
}

func TestWakeRequestsCounts(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.WakeRequests())

	c.Write(addr.COPCtl, 0)
	c.Write(addr.COPCtl, 0)
	assert.Equal(t, 2, c.WakeRequests())
}

func TestKernelInitDoneReflectsHalt(t *testing.T) {
	c := New()
	assert.False(t, c.KernelInitDone())

	c.Write(addr.COPCtl, 1<<addr.ProcSleepBit) // sleep bit set on write -> Halt
	assert.True(t, c.KernelInitDone())
}
