package zigpod

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/cpu"
	"github.com/Davidslv/zigpod-sub003/zigpod/disk"
	"github.com/Davidslv/zigpod-sub003/zigpod/syscon"
)

func newTestEmulator() *Emulator {
	e := New(disk.NewRam(16))
	e.SetCPU(cpu.NewARMStub())
	return e
}

// S1 — RAM read/write/execute.
func TestScenarioRAMReadWriteExecute(t *testing.T) {
	e := newTestEmulator()
	assert.NoError(t, e.Bus().LoadIRAM([]byte{0x42, 0x00, 0xA0, 0xE3})) // MOV R0, #0x42

	_, err := e.Step()
	assert.NoError(t, err)

	stub := e.cpu.(*cpu.ARMStub)
	assert.Equal(t, uint32(0x42), stub.Reg(0))
	assert.Equal(t, uint32(4), stub.Reg(cpu.RegPC))
}

// S2 — MBR via ATA.
func TestScenarioMBRViaATA(t *testing.T) {
	d := disk.NewRam(16)
	var mbr [512]byte
	mbr[510] = 0x55
	mbr[511] = 0xAA
	d.WriteSector(0, &mbr)

	e := New(d)
	bus := e.Bus()

	bus.Write8(addr.ATABase+addr.ATASelect, 0xE0)
	bus.Write8(addr.ATABase+addr.ATASector, 0)
	bus.Write8(addr.ATABase+addr.ATALCyl, 0)
	bus.Write8(addr.ATABase+addr.ATAHCyl, 0)
	bus.Write8(addr.ATABase+addr.ATANSector, 1)
	bus.Write8(addr.ATABase+addr.ATACommand, addr.ATACmdReadSectors)

	status := bus.Read8(addr.ATABase + addr.ATACommand)
	assert.NotEqual(t, uint8(0), status&addr.ATAStatusDRQ)

	var lastLo, lastHi uint8
	for i := 0; i < 256; i++ {
		word := bus.Read16(addr.ATABase + addr.ATAData)
		lastLo = uint8(word)
		lastHi = uint8(word >> 8)
	}
	assert.Equal(t, uint8(0x55), lastLo)
	assert.Equal(t, uint8(0xAA), lastHi)
}

// S3 — Timer repeat fires.
func TestScenarioTimerRepeatFires(t *testing.T) {
	e := newTestEmulator()
	bus := e.Bus()

	fireCount := 0
	e.timers.RequestInterrupt = func(addr.Interrupt) { fireCount++ }

	config := uint32(100) | (1 << addr.TimerEnableBit) | (1 << addr.TimerRepeatBit)
	bus.Write32(addr.TimersBase+addr.Timer1Config, config)

	for i := 0; i < 250; i++ {
		e.timers.Tick(80, e.cpuFreqMHz) // 80 cycles @ 80MHz == 1us
	}

	assert.GreaterOrEqual(t, fireCount, 2)
}

// S4 — Click wheel packet.
func TestScenarioClickWheelPacket(t *testing.T) {
	e := newTestEmulator()
	bus := e.Bus()

	e.ClickWheel().Press(16) // ButtonSelect, matching the spec's packet bit layout

	status := bus.Read32(addr.ClickWheelBase + addr.ClickWheelStatus)
	assert.NotEqual(t, uint32(0), status&(1<<addr.ClickWheelDataAvailBit))

	data := bus.Read32(addr.ClickWheelBase + addr.ClickWheelData)
	assert.Equal(t, addr.ClickWheelValidBase, data&addr.ClickWheelValidMask)
	assert.NotEqual(t, uint32(0), data&(1<<16))

	status = bus.Read32(addr.ClickWheelBase + addr.ClickWheelStatus)
	assert.Equal(t, uint32(0), status&(1<<addr.ClickWheelDataAvailBit))
}

// S5 — I2C PMIC identity.
func TestScenarioI2CPMICIdentity(t *testing.T) {
	e := newTestEmulator()
	bus := e.Bus()

	bus.Write32(addr.I2CBase+addr.I2CData0, 0x00)
	bus.Write32(addr.I2CBase+addr.I2CAddress, uint32(addr.PMICSlaveAddr)|(1<<addr.I2CAddrReadWriteBit))
	bus.Write32(addr.I2CBase+addr.I2CControl, (1<<addr.I2CCtlStart))

	assert.Equal(t, uint32(0x35), bus.Read32(addr.I2CBase+addr.I2CData0))
	assert.NotEqual(t, uint32(0), bus.Read32(addr.I2CBase+addr.I2CStatus)&(1<<addr.I2CStatusACK))
}

// S6 — COP rendezvous escape.
func TestScenarioCOPRendezvousEscape(t *testing.T) {
	e := newTestEmulator()
	bus := e.Bus()

	bus.Write32(addr.SysConBase+addr.COPCtl, 0xFFFFFFFF)
	for i := 0; i < 5; i++ {
		assert.NotEqual(t, uint32(0), bus.Read32(addr.SysConBase+addr.COPCtl)&(1<<31))
	}
}

func TestStepWithNoCPUReturnsError(t *testing.T) {
	e := New(disk.NewRam(4))
	_, err := e.Step()
	assert.Error(t, err)
}

func TestDebuggerPausedSkipsStep(t *testing.T) {
	e := newTestEmulator()
	assert.NoError(t, e.Bus().LoadIRAM([]byte{0x42, 0x00, 0xA0, 0xE3}))
	e.SetDebuggerState(DebuggerPaused)

	assert.NoError(t, e.RunFrame())
	assert.Equal(t, uint64(0), e.InstructionCount())
}

func TestDebuggerStepExecutesOneInstructionThenPauses(t *testing.T) {
	e := newTestEmulator()
	assert.NoError(t, e.Bus().LoadIRAM([]byte{0x42, 0x00, 0xA0, 0xE3}))

	e.RequestStep()
	assert.NoError(t, e.RunFrame())

	assert.Equal(t, uint64(1), e.InstructionCount())
	assert.Equal(t, DebuggerPaused, e.DebuggerState())
}

func TestCOPWakingAdvancesToRunningOverSteps(t *testing.T) {
	e := newTestEmulator()
	bus := e.Bus()
	assert.NoError(t, bus.LoadIRAM([]byte{0x42, 0x00, 0xA0, 0xE3}))

	bus.Write32(addr.SysConBase+addr.COPCtl, 0) // triggers RequestWake

	for i := 0; i < 32; i++ {
		_, err := e.Step()
		assert.NoError(t, err)
	}
	assert.Equal(t, syscon.COPRunning, e.sysCon.COPState())
	// COP_CTL must still always report the sleep bit regardless of how
	// far the rendezvous state machine has advanced internally.
	assert.NotEqual(t, uint32(0), bus.Read32(addr.SysConBase+addr.COPCtl)&(1<<31))
}
