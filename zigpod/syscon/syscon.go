// Package syscon implements the PP5021C system controller: device
// enable/reset bits, PLL status, chip ID, and — critically — the CPU_CTL /
// COP_CTL dual-core rendezvous contract described in spec §4.11.
//
// The COP is not modelled beyond the state enum required to satisfy the
// contract: COP_CTL reads always report PROC_SLEEP set so that firmware
// synchronisation loops of the form `while (!(COP_CTL & 0x80000000)) {}`
// terminate immediately (spec §4.11, testable property 8, scenario S6).
package syscon

import (
	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/bit"
)

// COPState is the coprocessor's rendezvous state machine (spec §3, §9).
type COPState int

const (
	COPDisabled COPState = iota
	COPSleeping
	COPWaking
	COPRunning
	COPHalted
)

const chipIDMagic uint32 = 0x69052110

// Controller implements the system controller registers.
type Controller struct {
	devEnable uint32
	pllStatus uint32

	cpuCtl uint32
	copCtl uint32

	copState        COPState
	wakeRequests    int
	ackCountdown    int
	kernelInitDone  bool
}

// New returns a Controller with the PLL reporting locked and the COP
// sleeping.
func New() *Controller {
	return &Controller{
		pllStatus: bit.Set(31, 0),
		copState:  COPSleeping,
	}
}

// COPState reports the current rendezvous state, for the emulator shell's
// COP-scheduling decision (spec §4.13 step 3).
func (c *Controller) COPState() COPState { return c.copState }

// WakeRequests reports how many times RequestWake has been called,
// regardless of whether the COP was already awake at the time — useful for
// diagnosing a firmware wake storm.
func (c *Controller) WakeRequests() int { return c.wakeRequests }

// KernelInitDone reports whether the COP has ever signalled its own idle
// via Halt, i.e. whether its kernel finished booting at least once.
func (c *Controller) KernelInitDone() bool { return c.kernelInitDone }

// RequestWake increments the wake-request counter and transitions the COP
// toward Waking; a COP_CTL write with the sleep bit clear (as firmware's
// wake_core() issues) calls it.
func (c *Controller) RequestWake() {
	c.wakeRequests++
	if c.copState == COPSleeping || c.copState == COPDisabled {
		c.copState = COPWaking
		c.ackCountdown = 1
	}
}

// AdvanceCOP lets the emulator shell step the rendezvous state machine
// forward; the shell calls it once per step while the COP is waking,
// without executing any COP instruction.
func (c *Controller) AdvanceCOP() {
	switch c.copState {
	case COPWaking:
		if c.ackCountdown > 0 {
			c.ackCountdown--
		}
		if c.ackCountdown == 0 {
			c.copState = COPRunning
		}
	case COPRunning:
		// stays running until firmware halts it externally (not modelled
		// beyond this rendezvous contract, per spec §9).
	}
}

// Halt puts the COP to sleep, e.g. after its kernel signals idle.
func (c *Controller) Halt() {
	c.copState = COPSleeping
	c.kernelInitDone = true
}

// Read implements the bus Peripheral contract.
func (c *Controller) Read(offset uint32) uint32 {
	switch offset {
	case addr.ChipID:
		return chipIDMagic
	case addr.DevEnable:
		return c.devEnable
	case addr.PLLStatus:
		return c.pllStatus
	case addr.CPUCtl:
		// CPU never appears asleep to itself: the sleep bit always reads
		// clear, regardless of a prior self-sleep write.
		return bit.Clear(addr.ProcSleepBit, c.cpuCtl)
	case addr.COPCtl:
		// Always report PROC_SLEEP set; low ready-flag nibble preserved.
		return bit.Set(addr.ProcSleepBit, c.copCtl)
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract.
func (c *Controller) Write(offset uint32, value uint32) {
	switch offset {
	case addr.ChipID, addr.PLLStatus:
		// read-only: ignored
	case addr.DevEnable:
		c.devEnable = value
	case addr.CPUCtl:
		// A self-sleep write is stored but unwound on the very next read.
		c.cpuCtl = value
	case addr.COPCtl:
		c.copCtl = value
		if bit.IsSet(addr.ProcSleepBit, value) {
			c.Halt()
		} else {
			c.RequestWake()
		}
	}
}
