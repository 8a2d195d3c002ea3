// Package timer implements the PP5021C's two countdown timers plus the
// free-running microsecond counter and seconds RTC that share their cycle
// source, per spec §4.3.
package timer

import (
	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/bit"
)

const configCountMask = 0x1FFFFFFF

// channel is a single countdown timer: {config, reloaded value, accumulator}.
type channel struct {
	config uint32
	value  uint32
	accum  uint64
}

func (c *channel) enabled() bool { return bit.IsSet(addr.TimerEnableBit, c.config) }
func (c *channel) repeat() bool  { return bit.IsSet(addr.TimerRepeatBit, c.config) }
func (c *channel) count() uint32 { return c.config & configCountMask }

func (c *channel) writeConfig(value uint32) {
	c.config = value
	c.value = c.count()
	c.accum = 0
}

// tick advances the channel by cpuCycles at cpuFreqMHz (cycles per
// microsecond). fire is invoked once per microsecond in which the
// countdown underflows.
func (c *channel) tick(cpuCycles int, cpuFreqMHz uint32, fire func()) {
	if !c.enabled() || cpuFreqMHz == 0 {
		return
	}

	c.accum += uint64(cpuCycles)
	for c.accum >= uint64(cpuFreqMHz) {
		c.accum -= uint64(cpuFreqMHz)

		if c.value == 0 {
			fire()
			if c.repeat() {
				c.value = c.count()
			} else {
				c.config = bit.Clear(addr.TimerEnableBit, c.config)
				return
			}
		} else {
			c.value--
		}
	}
}

// Timers owns timer1, timer2, the microsecond free-running counter and the
// seconds RTC.
type Timers struct {
	t1, t2 channel

	usAccum    uint64
	usCounter  uint32
	rtcSeconds uint32

	// RequestInterrupt, when set, is invoked with the source that fired.
	// It is a non-owning callback into the interrupt controller, mirroring
	// the weak-reference ownership model in spec §3.
	RequestInterrupt func(addr.Interrupt)

	// ClearInterrupt, when set, is invoked to zero a source's raw status
	// bit once firmware acknowledges it (spec §8 invariant 3).
	ClearInterrupt func(addr.Interrupt)
}

// New returns a Timers instance with every channel disabled.
func New() *Timers {
	return &Timers{}
}

func (t *Timers) request(source addr.Interrupt) {
	if t.RequestInterrupt != nil {
		t.RequestInterrupt(source)
	}
}

func (t *Timers) clear(source addr.Interrupt) {
	if t.ClearInterrupt != nil {
		t.ClearInterrupt(source)
	}
}

// Tick advances both countdown channels and the free-running counters by
// cpuCycles, given the CPU's clock speed in MHz.
func (t *Timers) Tick(cpuCycles int, cpuFreqMHz uint32) {
	t.t1.tick(cpuCycles, cpuFreqMHz, func() { t.request(addr.IRQTimer1) })
	t.t2.tick(cpuCycles, cpuFreqMHz, func() { t.request(addr.IRQTimer2) })

	if cpuFreqMHz == 0 {
		return
	}
	t.usAccum += uint64(cpuCycles)
	for t.usAccum >= uint64(cpuFreqMHz) {
		t.usAccum -= uint64(cpuFreqMHz)
		t.usCounter++
		if t.usCounter%1_000_000 == 0 {
			t.rtcSeconds++
		}
	}
}

// Read implements the bus Peripheral contract.
func (t *Timers) Read(offset uint32) uint32 {
	switch offset {
	case addr.Timer1Config:
		return t.t1.config
	case addr.Timer1Value:
		return t.t1.value
	case addr.Timer2Config:
		return t.t2.config
	case addr.Timer2Value:
		return t.t2.value
	case addr.USecCounter:
		return t.usCounter
	case addr.RTCSeconds:
		return t.rtcSeconds
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract.
func (t *Timers) Write(offset uint32, value uint32) {
	switch offset {
	case addr.Timer1Config:
		t.t1.writeConfig(value)
	case addr.Timer1Value:
		t.ackValue(&t.t1, addr.IRQTimer1)
	case addr.Timer2Config:
		t.t2.writeConfig(value)
	case addr.Timer2Value:
		t.ackValue(&t.t2, addr.IRQTimer2)
	case addr.RTCSeconds:
		t.rtcSeconds = value
	}
}

// ackValue implements "writing value acknowledges the interrupt and, if
// repeating, reloads from count" (spec §4.3).
func (t *Timers) ackValue(c *channel, source addr.Interrupt) {
	if c.repeat() {
		c.value = c.count()
	}
	t.clear(source)
}
