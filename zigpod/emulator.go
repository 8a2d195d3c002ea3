package zigpod

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/ata"
	"github.com/Davidslv/zigpod-sub003/zigpod/clickwheel"
	"github.com/Davidslv/zigpod-sub003/zigpod/cpu"
	"github.com/Davidslv/zigpod-sub003/zigpod/dma"
	"github.com/Davidslv/zigpod-sub003/zigpod/gpio"
	"github.com/Davidslv/zigpod-sub003/zigpod/i2c"
	"github.com/Davidslv/zigpod-sub003/zigpod/i2s"
	"github.com/Davidslv/zigpod-sub003/zigpod/irq"
	"github.com/Davidslv/zigpod-sub003/zigpod/lcd"
	"github.com/Davidslv/zigpod-sub003/zigpod/syscon"
	"github.com/Davidslv/zigpod-sub003/zigpod/timer"
)

// DebuggerState mirrors the run-control states the cmd/zigpod frontend
// drives the emulator through.
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStep
	DebuggerStepFrame
)

// defaultCPUFreqMHz is the ARM7TDMI application core clock used to derive
// microsecond/timer ticks from consumed CPU cycles (spec §4.3), unless
// overridden via SetCPUFreqMHz.
const defaultCPUFreqMHz uint32 = 80

// Emulator is the root struct: it owns the bus, every peripheral, the CPU
// core driving it, and the COP rendezvous/debugger state machine (spec §2,
// §4.13).
type Emulator struct {
	bus *Bus
	cpu cpu.Core
	cop cpu.Core // optional; nil means the COP is not modelled beyond syscon's rendezvous state

	irqCtl  *irq.Controller
	timers  *timer.Timers
	gpioCtl *gpio.Controller
	sysCon  *syscon.Controller
	cacheCt *syscon.Cache
	i2cCtl  *i2c.Controller
	i2sCtl  *i2s.Controller
	wheel   *clickwheel.Controller
	lcdCtl  *lcd.Controller
	lcd2    *lcd.Bridge
	dmaCtl  *dma.Controller
	ataCtl  *ata.Controller

	cpuFreqMHz uint32

	debuggerState    DebuggerState
	debuggerMutex    sync.RWMutex
	stepRequested    bool
	frameRequested   bool
	instructionCount uint64
	frameCount       uint64
}

// New wires every peripheral onto a fresh Bus, registers the interrupt
// callbacks between them, and returns an Emulator ready to Step once a
// CPU core and a boot image are installed.
func New(disk ata.Disk) *Emulator {
	e := &Emulator{
		cpuFreqMHz: defaultCPUFreqMHz,
		bus:     NewBus(),
		irqCtl:  irq.New(),
		timers:  timer.New(),
		gpioCtl: gpio.New(),
		sysCon:  syscon.New(),
		cacheCt: syscon.NewCache(),
		i2cCtl:  i2c.New(),
		i2sCtl:  i2s.New(),
		wheel:   clickwheel.New(),
		lcdCtl:  lcd.New(),
		dmaCtl:  dma.New(),
		ataCtl:  ata.New(disk),
	}
	e.lcd2 = lcd.NewBridge(e.lcdCtl)

	e.timers.RequestInterrupt = e.irqCtl.Assert
	e.wheel.RequestInterrupt = e.irqCtl.Assert
	e.dmaCtl.RequestInterrupt = e.irqCtl.Assert
	e.ataCtl.RequestInterrupt = e.irqCtl.Assert
	e.i2cCtl.RequestInterrupt = e.irqCtl.Assert
	e.i2sCtl.RequestInterrupt = e.irqCtl.Assert

	e.timers.ClearInterrupt = e.irqCtl.Clear
	e.wheel.ClearInterrupt = e.irqCtl.Clear
	e.dmaCtl.ClearInterrupt = e.irqCtl.Clear
	e.ataCtl.ClearInterrupt = e.irqCtl.Clear
	e.i2cCtl.ClearInterrupt = e.irqCtl.Clear
	e.i2sCtl.ClearInterrupt = e.irqCtl.Clear

	e.bus.RegisterPeripheral(addr.IRQBase, 0x20, e.irqCtl)
	e.bus.RegisterPeripheral(addr.TimersBase, addr.TimersSize, e.timers)
	e.bus.RegisterPeripheral(addr.GPIOBase, addr.GPIOSize, e.gpioCtl)
	e.bus.RegisterPeripheral(addr.SysConBase, addr.SysConSize, e.sysCon)
	e.bus.RegisterPeripheral(addr.CacheBase, addr.CacheSize, e.cacheCt)
	e.bus.RegisterPeripheral(addr.I2CBase, addr.I2CSize, e.i2cCtl)
	e.bus.RegisterPeripheral(addr.I2SBase, addr.I2SSize, e.i2sCtl)
	e.bus.RegisterPeripheral(addr.ClickWheelBase, addr.ClickWheelSize, e.wheel)
	e.bus.RegisterPeripheral(addr.LCDBase, addr.LCDSize, e.lcdCtl)
	e.bus.RegisterPeripheral(addr.LCD2Base, addr.LCD2Size, e.lcd2)
	e.bus.RegisterPeripheral(addr.DMABase, addr.DMASize, e.dmaCtl)
	e.bus.RegisterPeripheral(addr.ATABase, addr.ATASize, e.ataCtl)

	return e
}

// SetCPUFreqMHz overrides the clock used to derive timer/microsecond
// ticks from consumed CPU cycles (config.Config.CPUFreqMHz).
func (e *Emulator) SetCPUFreqMHz(mhz uint32) { e.cpuFreqMHz = mhz }

func (e *Emulator) cyclesPerFrame() int {
	return int(e.cpuFreqMHz) * 1_000_000 / 60
}

// SetCPU installs the CPU core the emulator steps. Without one, Step
// returns an error: the decoder itself is an external collaborator
// (spec §1 Non-goals).
func (e *Emulator) SetCPU(core cpu.Core) { e.cpu = core }

// SetCOP installs an optional second core for the COP. When absent, the
// COP rendezvous is still honoured via syscon's state machine alone
// (spec §4.11, §4.13).
func (e *Emulator) SetCOP(core cpu.Core) { e.cop = core }

// Bus exposes the address space for boot-image loading and test setup.
func (e *Emulator) Bus() *Bus { return e.bus }

// Framebuffer returns the current LCD contents.
func (e *Emulator) Framebuffer() [lcd.FramebufferBytes]byte { return e.lcdCtl.Framebuffer() }

// SetDisplaySink installs a callback invoked whenever the LCD framebuffer
// is flushed (spec §4.9).
func (e *Emulator) SetDisplaySink(fn func([lcd.FramebufferBytes]byte)) { e.lcdCtl.OnUpdate = fn }

// SetAudioSink installs a callback invoked whenever the I2S FIFO drains
// (spec §4.8).
func (e *Emulator) SetAudioSink(fn func([]i2s.Sample)) { e.i2sCtl.OnHalfFull = fn }

// ClickWheel exposes the click wheel controller for UI input injection.
func (e *Emulator) ClickWheel() *clickwheel.Controller { return e.wheel }

// GPIO exposes the GPIO controller for UI input injection (e.g. hold
// switch, headphone detect).
func (e *Emulator) GPIO() *gpio.Controller { return e.gpioCtl }

// Step performs one CPU instruction's worth of work: it evaluates the
// interrupt controller's pending state, asserts the CPU's IRQ/FIQ input
// lines, executes one instruction, ticks the cycle-driven peripherals by
// the cycles consumed, and advances the COP rendezvous (spec §4.13).
func (e *Emulator) Step() (int, error) {
	if e.cpu == nil {
		return 0, fmt.Errorf("zigpod: no CPU core installed")
	}

	e.cpu.SetIRQLine(e.irqCtl.HasPendingIRQ())
	e.cpu.SetFIQLine(e.irqCtl.HasPendingFIQ())

	cycles, err := e.cpu.Step(e.bus)
	if err != nil {
		return cycles, fmt.Errorf("cpu step: %w", err)
	}

	e.timers.Tick(cycles, e.cpuFreqMHz)
	e.dmaCtl.Tick(cycles)

	e.stepCOP(cycles)

	e.instructionCount++
	return cycles, nil
}

// stepCOP advances the coprocessor according to its rendezvous state: a
// waking COP is nudged toward Running, and a running COP (when a second
// core is installed) executes its own instruction and sees its own
// IRQ/FIQ lines per spec §4.11/§4.13.
func (e *Emulator) stepCOP(cpuCycles int) {
	switch e.sysCon.COPState() {
	case syscon.COPWaking:
		e.sysCon.AdvanceCOP()
	case syscon.COPRunning:
		if e.cop == nil {
			return
		}
		e.cop.SetIRQLine(e.irqCtl.HasPendingCOPIRQ())
		e.cop.SetFIQLine(e.irqCtl.HasPendingCOPFIQ())
		if _, err := e.cop.Step(e.bus); err != nil {
			slog.Debug("cop step error", "err", err)
		}
	}
}

// RunFrame executes instructions until either a frame's cycle budget is
// spent or the debugger state calls for something else (spec §4.13,
// modelled on the run-to-vblank loop the pack's frame-stepping emulators
// use).
func (e *Emulator) RunFrame() error {
	e.debuggerMutex.RLock()
	state := e.debuggerState
	e.debuggerMutex.RUnlock()

	if state == DebuggerPaused {
		return nil
	}

	if state == DebuggerStep {
		e.debuggerMutex.Lock()
		requested := e.stepRequested
		e.stepRequested = false
		e.debuggerMutex.Unlock()
		if !requested {
			return nil
		}
		if _, err := e.Step(); err != nil {
			return err
		}
		e.SetDebuggerState(DebuggerPaused)
		return nil
	}

	if state == DebuggerStepFrame {
		e.debuggerMutex.Lock()
		requested := e.frameRequested
		e.frameRequested = false
		e.debuggerMutex.Unlock()
		if !requested {
			return nil
		}
		if err := e.runCycles(e.cyclesPerFrame()); err != nil {
			return err
		}
		e.SetDebuggerState(DebuggerPaused)
		return nil
	}

	return e.runCycles(e.cyclesPerFrame())
}

func (e *Emulator) runCycles(budget int) error {
	total := 0
	for total < budget {
		cycles, err := e.Step()
		if err != nil {
			return err
		}
		if cycles <= 0 {
			cycles = 1
		}
		total += cycles
	}
	e.frameCount++
	return nil
}

// SetDebuggerState transitions the run-control state machine.
func (e *Emulator) SetDebuggerState(state DebuggerState) {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.debuggerState = state
}

// DebuggerState returns the current run-control state.
func (e *Emulator) DebuggerState() DebuggerState {
	e.debuggerMutex.RLock()
	defer e.debuggerMutex.RUnlock()
	return e.debuggerState
}

// RequestStep arms a single-instruction step for the next RunFrame call.
func (e *Emulator) RequestStep() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.stepRequested = true
	e.debuggerState = DebuggerStep
}

// RequestStepFrame arms a single-frame step for the next RunFrame call.
func (e *Emulator) RequestStepFrame() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.frameRequested = true
	e.debuggerState = DebuggerStepFrame
}

// InstructionCount and FrameCount report run totals, used by the cmd
// harness's status line.
func (e *Emulator) InstructionCount() uint64 { return e.instructionCount }
func (e *Emulator) FrameCount() uint64       { return e.frameCount }
