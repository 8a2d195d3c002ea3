// Package frontend hosts the emulator: a tcell-based terminal view for
// every build, plus an SDL2 window behind the "sdl2" build tag (with a
// stub standing in when that tag is absent), mirroring the teacher's
// jeebie/render + jeebie/backend split.
package frontend

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Davidslv/zigpod-sub003/zigpod"
	"github.com/Davidslv/zigpod-sub003/zigpod/clickwheel"
)

const (
	lcdWidth     = 320
	lcdHeight    = 240
	frameTime    = time.Second / 60
	minTermWidth = 80
	minTermHeight = lcdHeight/2 + 2
)

// Terminal is a live shade-ramp view of the LCD framebuffer: one tcell
// cell per pixel, each drawn with one of five shade characters
// (space/░/▒/▓/█) by luminance, clipped to the terminal's size.
type Terminal struct {
	screen   tcell.Screen
	emulator *zigpod.Emulator
	running  bool
	frame    [lcdWidth * lcdHeight]uint16
}

// NewTerminal initializes a tcell screen and subscribes to emu's LCD
// updates.
func NewTerminal(emu *zigpod.Emulator) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialize terminal: %w", err)
	}

	t := &Terminal{screen: screen, emulator: emu, running: true}
	emu.SetDisplaySink(t.onUpdate)
	return t, nil
}

func (t *Terminal) onUpdate(fb [153600]byte) {
	for i := 0; i < lcdWidth*lcdHeight; i++ {
		t.frame[i] = uint16(fb[i*2]) | uint16(fb[i*2+1])<<8
	}
}

// Run drives the emulator at 60 frames/sec until the user quits or the
// process receives a termination signal.
func (t *Terminal) Run() error {
	defer func() {
		slog.Info("terminal frontend stopping")
		t.screen.Fini()
	}()

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	go t.handleInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for t.running {
		select {
		case <-ticker.C:
			if err := t.emulator.RunFrame(); err != nil {
				return fmt.Errorf("run frame: %w", err)
			}
			t.render()
			t.screen.Show()
		case <-signals:
			t.running = false
			return nil
		}
	}
	return nil
}

func (t *Terminal) handleInput() {
	wheel := t.emulator.ClickWheel()
	for t.running {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				t.running = false
				return
			case tcell.KeyEnter:
				wheel.Press(clickwheel.ButtonSelect)
			case tcell.KeyLeft:
				wheel.Rotate(-1)
				wheel.Press(clickwheel.ButtonBackward)
			case tcell.KeyRight:
				wheel.Rotate(1)
				wheel.Press(clickwheel.ButtonForward)
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'p':
					wheel.Press(clickwheel.ButtonPlay)
				case 'm':
					wheel.Press(clickwheel.ButtonMenu)
				case 'h':
					wheel.Press(clickwheel.ButtonHold)
				case ' ':
					if t.emulator.DebuggerState() == zigpod.DebuggerPaused {
						t.emulator.SetDebuggerState(zigpod.DebuggerRunning)
					} else {
						t.emulator.SetDebuggerState(zigpod.DebuggerPaused)
					}
				case 'n':
					t.emulator.RequestStep()
				case 'f':
					t.emulator.RequestStepFrame()
				}
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

var shadeRamp = []rune{' ', '░', '▒', '▓', '█'}

// luma converts an RGB565 pixel to one of five shade buckets.
func luma(px uint16) int {
	r := (px >> 11) & 0x1F
	g := (px >> 5) & 0x3F
	b := px & 0x1F
	value := (int(r)*8 + int(g)*4 + int(b)*8) / 3
	switch {
	case value > 200:
		return 4
	case value > 150:
		return 3
	case value > 90:
		return 2
	case value > 30:
		return 1
	default:
		return 0
	}
}

func (t *Terminal) render() {
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		msg := fmt.Sprintf("terminal too small, need at least %dx%d", minTermWidth, minTermHeight)
		for i, ch := range msg {
			t.screen.SetContent(i, termHeight/2, ch, nil, tcell.StyleDefault.Foreground(tcell.ColorRed))
		}
		return
	}

	t.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := 0; y < lcdHeight; y++ {
		if y >= termHeight {
			break
		}
		for x := 0; x < lcdWidth; x++ {
			if x >= termWidth {
				break
			}
			px := t.frame[y*lcdWidth+x]
			ch := shadeRamp[luma(px)]
			t.screen.SetContent(x, y, ch, nil, style)
		}
	}

	status := fmt.Sprintf("frame %d instr %d", t.emulator.FrameCount(), t.emulator.InstructionCount())
	for i, ch := range status {
		if lcdHeight < termHeight && i < termWidth {
			t.screen.SetContent(i, lcdHeight, ch, nil, style)
		}
	}
}
