//go:build sdl2

package frontend

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Davidslv/zigpod-sub003/zigpod"
	"github.com/Davidslv/zigpod-sub003/zigpod/clickwheel"
)

const bytesPerPixel = 4 // window is upconverted to RGBA8888 for SDL

// SDL2 is a windowed view of the LCD framebuffer backed by go-sdl2,
// the same build-tag-gated real backend split as the teacher's
// jeebie/backend/sdl2.go.
type SDL2 struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	emulator *zigpod.Emulator
	frame    [153600]byte
}

// NewSDL2 creates an un-initialized SDL2 frontend.
func NewSDL2() *SDL2 { return &SDL2{} }

// Init opens an SDL2 window sized to the LCD and subscribes to its
// framebuffer updates.
func (s *SDL2) Init(emu *zigpod.Emulator, title string) error {
	s.emulator = emu
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialize SDL2: %w", err)
	}
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		lcdWidth*2, lcdHeight*2, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING, lcdWidth, lcdHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("create texture: %w", err)
	}
	s.texture = texture

	s.running = true
	emu.SetDisplaySink(func(fb [153600]byte) { s.frame = fb })
	slog.Info("SDL2 frontend initialized")
	return nil
}

// Run drives the emulator and window event loop until the user closes
// the window.
func (s *SDL2) Run() error {
	wheel := s.emulator.ClickWheel()
	for s.running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				s.running = false
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN {
					s.handleKey(e.Keysym.Sym, wheel)
				}
			}
		}
		if !s.running {
			break
		}
		if err := s.emulator.RunFrame(); err != nil {
			return fmt.Errorf("run frame: %w", err)
		}
		s.renderFrame()
	}
	return nil
}

func (s *SDL2) handleKey(key sdl.Keycode, wheel *clickwheel.Controller) {
	switch key {
	case sdl.K_ESCAPE:
		s.running = false
	case sdl.K_RETURN:
		wheel.Press(clickwheel.ButtonSelect)
	case sdl.K_LEFT:
		wheel.Rotate(-1)
	case sdl.K_RIGHT:
		wheel.Rotate(1)
	case sdl.K_p:
		wheel.Press(clickwheel.ButtonPlay)
	case sdl.K_m:
		wheel.Press(clickwheel.ButtonMenu)
	}
}

func (s *SDL2) renderFrame() {
	pixels := make([]byte, lcdWidth*lcdHeight*bytesPerPixel)
	for i := 0; i < lcdWidth*lcdHeight; i++ {
		px := uint16(s.frame[i*2]) | uint16(s.frame[i*2+1])<<8
		r := uint8((px>>11)&0x1F) << 3
		g := uint8((px>>5)&0x3F) << 2
		b := uint8(px&0x1F) << 3
		d := i * bytesPerPixel
		pixels[d] = 255
		pixels[d+1] = b
		pixels[d+2] = g
		pixels[d+3] = r
	}
	s.texture.Update(nil, unsafe.Pointer(&pixels[0]), lcdWidth*bytesPerPixel)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

// Cleanup tears down SDL2 resources.
func (s *SDL2) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}
