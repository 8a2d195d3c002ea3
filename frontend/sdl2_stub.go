//go:build !sdl2

package frontend

import (
	"fmt"

	"github.com/Davidslv/zigpod-sub003/zigpod"
)

// SDL2 stub used when the module is built without the "sdl2" tag, so the
// repository never requires SDL2 development headers to compile by
// default (mirrors jeebie/backend/sdl2_stub.go).
type SDL2 struct{}

func NewSDL2() *SDL2 { return &SDL2{} }

func (s *SDL2) Init(emu *zigpod.Emulator, title string) error {
	return fmt.Errorf("SDL2 frontend not available: compile with -tags sdl2 and install SDL2 development libraries")
}

func (s *SDL2) Run() error {
	return fmt.Errorf("SDL2 frontend not available")
}

func (s *SDL2) Cleanup() error { return nil }
