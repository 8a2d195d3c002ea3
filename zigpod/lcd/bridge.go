package lcd

import (
	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/bit"
)

// Bridge is the simpler block-transfer LCD2 path some firmware uses: a
// byte count is armed, then each 32-bit write to the block-data window
// delivers two pixels until the count is exhausted (spec §4.9).
type Bridge struct {
	lcd *Controller

	blockConfig uint32
	active      bool
	nextPixel   int
	pixelsLeft  int
}

// NewBridge returns a Bridge writing into the given LCD controller.
func NewBridge(lcd *Controller) *Bridge {
	return &Bridge{lcd: lcd}
}

func (b *Bridge) arm() {
	byteCount := b.blockConfig
	b.pixelsLeft = int(byteCount / 2)
	b.nextPixel = 0
	b.active = b.pixelsLeft > 0
}

func (b *Bridge) deliver(word uint32) {
	if !b.active {
		return
	}

	for _, px := range [2]uint16{bit.Low16(word), bit.High16(word)} {
		if b.pixelsLeft <= 0 {
			break
		}
		b.lcd.WritePixel(b.nextPixel, px)
		b.nextPixel++
		b.pixelsLeft--
	}

	if b.pixelsLeft <= 0 {
		b.active = false
		b.lcd.TriggerUpdate()
	}
}

// Read implements the bus Peripheral contract.
func (b *Bridge) Read(offset uint32) uint32 {
	switch offset {
	case addr.LCD2BlockConfig:
		return b.blockConfig
	case addr.LCD2BlockControl:
		if !b.active {
			return bit.Set(addr.LCD2StatusReady, bit.Set(addr.LCD2StatusTXOK, 0))
		}
		return 0
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract.
func (b *Bridge) Write(offset uint32, value uint32) {
	switch offset {
	case addr.LCD2BlockConfig:
		b.blockConfig = value
	case addr.LCD2BlockControl:
		if value == addr.LCD2CmdStart {
			b.arm()
		}
	case addr.LCD2BlockData:
		b.deliver(value)
	}
}
