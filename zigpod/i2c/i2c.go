// Package i2c implements the PP5021C's I2C controller plus its two
// embedded slave register files (PMIC and audio codec), per spec §4.6.
package i2c

import (
	"github.com/Davidslv/zigpod-sub003/zigpod/addr"
	"github.com/Davidslv/zigpod-sub003/zigpod/bit"
)

// Controller is the I2C master plus its two fixed slaves.
type Controller struct {
	control uint32
	address uint32
	data    [4]uint32
	status  uint32

	PMIC  *PMIC
	Codec *Codec

	// RequestInterrupt is a non-owning callback into the interrupt
	// controller, asserted once a transfer completes.
	RequestInterrupt func(addr.Interrupt)

	// ClearInterrupt is a non-owning callback into the interrupt
	// controller, invoked when firmware write-1-to-clears the ACK bit.
	ClearInterrupt func(addr.Interrupt)
}

// New returns a Controller with its slaves at power-on defaults.
func New() *Controller {
	return &Controller{
		PMIC:  NewPMIC(),
		Codec: NewCodec(),
	}
}

func (c *Controller) transferCount() int {
	n := int(bit.Extract(c.control, addr.I2CCtlCountHigh, addr.I2CCtlCountLow)) + 1
	if n > 4 {
		n = 4
	}
	return n
}

// doTransfer executes an immediate, zero-latency I2C transaction: on a
// read it fills data[0..n) from consecutive slave registers starting at
// the register named by data[0]; on a write it consumes data[0] as the
// starting register and writes the remaining data bytes to it and the
// registers that follow.
func (c *Controller) doTransfer() {
	slave := uint8(c.address & 0x7F)
	isRead := bit.IsSet(addr.I2CAddrReadWriteBit, c.address)
	count := c.transferCount()
	startReg := uint8(c.data[0])

	if isRead {
		for i := 0; i < count; i++ {
			c.data[i] = uint32(c.readSlaveByte(slave, startReg+uint8(i)))
		}
	} else {
		for i := 1; i < count; i++ {
			c.writeSlaveByte(slave, startReg+uint8(i-1), c.data[i])
		}
	}

	c.status = bit.Set(addr.I2CStatusACK, c.status)
	if c.RequestInterrupt != nil {
		c.RequestInterrupt(addr.IRQI2C)
	}
}

func (c *Controller) readSlaveByte(slave, reg uint8) uint32 {
	switch slave {
	case addr.PMICSlaveAddr:
		return uint32(c.PMIC.Read(reg))
	case addr.CodecSlaveAddr:
		return uint32(c.Codec.ReadWord(reg))
	default:
		return 0xFF
	}
}

func (c *Controller) writeSlaveByte(slave, reg uint8, value uint32) {
	switch slave {
	case addr.PMICSlaveAddr:
		c.PMIC.Write(reg, byte(value))
	case addr.CodecSlaveAddr:
		c.Codec.WriteWord(reg, uint16(value))
	}
}

// Read implements the bus Peripheral contract.
func (c *Controller) Read(offset uint32) uint32 {
	switch offset {
	case addr.I2CControl:
		return c.control
	case addr.I2CAddress:
		return c.address
	case addr.I2CData0:
		return c.data[0]
	case addr.I2CData1:
		return c.data[1]
	case addr.I2CData2:
		return c.data[2]
	case addr.I2CData3:
		return c.data[3]
	case addr.I2CStatus:
		return c.status
	default:
		return 0
	}
}

// Write implements the bus Peripheral contract.
func (c *Controller) Write(offset uint32, value uint32) {
	switch offset {
	case addr.I2CControl:
		c.control = value
		if bit.IsSet(addr.I2CCtlStart, value) {
			c.doTransfer()
		}
	case addr.I2CAddress:
		c.address = value
	case addr.I2CData0:
		c.data[0] = value
	case addr.I2CData1:
		c.data[1] = value
	case addr.I2CData2:
		c.data[2] = value
	case addr.I2CData3:
		c.data[3] = value
	case addr.I2CStatus:
		c.status &^= value // write-1-to-clear
		if c.ClearInterrupt != nil {
			c.ClearInterrupt(addr.IRQI2C)
		}
	}
}
