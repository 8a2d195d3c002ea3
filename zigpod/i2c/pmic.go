package i2c

// PMIC models the power-management IC's 256-byte slave register file, with
// power-on defaults that make firmware see a working regulator (spec §4.6).
type PMIC struct {
	regs [256]byte

	// readToClear marks registers that reset to 0 after being read, e.g.
	// latched fault/status bits.
	readToClear map[uint8]bool
	readOnly    map[uint8]bool
}

const (
	pmicRegID      uint8 = 0x00
	pmicRegStatus  uint8 = 0x01
	pmicRegControl uint8 = 0x02
)

const pmicIdentity byte = 0x35

// NewPMIC returns a PMIC with sensible power-on defaults.
func NewPMIC() *PMIC {
	p := &PMIC{
		readToClear: map[uint8]bool{pmicRegStatus: true},
		readOnly:    map[uint8]bool{pmicRegID: true},
	}
	p.regs[pmicRegID] = pmicIdentity
	p.regs[pmicRegStatus] = 0x00
	p.regs[pmicRegControl] = 0x01 // power rails enabled
	return p
}

// Read returns the byte at the slave register address, clearing
// read-to-clear registers as a side effect.
func (p *PMIC) Read(reg uint8) byte {
	v := p.regs[reg]
	if p.readToClear[reg] {
		p.regs[reg] = 0
	}
	return v
}

// Write stores value at the slave register address, unless it is marked
// read-only.
func (p *PMIC) Write(reg uint8, value byte) {
	if p.readOnly[reg] {
		return
	}
	p.regs[reg] = value
}
