package ata

const (
	identModel    = "ZIGPOD EMULATED DISK                    " // 40 chars
	identFirmware = "1.00    "                                 // 8 chars
	identSerial   = "ZP000000000000000001" // 20 chars
)

// writeSwappedString writes s into the buffer starting at byte offset
// start, byte-swapped per 16-bit word as ATA IDENTIFY requires.
func writeSwappedString(buf *[512]byte, start int, s string) {
	for i := 0; i+1 < len(s); i += 2 {
		buf[start+i] = s[i+1]
		buf[start+i+1] = s[i]
	}
}

func writeWordLE(buf *[512]byte, wordIndex int, value uint16) {
	buf[wordIndex*2] = byte(value)
	buf[wordIndex*2+1] = byte(value >> 8)
}

// populateIdentify fills the sector buffer with an IDENTIFY DEVICE
// response: the general-configuration word, model/firmware/serial strings
// (byte-swapped per word), LBA28 capacity, and the LBA48-supported bit plus
// LBA48 capacity (spec §4.4).
func (c *Controller) populateIdentify() {
	c.buffer = [512]byte{}

	// word 0 bit6: fixed (non-removable) device.
	writeWordLE(&c.buffer, 0, 1<<6)

	writeSwappedString(&c.buffer, 20, identSerial)   // words 10..19
	writeSwappedString(&c.buffer, 46, identFirmware) // words 23..26
	writeSwappedString(&c.buffer, 54, identModel)    // words 27..46

	total := c.disk.SectorCount()

	lba28 := total
	if lba28 > 0x0FFFFFFF {
		lba28 = 0x0FFFFFFF
	}
	writeWordLE(&c.buffer, 60, uint16(lba28))
	writeWordLE(&c.buffer, 61, uint16(lba28>>16))

	// word 83 bit10: LBA48 supported.
	writeWordLE(&c.buffer, 83, 1<<10)

	writeWordLE(&c.buffer, 100, uint16(total))
	writeWordLE(&c.buffer, 101, uint16(total>>16))
	writeWordLE(&c.buffer, 102, uint16(total>>32))
	writeWordLE(&c.buffer, 103, uint16(total>>48))
}
