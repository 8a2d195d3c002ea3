// Package addr is the single authoritative table of PP5021C memory-map
// base addresses and per-peripheral register offsets. Bit-level contracts
// for a register live as a comment next to its offset, following the
// teacher project's convention of keeping the "what" and the "where" of a
// register in one place (see jeebie/addr/io.go for the pattern this mirrors).
package addr

// Coarse region bases, decoded from the top bits of the address.
const (
	IRAMBase  uint32 = 0x00000000
	IRAMSize  uint32 = 0x00020000 // 128 KiB
	SDRAMBase uint32 = 0x10000000
	SDRAMMax  uint32 = 0x02000000 // up to 32 MiB

	LCDBase uint32 = 0x30000000
	LCDSize uint32 = 0x00040000 // only bits 16..18 of the offset are decoded

	SysConBase uint32 = 0x60000000
	SysConSize uint32 = 0x00008000 // chip-id .. CPU_CTL/COP_CTL, below DMA's base

	DMABase uint32 = 0x6000A000
	DMASize uint32 = 0x00001100

	CacheBase uint32 = 0x6000C000
	CacheSize uint32 = 0x00000100

	GPIOBase uint32 = 0x6000D000
	GPIOSize uint32 = 0x00000180 // 12 ports * 0x20 stride

	I2SBase uint32 = 0x70002800
	I2SSize uint32 = 0x00000100

	LCD2Base uint32 = 0x70008A00
	LCD2Size uint32 = 0x00000100

	I2CBase uint32 = 0x7000C000
	I2CSize uint32 = 0x00000100

	ClickWheelBase uint32 = 0x7000C100
	ClickWheelSize uint32 = 0x00000100

	ATABase uint32 = 0xC3000000
	ATASize uint32 = 0x00000400
)

// SystemController register offsets, relative to SysConBase.
const (
	ChipID    uint32 = 0x0000 // read-only PP5021C magic
	DevEnable uint32 = 0x6000 // device enable/reset bits
	PLLStatus uint32 = 0x6004 // bit31 = locked
	CPUCtl    uint32 = 0x7000
	COPCtl    uint32 = 0x7004
)

// Bit 31 of CPU_CTL/COP_CTL: the addressed core reports itself asleep.
const ProcSleepBit uint = 31

// CacheController register offsets, relative to CacheBase.
const (
	CacheCtl uint32 = 0x0000 // bit15 = busy, always reads clear
)

// CacheBusyBit is bit 15 of CacheCtl.
const CacheBusyBit uint = 15

// Timer register offsets, relative to the Timers peripheral base
// (the Timers peripheral shares SysConBase's window but is registered
// separately at 0x60005000 so it can be addressed by its own handler).
const (
	TimersBase uint32 = 0x60005000
	TimersSize uint32 = 0x00000020

	Timer1Config uint32 = 0x00
	Timer1Value  uint32 = 0x04
	Timer2Config uint32 = 0x08
	Timer2Value  uint32 = 0x0C
	USecCounter  uint32 = 0x10
	RTCSeconds   uint32 = 0x14
)

// Timer config bit layout: bit31=enable, bit30=repeat, bits28..0=count.
const (
	TimerEnableBit uint = 31
	TimerRepeatBit uint = 30
)

// DMA register offsets, relative to DMABase.
const (
	DMAMasterStatus uint32 = 0x0000

	DMAChannelStride uint32 = 0x0100
	DMAChannel0Base  uint32 = 0x0100

	DMACommand uint32 = 0x00
	DMAStatus  uint32 = 0x04
	DMARamAddr uint32 = 0x08
	DMAFlags   uint32 = 0x0C
	DMAPerAddr uint32 = 0x10
	DMAIncr    uint32 = 0x14
	DMACount   uint32 = 0x18
)

// DMA command bits.
const (
	DMACmdEnable      uint = 0
	DMACmdAbort       uint = 1
	DMACmdInterrupt   uint = 2
	DMACmdToRAM       uint = 3 // direction: 1 = peripheral->RAM
)

// DMA status bits (write-1-to-clear).
const (
	DMAStatusComplete  uint = 0
	DMAStatusFIFOEmpty uint = 1
	DMAStatusActive    uint = 31
)

// GPIO per-port register offsets, relative to each port's own base
// (GPIOBase + port_index*0x20).
const (
	GPIOPortStride uint32 = 0x20

	GPIOEnable    uint32 = 0x00
	GPIOOutputEn  uint32 = 0x04
	GPIOOutputVal uint32 = 0x08
	GPIOInputVal  uint32 = 0x0C
	GPIOIntEnable uint32 = 0x10
	GPIOIntStatus uint32 = 0x14
	GPIOIntLevel  uint32 = 0x18
	GPIOIntClear  uint32 = 0x1C
)

// GPIO port count and names (A..L).
const GPIOPortCount = 12

// I2C register offsets, relative to I2CBase.
const (
	I2CControl uint32 = 0x00
	I2CAddress uint32 = 0x04
	I2CData0   uint32 = 0x08
	I2CData1   uint32 = 0x0C
	I2CData2   uint32 = 0x10
	I2CData3   uint32 = 0x14
	I2CStatus  uint32 = 0x18
)

// I2C control bits.
const (
	I2CCtlStart     uint = 0
	I2CCtlWrite     uint = 1 // 1 = write, 0 = read; the transfer direction is taken from addr bit7
	I2CCtlCountLow  uint = 4
	I2CCtlCountHigh uint = 6
)

// I2C address register: bit7 selects read(1)/write(0), low 7 bits = slave id.
const I2CAddrReadWriteBit uint = 7

// I2C status bits.
const I2CStatusACK uint = 0

// I2C slave addresses.
const (
	PMICSlaveAddr  uint8 = 0x08
	CodecSlaveAddr uint8 = 0x1A
)

// I2S register offsets, relative to I2SBase.
const (
	I2SConfig   uint32 = 0x00
	I2SControl  uint32 = 0x04
	I2SFifoWr   uint32 = 0x08
	I2SFifoRd   uint32 = 0x0C
	I2SClockDiv uint32 = 0x10
	I2SStatus   uint32 = 0x14
)

// I2S control bits.
const (
	I2SCtlEnable   uint = 0
	I2SCtlTXEnable uint = 1
	I2SCtlRXEnable uint = 2
)

// I2S base clock used by the sample-rate divisor formula.
const I2SBaseClockHz = 24_000_000

// ClickWheel register offsets, relative to ClickWheelBase.
const (
	ClickWheelData   uint32 = 0x00
	ClickWheelStatus uint32 = 0x04
)

// ClickWheel packet layout.
const (
	ClickWheelValidBase    uint32 = 0x8000023A
	ClickWheelValidMask    uint32 = 0x80000FFF
	ClickWheelButtonShift  uint   = 16
	ClickWheelPositionMask uint32 = 0x7F
)

// ClickWheel status bit.
const ClickWheelDataAvailBit uint = 0

// LCD (direct BCM) offsets within its window; only bits 16..18 are decoded,
// giving three addressable slots spaced 0x10000 apart.
const (
	LCDAddressSlot uint32 = 0x00000
	LCDDataSlot    uint32 = 0x10000
	LCDControlSlot uint32 = 0x20000

	LCDFramebufferBase uint32 = 0xE0000
)

// LCD control register commands.
const (
	LCDCmdNOP       uint32 = 0
	LCDCmdUpdate    uint32 = 1
	LCDCmdSetWindow uint32 = 2
	LCDCmdWriteData uint32 = 3
)

// LCD2 bridge register offsets, relative to LCD2Base.
const (
	LCD2BlockConfig  uint32 = 0x00
	LCD2BlockControl uint32 = 0x04
	LCD2BlockData    uint32 = 0x08
)

// LCD2 bridge control commands / status bits.
const (
	LCD2CmdStart      uint32 = 1
	LCD2StatusReady   uint   = 0 // BLOCK_READY
	LCD2StatusTXOK    uint   = 1 // BLOCK_TXOK
)

// ATA task-file register offsets, relative to ATABase. Bit-exact per spec.
const (
	ATAData       uint32 = 0x1E0
	ATAErrFeature uint32 = 0x1E4
	ATANSector    uint32 = 0x1E8
	ATASector     uint32 = 0x1EC
	ATALCyl       uint32 = 0x1F0
	ATAHCyl       uint32 = 0x1F4
	ATASelect     uint32 = 0x1F8
	ATACommand    uint32 = 0x1FC // write: command, read: status
	ATAControl    uint32 = 0x3F8
	ATAAltStatus  uint32 = 0x3FC
)

// ATA status register bits.
const (
	ATAStatusERR uint8 = 0x01
	ATAStatusDRQ uint8 = 0x08
	ATAStatusDSC uint8 = 0x10
	ATAStatusDRDY uint8 = 0x40
	ATAStatusBSY  uint8 = 0x80
)

// ATA control register bits.
const ATACtrlNIEN uint8 = 0x02
const ATACtrlSRST uint8 = 0x04

// ATA select register (drive/head) bits.
const ATASelectLBAMode uint8 = 0x40

// ATA commands.
const (
	ATACmdReadSectors    uint8 = 0x20
	ATACmdReadSectorsExt uint8 = 0x24
	ATACmdReadMultiple   uint8 = 0xC4
	ATACmdWriteSectors   uint8 = 0x30
	ATACmdWriteMultiple  uint8 = 0xC5
	ATACmdIdentify       uint8 = 0xEC
	ATACmdFlushCache     uint8 = 0xE7
	ATACmdFlushCacheExt  uint8 = 0xEA
	ATACmdStandbyImm     uint8 = 0xE0
	ATACmdIdleImm        uint8 = 0xE1
	ATACmdSetFeatures    uint8 = 0xEF
	ATACmdSetMultiple    uint8 = 0xC6
)

// Interrupt is one of the aggregated interrupt sources.
type Interrupt uint

const (
	IRQTimer1 Interrupt = iota
	IRQTimer2
	IRQIDE
	IRQDMA
	IRQI2C
	IRQI2S
	IRQSerial0
	irqSourceCount
)

// IRQSourceCount is the number of distinct interrupt sources modelled.
const IRQSourceCount = int(irqSourceCount)

// FIQMask classifies which sources are routed to FIQ rather than IRQ.
// IDE is wired to FIQ on the real PP5021C boot ROM's interrupt split.
const FIQMask = uint32(1) << uint(IRQIDE)

// Interrupt controller register offsets, relative to IRQBase.
const (
	IRQBase uint32 = 0x60004000
	IRQSize uint32 = 0x00000100

	IRQRawStatus  uint32 = 0x00
	IRQForce      uint32 = 0x04
	IRQCPUMaskSet uint32 = 0x08
	IRQCPUMaskClr uint32 = 0x0C
	IRQCOPMaskSet uint32 = 0x10
	IRQCOPMaskClr uint32 = 0x14
	IRQCPUEnabled uint32 = 0x18 // read-only: raw & cpu mask
	IRQCOPEnabled uint32 = 0x1C // read-only: raw & cop mask
)
