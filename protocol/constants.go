package protocol

// Primitive field widths of an MCP3208 transaction per the Microchip datasheet
// (DS21298E, figure 6-1). Every position and mask below is derived from these.
const (
	// FrameBits is the number of bits clocked per transaction (4 bytes)
	FrameBits = 32

	// StartBits is the width of the start bit field
	StartBits = 1

	// ModeBits is the width of the SGL/DIFF field
	ModeBits = 1

	// ChannelBits is the width of the D2..D0 channel select field
	ChannelBits = 3

	// WaitBits is the sample-and-hold clock the device inserts before the null bit
	WaitBits = 1

	// ZeroBits is the width of the null bit preceding the sample
	ZeroBits = 1

	// Resolution is the converter resolution in bits
	Resolution = 12

	// FrameBytes is the transaction length in bytes
	FrameBytes = FrameBits / 8
)

// Bit positions. Each value is the index of the least significant bit of its
// field, counting from bit 0 (the last bit on the wire).
const (
	StartPos    = FrameBits - StartBits
	ModePos     = StartPos - ModeBits
	ChannelPos  = ModePos - ChannelBits
	WaitPos     = ChannelPos - WaitBits
	ZeroPos     = WaitPos - ZeroBits
	SamplePos   = ZeroPos - Resolution
	ChecksumPos = SamplePos - ChecksumBits
)

// Derived field sizes.
const (
	// ChecksumBits is the width of the LSB-first echo. The sample LSB is the
	// pivot of the mirror and is not repeated.
	ChecksumBits = Resolution - 1

	// PaddingBits is what is left of the frame after the checksum
	PaddingBits = SamplePos - ChecksumBits
)

// Masks over a 32-bit frame.
const (
	StartMask    uint32 = (1<<StartBits - 1) << StartPos
	ModeMask     uint32 = (1<<ModeBits - 1) << ModePos
	ChannelMask  uint32 = (1<<ChannelBits - 1) << ChannelPos
	WaitMask     uint32 = (1<<WaitBits - 1) << WaitPos
	ZeroMask     uint32 = (1<<ZeroBits - 1) << ZeroPos
	SampleMask   uint32 = (1<<Resolution - 1) << SamplePos
	ChecksumMask uint32 = (1<<ChecksumBits - 1) << ChecksumPos
	PaddingMask  uint32 = 1<<PaddingBits - 1

	// MandatoryZeroMask covers every response bit outside the sample and its
	// echo. A device response with any of these set is malformed.
	MandatoryZeroMask = ^(SampleMask | ChecksumMask)
)

// MaxSample is the largest value a conversion can produce.
const MaxSample Sample = 1<<Resolution - 1

// NumChannels is the number of analog inputs.
const NumChannels = 1 << ChannelBits

// Bus defaults, within the datasheet's 2.7V clock rating.
const (
	// DefaultSpeedHz is the SPI clock used when none is configured
	DefaultSpeedHz = 1_000_000

	// DefaultSPIMode is CPOL=0, CPHA=0
	DefaultSPIMode = 0
)
