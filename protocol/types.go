package protocol

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Channel selects one of the eight analog inputs (CH0..CH7).
type Channel uint8

// Analog input channels.
const (
	Channel0 Channel = iota
	Channel1
	Channel2
	Channel3
	Channel4
	Channel5
	Channel6
	Channel7
)

// NewChannel converts an integer channel index into a Channel.
// Returns a *ChannelOutOfRangeError if n is outside [0, 7].
func NewChannel(n int) (Channel, error) {
	if n < 0 || n >= NumChannels {
		return 0, &ChannelOutOfRangeError{Value: n}
	}
	return Channel(n), nil
}

// Valid reports whether c fits in the channel field.
func (c Channel) Valid() bool {
	return int(c) < NumChannels
}

func (c Channel) String() string {
	return fmt.Sprintf("CH%d", uint8(c))
}

// Channels returns every channel in ascending order.
func Channels() []Channel {
	chans := make([]Channel, NumChannels)
	for i := range chans {
		chans[i] = Channel(i)
	}
	return chans
}

// Mode selects the input configuration of a conversion.
type Mode uint8

const (
	// PseudoDifferential measures a channel against its paired neighbour
	// (CH0/CH1, CH2/CH3, ...). The channel field selects the pair and polarity.
	PseudoDifferential Mode = iota

	// SingleEnded measures a channel against VSS.
	SingleEnded
)

// Valid reports whether m is one of the two conversion modes.
func (m Mode) Valid() bool {
	return m == SingleEnded || m == PseudoDifferential
}

func (m Mode) String() string {
	switch m {
	case SingleEnded:
		return "single"
	case PseudoDifferential:
		return "diff"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode parses the textual forms accepted in configuration and flags.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "single-ended", "se", "":
		return SingleEnded, nil
	case "diff", "differential", "pseudo-differential", "pd":
		return PseudoDifferential, nil
	default:
		return 0, fmt.Errorf("unknown conversion mode %q", s)
	}
}

// CommandFrame is the 32-bit word clocked out to the device.
type CommandFrame uint32

// Bytes returns the frame most significant byte first.
func (f CommandFrame) Bytes() [FrameBytes]byte {
	var b [FrameBytes]byte
	binary.BigEndian.PutUint32(b[:], uint32(f))
	return b
}

func (f CommandFrame) String() string {
	return fmt.Sprintf("0x%08X", uint32(f))
}

// ResponseFrame is the 32-bit word clocked in from the device.
type ResponseFrame uint32

// ResponseFrameFromBytes assembles a response from received bytes,
// most significant byte first.
func ResponseFrameFromBytes(b []byte) (ResponseFrame, error) {
	if len(b) != FrameBytes {
		return 0, &FrameSizeError{Got: len(b)}
	}
	return ResponseFrame(binary.BigEndian.Uint32(b)), nil
}

// Bytes returns the frame most significant byte first.
func (f ResponseFrame) Bytes() [FrameBytes]byte {
	var b [FrameBytes]byte
	binary.BigEndian.PutUint32(b[:], uint32(f))
	return b
}

func (f ResponseFrame) String() string {
	return fmt.Sprintf("0x%08X", uint32(f))
}

// Sample is a raw 12-bit conversion result in [0, MaxSample].
type Sample uint16

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
