package protocol

// EncodeCommand constructs the command word for a single conversion.
//
// Frame structure:
//
//	[START][SGL/DIFF][D2 D1 D0][0 x 27]
//
// Only the start, mode and channel fields are set; the device ignores what is
// clocked out after D0. Returns a *ChannelOutOfRangeError if ch is not in 0..7
// and an *InvalidModeError if mode is not a conversion mode.
func EncodeCommand(mode Mode, ch Channel) (CommandFrame, error) {
	if !mode.Valid() {
		return 0, &InvalidModeError{Value: mode}
	}
	if !ch.Valid() {
		return 0, &ChannelOutOfRangeError{Value: int(ch)}
	}

	frame := StartMask
	if mode == SingleEnded {
		frame |= ModeMask
	}
	frame |= (uint32(ch) << ChannelPos) & ChannelMask

	return CommandFrame(frame), nil
}

// BuildReadCmd constructs the bytes to transmit for a single conversion,
// most significant byte first.
//
// Example:
//
//	tx, err := protocol.BuildReadCmd(protocol.SingleEnded, protocol.Channel0)
//	// tx == []byte{0xC0, 0x00, 0x00, 0x00}
func BuildReadCmd(mode Mode, ch Channel) ([]byte, error) {
	frame, err := EncodeCommand(mode, ch)
	if err != nil {
		return nil, err
	}
	b := frame.Bytes()
	return b[:], nil
}

// ParseCommand recovers mode and channel from a command word.
// The start bit must be set and nothing below the channel field may be.
// Used by devices on the receiving end of the bus, such as the simulator.
func ParseCommand(frame CommandFrame) (Mode, Channel, bool) {
	f := uint32(frame)
	if f&StartMask == 0 || f&^(StartMask|ModeMask|ChannelMask) != 0 {
		return 0, 0, false
	}

	mode := PseudoDifferential
	if f&ModeMask != 0 {
		mode = SingleEnded
	}
	return mode, Channel((f & ChannelMask) >> ChannelPos), true
}
