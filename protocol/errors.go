package protocol

import (
	"errors"
	"fmt"
)

// ChannelOutOfRangeError is returned when a channel index does not fit in
// the 3-bit channel field. No frame is produced.
type ChannelOutOfRangeError struct {
	// Value is the rejected channel index
	Value int
}

func (e *ChannelOutOfRangeError) Error() string {
	return fmt.Sprintf("channel %d out of range: valid range is 0-%d", e.Value, NumChannels-1)
}

// InvalidModeError is returned when a conversion mode is neither single-ended
// nor pseudo-differential. No frame is produced.
type InvalidModeError struct {
	Value Mode
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid conversion mode %d: valid modes are single and diff", uint8(e.Value))
}

// MalformedResponseError is returned when a response has a bit set outside
// the sample and checksum fields.
type MalformedResponseError struct {
	// Frame is the raw response as received
	Frame ResponseFrame
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response %s: unexpected bits 0x%08X",
		e.Frame, uint32(e.Frame)&MandatoryZeroMask)
}

// ChecksumMismatchError is returned when the LSB-first echo does not mirror
// the sample. Usually a sign of line noise or a clock that is too fast.
type ChecksumMismatchError struct {
	// Frame is the raw response as received
	Frame ResponseFrame
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch in response %s", e.Frame)
}

// FrameSizeError is returned when a received buffer is not exactly one frame.
type FrameSizeError struct {
	Got int
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("invalid frame size: got %d bytes, expected %d", e.Got, FrameBytes)
}

// SampleOutOfRangeError is returned when building a response for a value
// wider than the converter resolution.
type SampleOutOfRangeError struct {
	Value Sample
}

func (e *SampleOutOfRangeError) Error() string {
	return fmt.Sprintf("sample %d out of range: maximum is %d", e.Value, MaxSample)
}

// IsCodecError returns true if err is, or wraps, one of the frame codec errors.
func IsCodecError(err error) bool {
	var (
		chErr   *ChannelOutOfRangeError
		modeErr *InvalidModeError
		malErr  *MalformedResponseError
		sumErr  *ChecksumMismatchError
		sizeErr *FrameSizeError
	)
	return errors.As(err, &chErr) ||
		errors.As(err, &modeErr) ||
		errors.As(err, &malErr) ||
		errors.As(err, &sumErr) ||
		errors.As(err, &sizeErr)
}

// IsResponseError returns true if err reports a bad device response, as
// opposed to a caller mistake. These are the errors worth retrying.
func IsResponseError(err error) bool {
	var (
		malErr *MalformedResponseError
		sumErr *ChecksumMismatchError
	)
	return errors.As(err, &malErr) || errors.As(err, &sumErr)
}
