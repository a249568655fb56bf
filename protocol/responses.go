package protocol

// DecodeResponse validates a response word and extracts its sample.
//
// Response frame structure:
//
//	[0 x 7][B11 .. B0][B1 .. B11][0 0]
//
// Validation runs in two steps:
//  1. every bit outside the sample and checksum fields must be zero,
//     otherwise a *MalformedResponseError is returned;
//  2. the checksum must mirror the sample around B0,
//     otherwise a *ChecksumMismatchError is returned.
//
// An all-zero frame is a valid reading of 0.
func DecodeResponse(frame ResponseFrame) (Sample, error) {
	f := uint32(frame)

	if f&MandatoryZeroMask != 0 {
		return 0, &MalformedResponseError{Frame: frame}
	}

	if !verifyChecksum(f) {
		return 0, &ChecksumMismatchError{Frame: frame}
	}

	return Sample((f & SampleMask) >> SamplePos), nil
}

// ParseResponse decodes the bytes received during a conversion,
// most significant byte first.
//
// Example:
//
//	sample, err := protocol.ParseResponse(rx)
//	if err != nil {
//	    return fmt.Errorf("read CH0: %w", err)
//	}
func ParseResponse(rx []byte) (Sample, error) {
	frame, err := ResponseFrameFromBytes(rx)
	if err != nil {
		return 0, err
	}
	return DecodeResponse(frame)
}

// BuildResponse constructs the response a device would send for s:
// the sample MSB first followed by its LSB-first echo.
// Returns a *SampleOutOfRangeError if s exceeds MaxSample.
func BuildResponse(s Sample) (ResponseFrame, error) {
	if s > MaxSample {
		return 0, &SampleOutOfRangeError{Value: s}
	}
	return ResponseFrame(uint32(s)<<SamplePos | checksumOf(s)), nil
}
