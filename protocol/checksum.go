package protocol

import "math/bits"

// The device clocks the sample out MSB first and, while CS stays low, repeats
// bits 1..11 LSB first. Around the sample LSB (bit SamplePos) the field is a
// palindrome, so reversing the whole frame and moving SamplePos back onto
// itself must reproduce the frame.
//
// Reversal maps bit i to FrameBits-1-i. The sample LSB therefore lands on
// FrameBits-1-SamplePos, and the distance back is |FrameBits-1-2*SamplePos|.
// Which way to shift depends on which side of the frame's mirror point the
// sample LSB lies:
//
//   - SamplePos below the mirror point: the reversed pivot is higher, shift right.
//   - SamplePos above the mirror point: the reversed pivot is lower, shift left.
//
// With the MCP3208 layout SamplePos is 13, the mirror point 15.5, and the
// reversed frame is shifted right by 5.
var mirrorShift, mirrorRight = mirrorAlignment(FrameBits, SamplePos)

// mirrorAlignment returns the shift that moves the reversed pivot bit back to
// samplePos in a frame of frameBits bits, and whether it is a right shift.
func mirrorAlignment(frameBits, samplePos int) (shift uint, right bool) {
	span := frameBits - 1
	twice := 2 * samplePos
	if twice <= span {
		return uint(span - twice), true
	}
	return uint(twice - span), false
}

// mirror reverses a frame and realigns it onto the sample pivot.
func mirror(frame uint32) uint32 {
	return realign(bits.Reverse32(frame), mirrorShift, mirrorRight)
}

func realign(rev uint32, shift uint, right bool) uint32 {
	if right {
		return rev >> shift
	}
	return rev << shift
}

// checksumOf returns the checksum field for s, in frame position.
func checksumOf(s Sample) uint32 {
	return mirror(uint32(s)<<SamplePos) & ChecksumMask
}

// verifyChecksum reports whether the echo in frame mirrors its sample.
// Only meaningful once the mandatory-zero bits have been checked.
func verifyChecksum(frame uint32) bool {
	return mirror(frame) == frame
}
