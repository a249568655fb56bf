// Package protocol implements the MCP3208 SPI conversion protocol.
//
// This package provides functions to build command frames and validate
// response frames according to the Microchip MCP3204/3208 datasheet
// (DS21298E, section 6.1). It performs no I/O.
//
// # Protocol Overview
//
// Every conversion is one 32-bit full-duplex transfer, most significant byte
// first:
//
//	Command:  [START][SGL/DIFF][D2 D1 D0][0 x 27]
//	Response: [0 x 5][WAIT][NULL][B11..B0][B1..B11][0 0]
//
// Where:
//   - START is always 1
//   - SGL/DIFF is 1 for single-ended, 0 for pseudo-differential
//   - D2-D0 selects the channel (0-7)
//   - B11..B0 is the sample, MSB first
//   - B1..B11 is the same sample echoed LSB first (the checksum)
//
// # Command Builders
//
// Use EncodeCommand or BuildReadCmd to create the bytes to transmit:
//
//	tx, err := protocol.BuildReadCmd(protocol.SingleEnded, protocol.Channel3)
//
// # Response Parsers
//
// Use ParseResponse or DecodeResponse to validate and extract the sample:
//
//	sample, err := protocol.ParseResponse(rx)
//
// # Error Handling
//
// Decoding fails with *MalformedResponseError when a bit outside the sample
// and checksum is set, and with *ChecksumMismatchError when the echo does not
// mirror the sample. Both carry the raw frame:
//
//	var sumErr *protocol.ChecksumMismatchError
//	if errors.As(err, &sumErr) {
//	    log.Printf("corrupt frame %s", sumErr.Frame)
//	}
//
// The codec never retries; that is left to the caller.
package protocol
