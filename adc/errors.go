package adc

import (
	"fmt"

	"github.com/moffa90/go-mcp3208/protocol"
)

// TransportError indicates that the SPI exchange itself failed.
type TransportError struct {
	Channel protocol.Channel
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transfer %s: %v", e.Channel, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ConversionError wraps a codec failure with the channel it happened on.
// The underlying *protocol error is reachable with errors.As.
type ConversionError struct {
	Channel  protocol.Channel
	Attempts int
	Err      error
}

func (e *ConversionError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("read %s failed after %d attempts: %v", e.Channel, e.Attempts, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Channel, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
