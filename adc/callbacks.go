package adc

import (
	"time"

	"github.com/moffa90/go-mcp3208/protocol"
)

// Conversion describes one finished conversion attempt.
// Passed to Observer after every exchange, successful or not.
type Conversion struct {
	Channel protocol.Channel
	Mode    protocol.Mode

	// Command is the word sent to the device
	Command protocol.CommandFrame

	// Response is the word received, zero if the exchange failed
	Response protocol.ResponseFrame

	// Sample is only meaningful when Err is nil
	Sample protocol.Sample

	// Attempt is 1 for the first try and increases with each retry
	Attempt int

	Elapsed time.Duration
	Err     error
}

// Observer receives conversion results. Implementations should return quickly,
// they run while the caller waits.
type Observer interface {
	ObserveConversion(c Conversion)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Conversion)

// ObserveConversion calls f(c).
func (f ObserverFunc) ObserveConversion(c Conversion) {
	f(c)
}

// Logger is an optional logging interface that can be provided to the reader.
// This allows integration with any logging framework; see package logging for
// a zap adapter.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
