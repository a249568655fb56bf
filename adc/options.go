package adc

import (
	"time"

	"github.com/moffa90/go-mcp3208/protocol"
)

// Config holds the reader configuration.
type Config struct {
	// Mode is the conversion mode used by Read and ReadAll
	Mode protocol.Mode

	// Logger is used for logging operations (optional)
	Logger Logger

	// Observer is notified after every conversion (optional)
	Observer Observer

	// Retries is the number of extra attempts after a malformed or corrupt
	// response. Transport failures and caller errors are never retried.
	Retries int

	// RetryDelay is the pause before each retry
	RetryDelay time.Duration

	// ConversionRate caps conversions per second across all callers.
	// Zero means unlimited.
	ConversionRate float64
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Mode:       protocol.SingleEnded,
		Retries:    0,
		RetryDelay: time.Millisecond,
	}
}

// Option is a functional option for configuring the Reader.
type Option func(*Config)

// WithMode sets the conversion mode used by Read and ReadAll.
//
// Example:
//
//	r := adc.New(port, adc.WithMode(protocol.PseudoDifferential))
func WithMode(mode protocol.Mode) Option {
	return func(c *Config) {
		c.Mode = mode
	}
}

// WithLogger sets a logger for the reader operations.
//
// Example:
//
//	r := adc.New(port, adc.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithObserver sets a hook called after each conversion, typically metrics.
func WithObserver(observer Observer) Option {
	return func(c *Config) {
		c.Observer = observer
	}
}

// WithRetries sets the number of retry attempts for corrupt responses.
//
// Example:
//
//	r := adc.New(port, adc.WithRetries(2))
func WithRetries(retries int) Option {
	return func(c *Config) {
		if retries >= 0 {
			c.Retries = retries
		}
	}
}

// WithRetryDelay sets the pause before each retry.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.RetryDelay = delay
		}
	}
}

// WithConversionRate limits the number of conversions per second.
// The MCP3208 is rated for 100 ksps at 5V and 50 ksps at 2.7V.
//
// Example:
//
//	r := adc.New(port, adc.WithConversionRate(1000))
func WithConversionRate(perSecond float64) Option {
	return func(c *Config) {
		if perSecond >= 0 {
			c.ConversionRate = perSecond
		}
	}
}
