package adc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/moffa90/go-mcp3208/protocol"
)

// Transport performs one full-duplex SPI exchange: w is clocked out while r is
// filled with what the device clocks back. len(r) == len(w).
//
// *spidev.Port and *simulator.Device implement Transport.
type Transport interface {
	Tx(w, r []byte) error
}

// Reading is one sampled channel.
type Reading struct {
	Channel   protocol.Channel `json:"channel" yaml:"channel"`
	Mode      protocol.Mode    `json:"mode" yaml:"mode"`
	Raw       protocol.Sample  `json:"raw" yaml:"raw"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
}

// Reader performs conversions on an MCP3208 behind a Transport.
//
// Reader is safe for concurrent use. Each command and its response are
// exchanged under a lock so that responses are never paired with another
// caller's command.
type Reader struct {
	mu      sync.Mutex
	bus     Transport
	config  Config
	limiter *rate.Limiter
}

// New creates a new Reader with the given transport and options.
//
// Example:
//
//	port, err := spidev.Open(spidev.Config{Name: "/dev/spidev0.0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//	r := adc.New(port, adc.WithRetries(2))
func New(bus Transport, opts ...Option) *Reader {
	if bus == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Reader{
		bus:    bus,
		config: cfg,
	}
	if cfg.ConversionRate > 0 {
		burst := int(cfg.ConversionRate)
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.ConversionRate), burst)
	}
	return r
}

// Mode returns the conversion mode used by Read and ReadAll.
func (r *Reader) Mode() protocol.Mode {
	return r.config.Mode
}

// Read converts a channel in the configured mode.
func (r *Reader) Read(ctx context.Context, ch protocol.Channel) (protocol.Sample, error) {
	return r.ReadMode(ctx, r.config.Mode, ch)
}

// ReadMode converts a channel in the given mode.
//
// Invalid channels and modes are rejected before any I/O. Malformed and corrupt
// responses are retried up to Config.Retries times; the final codec error
// is returned wrapped in a *ConversionError.
func (r *Reader) ReadMode(ctx context.Context, mode protocol.Mode, ch protocol.Channel) (protocol.Sample, error) {
	frame, err := protocol.EncodeCommand(mode, ch)
	if err != nil {
		return 0, err
	}
	tx := frame.Bytes()

	attempts := r.config.Retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, r.config.RetryDelay); err != nil {
				return 0, fmt.Errorf("cancelled: %w", err)
			}
		}

		start := time.Now()
		sample, resp, err := r.convert(ctx, ch, tx[:])
		r.observe(Conversion{
			Channel:  ch,
			Mode:     mode,
			Command:  frame,
			Response: resp,
			Sample:   sample,
			Attempt:  attempt,
			Elapsed:  time.Since(start),
			Err:      err,
		})

		if err == nil {
			r.logDebug("conversion",
				"channel", int(ch),
				"mode", mode.String(),
				"sample", int(sample),
				"attempt", attempt,
			)
			return sample, nil
		}

		if !protocol.IsResponseError(err) {
			return 0, err
		}

		r.logError("bad response",
			"channel", int(ch),
			"attempt", attempt,
			"error", err.Error(),
		)

		if attempt == attempts {
			return 0, &ConversionError{Channel: ch, Attempts: attempts, Err: err}
		}
	}

	return 0, fmt.Errorf("read %s: no conversion attempted (%d attempts configured)", ch, attempts)
}

// ReadAll converts channels 0 through 7 in order in the configured mode.
// It stops at the first error.
func (r *Reader) ReadAll(ctx context.Context) ([]Reading, error) {
	readings := make([]Reading, 0, protocol.NumChannels)
	for _, ch := range protocol.Channels() {
		sample, err := r.Read(ctx, ch)
		if err != nil {
			return readings, err
		}
		readings = append(readings, Reading{
			Channel:   ch,
			Mode:      r.config.Mode,
			Raw:       sample,
			Timestamp: time.Now(),
		})
	}

	r.logInfo("read all channels", "count", len(readings))
	return readings, nil
}

// convert performs one exchange and decodes the response. The received frame
// is returned whenever the exchange itself succeeded.
func (r *Reader) convert(ctx context.Context, ch protocol.Channel, cmd []byte) (protocol.Sample, protocol.ResponseFrame, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, fmt.Errorf("cancelled: %w", err)
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, 0, fmt.Errorf("rate limit: %w", ctxErr)
			}
			// The limiter refuses up front when the wait would outlast the deadline.
			return 0, 0, fmt.Errorf("rate limit: %v: %w", err, context.DeadlineExceeded)
		}
	}

	rx := make([]byte, protocol.FrameBytes)

	r.mu.Lock()
	err := r.bus.Tx(cmd, rx)
	r.mu.Unlock()

	if err != nil {
		return 0, 0, &TransportError{Channel: ch, Err: err}
	}

	resp, err := protocol.ResponseFrameFromBytes(rx)
	if err != nil {
		return 0, 0, err
	}
	sample, err := protocol.DecodeResponse(resp)
	return sample, resp, err
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// observe calls the observer if configured.
func (r *Reader) observe(c Conversion) {
	if r.config.Observer != nil {
		r.config.Observer.ObserveConversion(c)
	}
}

// logDebug logs a debug message if a logger is configured.
func (r *Reader) logDebug(msg string, keysAndValues ...interface{}) {
	if r.config.Logger != nil {
		r.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (r *Reader) logInfo(msg string, keysAndValues ...interface{}) {
	if r.config.Logger != nil {
		r.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (r *Reader) logError(msg string, keysAndValues ...interface{}) {
	if r.config.Logger != nil {
		r.config.Logger.Error(msg, keysAndValues...)
	}
}
