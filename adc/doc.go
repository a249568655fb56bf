// Package adc reads conversions from an MCP3208 over any SPI transport.
//
// A Reader pairs the frame codec in package protocol with a Transport that
// performs the actual full-duplex exchange. It adds what the codec does not
// do on purpose: bus serialization between goroutines, optional retries of
// corrupt responses, rate limiting, logging and metrics hooks.
//
// # Basic Usage
//
//	port, err := spidev.Open(spidev.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	r := adc.New(port)
//	sample, err := r.Read(ctx, protocol.Channel0)
//
// # Reading Every Channel
//
//	readings, err := r.ReadAll(ctx)
//	for _, rd := range readings {
//	    fmt.Printf("%s: %d\n", rd.Channel, rd.Raw)
//	}
//
// # Error Handling
//
// The reader returns specific error types:
//
//   - *protocol.ChannelOutOfRangeError: invalid channel, nothing was sent
//   - *TransportError: the SPI exchange failed
//   - *ConversionError: the device answered with a malformed or corrupt
//     frame on every attempt; wraps the *protocol error
//
// Use errors.As to inspect them:
//
//	var sumErr *protocol.ChecksumMismatchError
//	if errors.As(err, &sumErr) {
//	    log.Printf("corrupt frame %s, lower the SPI clock", sumErr.Frame)
//	}
//
// # Configuration Options
//
//	r := adc.New(port,
//	    adc.WithMode(protocol.PseudoDifferential),
//	    adc.WithRetries(2),
//	    adc.WithConversionRate(1000),
//	    adc.WithLogger(logging.NewAdapter(zapLogger)),
//	)
package adc
