// Package simulator provides an in-memory MCP3208 that answers SPI exchanges
// the way the real converter does. It implements adc.Transport and is used by
// the examples, by the CLI's --simulate mode and in tests.
//
// Faults can be injected to exercise the response validation paths:
//
//	dev := simulator.New(simulator.WithValue(protocol.Channel0, 2048))
//	dev.InjectFault(simulator.FaultChecksum, 1) // next exchange has a bad echo
package simulator

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/moffa90/go-mcp3208/protocol"
)

// ErrInjected is returned by Tx when a FaultIO is pending.
var ErrInjected = errors.New("simulator: injected transfer failure")

// Fault is a kind of misbehaviour the device can be told to produce.
type Fault int

const (
	// FaultNone answers normally
	FaultNone Fault = iota

	// FaultMalformed sets the null bit that must read back 0
	FaultMalformed

	// FaultChecksum flips the lowest checksum bit
	FaultChecksum

	// FaultIO fails the exchange without touching the receive buffer
	FaultIO
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultMalformed:
		return "malformed"
	case FaultChecksum:
		return "checksum"
	case FaultIO:
		return "io"
	default:
		return fmt.Sprintf("fault(%d)", int(f))
	}
}

// Exchange records one command seen by the device.
type Exchange struct {
	Command protocol.CommandFrame
	Mode    protocol.Mode
	Channel protocol.Channel
	Fault   Fault
}

// Device is a simulated MCP3208. It is safe for concurrent use.
type Device struct {
	mu      sync.Mutex
	values  [protocol.NumChannels]protocol.Sample
	faults  []Fault
	history []Exchange
	source  func(protocol.Mode, protocol.Channel) protocol.Sample
}

// Option configures a Device.
type Option func(*Device)

// WithValue sets the value a channel converts to. Like SetValue it leaves the
// device unchanged when ch is invalid or s exceeds protocol.MaxSample; unlike
// SetValue it cannot report the error, so the option is ignored.
func WithValue(ch protocol.Channel, s protocol.Sample) Option {
	return func(d *Device) {
		if ch.Valid() && s <= protocol.MaxSample {
			d.values[ch] = s
		}
	}
}

// WithSource sets a function producing the value of each conversion,
// overriding fixed values. Results above protocol.MaxSample read as full
// scale, as an overdriven input does.
func WithSource(source func(protocol.Mode, protocol.Channel) protocol.Sample) Option {
	return func(d *Device) {
		d.source = source
	}
}

// New creates a device with every channel at 0 unless configured otherwise.
func New(opts ...Option) *Device {
	d := &Device{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetValue changes the value a channel converts to.
func (d *Device) SetValue(ch protocol.Channel, s protocol.Sample) error {
	if !ch.Valid() {
		return &protocol.ChannelOutOfRangeError{Value: int(ch)}
	}
	if s > protocol.MaxSample {
		return &protocol.SampleOutOfRangeError{Value: s}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.values[ch] = s
	return nil
}

// InjectFault queues a fault for the next n exchanges.
func (d *Device) InjectFault(f Fault, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < n; i++ {
		d.faults = append(d.faults, f)
	}
}

// History returns a copy of the exchanges seen so far.
func (d *Device) History() []Exchange {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Exchange(nil), d.history...)
}

// Tx answers one exchange. A command without a start bit, or a buffer that is
// not one frame long, gets an all-ones reply like a floating MISO line.
func (d *Device) Tx(w, r []byte) error {
	if len(w) != protocol.FrameBytes || len(r) != protocol.FrameBytes {
		return fmt.Errorf("simulator: transfer of %d/%d bytes, expected %d", len(w), len(r), protocol.FrameBytes)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	fault := FaultNone
	if len(d.faults) > 0 {
		fault = d.faults[0]
		d.faults = d.faults[1:]
	}

	cmd := protocol.CommandFrame(binary.BigEndian.Uint32(w))
	mode, ch, ok := protocol.ParseCommand(cmd)
	d.history = append(d.history, Exchange{Command: cmd, Mode: mode, Channel: ch, Fault: fault})

	if fault == FaultIO {
		return ErrInjected
	}

	if !ok {
		binary.BigEndian.PutUint32(r, 0xFFFFFFFF)
		return nil
	}

	value := d.values[ch]
	if d.source != nil {
		value = min(d.source(mode, ch), protocol.MaxSample)
	}

	frame, err := protocol.BuildResponse(value)
	if err != nil {
		return err
	}

	resp := uint32(frame)
	switch fault {
	case FaultMalformed:
		resp |= protocol.ZeroMask
	case FaultChecksum:
		resp ^= 1 << protocol.ChecksumPos
	}

	binary.BigEndian.PutUint32(r, resp)
	return nil
}
