// Package spidev provides the SPI transport for an MCP3208 using periph.io.
//
// On Linux the port name is a spidev character device ("/dev/spidev0.0") or a
// periph alias ("SPI0.0"). An empty name opens the first registered port.
//
// Example:
//
//	if !spidev.Supported() {
//	    log.Fatal("no SPI on this platform")
//	}
//	port, err := spidev.Open(spidev.Config{Name: "/dev/spidev0.0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	r := adc.New(port)
package spidev

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/moffa90/go-mcp3208/protocol"
)

// ErrUnsupported is returned by Open on platforms without spidev.
var ErrUnsupported = errors.New("spidev: SPI is not supported on this platform")

// Supported reports whether the SPI transport is available on this platform.
func Supported() bool {
	return supported
}

// Config describes how to open and configure the bus.
type Config struct {
	// Name is the port to open; empty selects the first registered port
	Name string

	// SpeedHz is the SPI clock. Default is protocol.DefaultSpeedHz
	SpeedHz int64

	// Mode is the SPI mode (0-3). The MCP3208 supports modes 0 and 3
	Mode int
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.SpeedHz < 0 {
		return fmt.Errorf("invalid SPI speed %d Hz", c.SpeedHz)
	}
	if _, err := spiMode(c.Mode); err != nil {
		return err
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.SpeedHz == 0 {
		c.SpeedHz = protocol.DefaultSpeedHz
	}
	return c
}

// spiMode maps a numeric mode onto periph's mode, MSB first.
func spiMode(mode int) (spi.Mode, error) {
	switch mode {
	case 0:
		return spi.Mode0, nil
	case 1:
		return spi.Mode1, nil
	case 2:
		return spi.Mode2, nil
	case 3:
		return spi.Mode3, nil
	default:
		return 0, fmt.Errorf("invalid SPI mode %d: valid modes are 0-3", mode)
	}
}

// Port is an open SPI connection. It implements adc.Transport.
type Port struct {
	port spi.PortCloser
	conn spi.Conn
	name string
}

var initOnce struct {
	sync.Once
	err error
}

// Open initializes the host drivers once, then opens and configures the port.
// Returns ErrUnsupported when Supported is false.
func Open(cfg Config) (*Port, error) {
	if !Supported() {
		return nil, ErrUnsupported
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	initOnce.Do(func() {
		_, initOnce.err = host.Init()
	})
	if initOnce.err != nil {
		return nil, fmt.Errorf("init host drivers: %w", initOnce.err)
	}

	p, err := spireg.Open(cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", cfg.Name, err)
	}

	freq := physic.Frequency(cfg.SpeedHz) * physic.Hertz
	if err := p.LimitSpeed(freq); err != nil {
		p.Close()
		return nil, fmt.Errorf("limit speed to %s: %w", freq, err)
	}

	mode, _ := spiMode(cfg.Mode)
	conn, err := p.Connect(freq, mode, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = p.String()
	}

	return &Port{port: p, conn: conn, name: name}, nil
}

// Tx performs one full-duplex exchange.
func (p *Port) Tx(w, r []byte) error {
	return p.conn.Tx(w, r)
}

// Close releases the port.
func (p *Port) Close() error {
	return p.port.Close()
}

func (p *Port) String() string {
	return p.name
}
