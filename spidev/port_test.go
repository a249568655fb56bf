package spidev

import (
	"errors"
	"runtime"
	"testing"

	"periph.io/x/conn/v3/spi"

	"github.com/moffa90/go-mcp3208/protocol"
)

func TestSupported(t *testing.T) {
	if got, want := Supported(), runtime.GOOS == "linux"; got != want {
		t.Errorf("Supported() = %v on %s, want %v", got, runtime.GOOS, want)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "zero value", cfg: Config{}},
		{name: "mode 3", cfg: Config{Mode: 3, SpeedHz: 2_000_000}},
		{name: "negative speed", cfg: Config{SpeedHz: -1}, wantErr: true},
		{name: "mode 4", cfg: Config{Mode: 4}, wantErr: true},
		{name: "negative mode", cfg: Config{Mode: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.SpeedHz != protocol.DefaultSpeedHz {
		t.Errorf("SpeedHz = %d, want %d", cfg.SpeedHz, protocol.DefaultSpeedHz)
	}

	cfg = Config{SpeedHz: 500_000}.withDefaults()
	if cfg.SpeedHz != 500_000 {
		t.Errorf("SpeedHz = %d, want 500000", cfg.SpeedHz)
	}
}

func TestSPIMode(t *testing.T) {
	want := []spi.Mode{spi.Mode0, spi.Mode1, spi.Mode2, spi.Mode3}
	for i, w := range want {
		got, err := spiMode(i)
		if err != nil {
			t.Fatalf("spiMode(%d): %v", i, err)
		}
		if got != w {
			t.Errorf("spiMode(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestOpenMissingPort(t *testing.T) {
	_, err := Open(Config{Name: "/dev/spidev-does-not-exist"})
	if err == nil {
		t.Fatal("expected error opening a missing port")
	}
	if !Supported() && !errors.Is(err, ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}

func TestOpenInvalidConfig(t *testing.T) {
	if !Supported() {
		t.Skip("SPI not supported on this platform")
	}
	if _, err := Open(Config{Mode: 7}); err == nil {
		t.Error("expected error for invalid mode")
	}
}
