package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moffa90/go-mcp3208/adc"
	"github.com/moffa90/go-mcp3208/config"
	"github.com/moffa90/go-mcp3208/logging"
	"github.com/moffa90/go-mcp3208/protocol"
	"github.com/moffa90/go-mcp3208/simulator"
	"github.com/moffa90/go-mcp3208/spidev"
)

// globalFlags are the persistent flags shared by every subcommand.
// A flag overrides the config file only when it was set explicitly.
type globalFlags struct {
	configPath string
	port       string
	speedHz    int64
	spiMode    int
	mode       string
	retries    int
	simulate   bool
	logLevel   string
}

// session is everything a subcommand needs to talk to the converter.
type session struct {
	cfg    *config.Config
	log    *zap.Logger
	reader *adc.Reader
	closer io.Closer
}

func (s *session) Close() {
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			s.log.Warn("close transport", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

// loadConfig reads the config file and applies explicitly set flags.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("port") {
		cfg.SPI.Port = flags.port
	}
	if changed("speed") {
		cfg.SPI.SpeedHz = flags.speedHz
	}
	if changed("spi-mode") {
		cfg.SPI.Mode = flags.spiMode
	}
	if changed("mode") {
		cfg.ADC.Mode = flags.mode
	}
	if changed("retries") {
		cfg.ADC.Retries = flags.retries
	}
	if changed("simulate") {
		cfg.Simulate = flags.simulate
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession builds the logger, the transport and the reader.
func openSession(cmd *cobra.Command, flags *globalFlags, opts ...adc.Option) (*session, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	mode, _ := cfg.ConversionMode()

	s := &session{cfg: cfg, log: logger}

	var bus adc.Transport
	if cfg.Simulate {
		bus = simulator.New(simulator.WithSource(simulatedInput))
		logger.Info("using simulated device")
	} else {
		port, err := spidev.Open(spidev.Config{
			Name:    cfg.SPI.Port,
			SpeedHz: cfg.SPI.SpeedHz,
			Mode:    cfg.SPI.Mode,
		})
		if err != nil {
			_ = logger.Sync()
			return nil, err
		}
		logger.Info("opened SPI port",
			zap.String("port", port.String()),
			zap.Int64("speed_hz", cfg.SPI.SpeedHz),
			zap.Int("spi_mode", cfg.SPI.Mode),
		)
		bus = port
		s.closer = port
	}

	base := []adc.Option{
		adc.WithMode(mode),
		adc.WithRetries(cfg.ADC.Retries),
		adc.WithRetryDelay(cfg.ADC.RetryDelay),
		adc.WithConversionRate(cfg.ADC.ConversionRate),
		adc.WithLogger(logging.NewAdapter(logger)),
	}
	s.reader = adc.New(bus, append(base, opts...)...)

	return s, nil
}

// simulatedInput spreads the channels evenly over the input range so that
// every channel reads differently; a pseudo-differential pair reads the
// difference clamped at zero, as the real device does.
func simulatedInput(mode protocol.Mode, ch protocol.Channel) protocol.Sample {
	level := func(c protocol.Channel) int {
		return int(c) * int(protocol.MaxSample) / (protocol.NumChannels - 1)
	}
	if mode == protocol.SingleEnded {
		return protocol.Sample(level(ch))
	}
	diff := level(ch) - level(ch^1)
	if diff < 0 {
		return 0
	}
	return protocol.Sample(diff)
}
