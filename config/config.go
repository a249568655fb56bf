// Package config loads the mcp3208 tool configuration from a file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/moffa90/go-mcp3208/protocol"
)

// EnvPrefix prefixes every environment override, e.g. MCP3208_SPI_PORT.
const EnvPrefix = "MCP3208"

// SPIConfig selects and configures the bus.
type SPIConfig struct {
	Port    string `mapstructure:"port"`
	SpeedHz int64  `mapstructure:"speedHz"`
	Mode    int    `mapstructure:"mode"`
}

// ADCConfig controls conversions.
type ADCConfig struct {
	Mode           string        `mapstructure:"mode"`
	Retries        int           `mapstructure:"retries"`
	RetryDelay     time.Duration `mapstructure:"retryDelay"`
	ConversionRate float64       `mapstructure:"conversionRate"`
}

// LumberjackConfig configures the rolling log file.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig sets level, encoding and outputs. An empty filename logs to
// stderr only.
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig configures the Prometheus endpoint served by poll.
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"`
	Path   string `mapstructure:"path"`
}

// PollConfig configures continuous sampling.
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// RedisConfig configures the optional sample stream.
type RedisConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Stream   string `mapstructure:"stream"`
	MaxLen   int64  `mapstructure:"maxLen"`
}

// Config is the top-level configuration.
type Config struct {
	Simulate bool          `mapstructure:"simulate"`
	SPI      SPIConfig     `mapstructure:"spi"`
	ADC      ADCConfig     `mapstructure:"adc"`
	Logging  LoggingConfig `mapstructure:"logging"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Poll     PollConfig    `mapstructure:"poll"`
	Redis    RedisConfig   `mapstructure:"redis"`
}

// Load reads configuration from a YAML/TOML/JSON file and the environment.
// If path is empty, MCP3208_CONFIG is consulted, then mcp3208.yaml in the
// working directory and /etc/mcp3208. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/mcp3208")
		v.SetConfigName("mcp3208")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulate", false)

	v.SetDefault("spi.port", "")
	v.SetDefault("spi.speedHz", protocol.DefaultSpeedHz)
	v.SetDefault("spi.mode", protocol.DefaultSPIMode)

	v.SetDefault("adc.mode", "single")
	v.SetDefault("adc.retries", 0)
	v.SetDefault("adc.retryDelay", "1ms")
	v.SetDefault("adc.conversionRate", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 50)
	v.SetDefault("logging.file.maxBackups", 5)
	v.SetDefault("logging.file.maxAge", 14)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.addr", ":9108")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("poll.interval", "1s")

	v.SetDefault("redis.enable", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "mcp3208:samples")
	v.SetDefault("redis.maxLen", 100000)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.SPI.SpeedHz <= 0 {
		return fmt.Errorf("spi.speedHz must be positive, got %d", c.SPI.SpeedHz)
	}
	if c.SPI.Mode < 0 || c.SPI.Mode > 3 {
		return fmt.Errorf("spi.mode must be 0-3, got %d", c.SPI.Mode)
	}
	if _, err := c.ConversionMode(); err != nil {
		return fmt.Errorf("adc.mode: %w", err)
	}
	if c.ADC.Retries < 0 {
		return fmt.Errorf("adc.retries must not be negative, got %d", c.ADC.Retries)
	}
	if c.ADC.ConversionRate < 0 {
		return fmt.Errorf("adc.conversionRate must not be negative, got %g", c.ADC.ConversionRate)
	}
	if c.Metrics.Enable && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive, got %s", c.Poll.Interval)
	}
	if c.Redis.Enable && c.Redis.Stream == "" {
		return errors.New("redis.stream is required when redis is enabled")
	}
	return nil
}

// ConversionMode parses ADC.Mode.
func (c *Config) ConversionMode() (protocol.Mode, error) {
	return protocol.ParseMode(c.ADC.Mode)
}
