package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/iwvelando/tokenomics-planner/internal/config"
	"github.com/iwvelando/tokenomics-planner/pkg/constants"
	"github.com/iwvelando/tokenomics-planner/pkg/validation"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxBodySize     string               `yaml:"maxBodySize"`
	HorizonMonths   int                  `yaml:"horizonMonths"`
	ShutdownTimeout string               `yaml:"shutdownTimeout"`
	Logging         config.LoggingConfig `yaml:"logging"`

	bodySizeBytes   int64
	shutdownTimeout time.Duration
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	// Empty values always normalize.
	_ = cfg.normalize()
	return cfg
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the configured request body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = humanize.IBytes(uint64(size))
	}
}

// ShutdownGracePeriod returns how long in-flight requests may take after a
// shutdown signal.
func (c *Config) ShutdownGracePeriod() time.Duration {
	return c.shutdownTimeout
}

func (c *Config) normalize() error {
	var err error

	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	if c.HorizonMonths == 0 {
		c.HorizonMonths = constants.DefaultHorizonMonths
	}
	err = multierr.Append(err, validation.ValidateHorizon(c.HorizonMonths))

	size, sizeErr := ParseSize(c.MaxBodySize)
	if sizeErr != nil {
		err = multierr.Append(err, sizeErr)
	} else {
		c.bodySizeBytes = size
		c.MaxBodySize = humanize.IBytes(uint64(size))
	}

	if strings.TrimSpace(c.ShutdownTimeout) == "" {
		c.ShutdownTimeout = constants.DefaultShutdownTimeout
	}
	timeout, timeoutErr := time.ParseDuration(c.ShutdownTimeout)
	switch {
	case timeoutErr != nil:
		err = multierr.Append(err, fmt.Errorf("invalid shutdown timeout %q: %w", c.ShutdownTimeout, timeoutErr))
	case timeout < 0:
		err = multierr.Append(err, fmt.Errorf("invalid shutdown timeout %q: must not be negative", c.ShutdownTimeout))
	default:
		c.shutdownTimeout = timeout
	}

	err = multierr.Append(err, validation.ValidateLogging(c.Logging.Level, c.Logging.Format))

	return err
}

// ParseSize converts a human-friendly byte string (e.g., "256KiB", "10MB") into
// bytes. A bare number is a byte count and an empty or zero value selects the
// default limit.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	n, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	if n == 0 {
		return constants.DefaultMaxBodySizeBytes, nil
	}
	if n > uint64(1<<62) {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return int64(n), nil
}
