package serial

import (
	"errors"
	"fmt"
	"math"
)

// Config holds the parameters of a session.
type Config struct {
	Device   string
	BaudRate int
	Timeout  float64 // seconds; recorded but not enforced
	Driver   string  // registered driver name, "" for the platform default
}

// DefaultConfig returns a configuration for device at 9600 baud with a one
// second timeout.
func DefaultConfig(device string) Config {
	return Config{
		Device:   device,
		BaudRate: 9600,
		Timeout:  1,
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	_, err := c.validate()
	return err
}

// validate checks c and returns the driver it names.
func (c Config) validate() (Driver, error) {
	if c.Device == "" {
		return nil, errors.New("config: device is required")
	}
	if c.BaudRate <= 0 {
		return nil, fmt.Errorf("config: baud rate must be positive, got %d", c.BaudRate)
	}
	if math.IsNaN(c.Timeout) || math.IsInf(c.Timeout, 0) || c.Timeout < 0 {
		return nil, fmt.Errorf("config: timeout must be a finite non-negative number, got %v", c.Timeout)
	}
	d, err := LookupDriver(c.Driver)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return d, nil
}

// NewSession validates c and returns an unopened session for it. A WithDriver
// option overrides c.Driver.
func (c Config) NewSession(opts ...Option) (*Session, error) {
	d, err := c.validate()
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithDriver(d)}, opts...)
	return New(c.Device, c.BaudRate, c.Timeout, opts...), nil
}
