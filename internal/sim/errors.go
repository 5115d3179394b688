package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a configuration that violates a model precondition.
var ErrInvalidConfig = errors.New("sim: invalid configuration")

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field string
	Value float64
	Want  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s must be %s, got %g", ErrInvalidConfig, e.Field, e.Want, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
