package config

import (
	"github.com/mrz1836/opened/internal/constants"
	"github.com/mrz1836/opened/internal/errors"
)

// Validate checks the configuration for invalid values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - probe.concurrency must be between 1 and 64
//   - probe.method must be auto, probe or lsof
//   - lsof.batch_size must be between 1 and 256
//   - lsof.timeout must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if err := validateProbeConfig(&cfg.Probe); err != nil {
		return err
	}
	return validateLsofConfig(&cfg.Lsof)
}

func validateProbeConfig(cfg *ProbeConfig) error {
	if cfg.Concurrency < 1 || cfg.Concurrency > constants.MaxConcurrency {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"probe.concurrency must be between 1 and %d, got %d", constants.MaxConcurrency, cfg.Concurrency)
	}
	if !cfg.Method.IsValid() {
		return errors.Wrapf(errors.ErrInvalidMethod,
			"probe.method %q", cfg.Method)
	}
	return nil
}

func validateLsofConfig(cfg *LsofConfig) error {
	if cfg.BatchSize < 1 || cfg.BatchSize > constants.MaxLsofBatchSize {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"lsof.batch_size must be between 1 and %d, got %d", constants.MaxLsofBatchSize, cfg.BatchSize)
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"lsof.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}
