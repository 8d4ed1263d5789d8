package config

import "github.com/mrz1836/opened/internal/constants"

// DefaultConfig returns a new Config with the built-in default values.
// These are the base layer that config files, environment variables and
// CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Probe: ProbeConfig{
			// Four probes at once keeps a large batch fast without flooding
			// the filesystem with concurrent exclusive opens.
			Concurrency: constants.DefaultConcurrency,
			Method:      constants.MethodAuto,
			Advisory:    false,
		},
		Lsof: LsofConfig{
			BatchSize: constants.DefaultLsofBatchSize,
			Timeout:   constants.DefaultLsofTimeout,
		},
		Log: LogConfig{
			File: true,
		},
	}
}
