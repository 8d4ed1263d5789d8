// Package config provides layered configuration for opened.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (OPENED_* prefix, e.g. OPENED_PROBE_CONCURRENCY)
//  3. Project config (.opened/config.yaml)
//  4. Global config (~/.opened/config.yaml)
//  5. Built-in defaults
//
// This package may import internal/constants and internal/errors only.
package config

import (
	"time"

	"github.com/mrz1836/opened/internal/constants"
)

// Config is the root configuration structure.
type Config struct {
	// Probe controls the lock probe and the scheduler that runs it.
	Probe ProbeConfig `yaml:"probe" mapstructure:"probe"`

	// Lsof controls the lsof-based check used on Unix.
	Lsof LsofConfig `yaml:"lsof" mapstructure:"lsof"`

	// Log controls log output.
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// ProbeConfig contains settings for probing files.
type ProbeConfig struct {
	// Concurrency is the number of probes allowed to run at once.
	// Default: 4, Valid range: 1-64
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// Method selects how files are checked: auto, probe or lsof.
	// Default: auto
	Method constants.CheckMethod `yaml:"method" mapstructure:"method"`

	// Advisory enables the flock-based probe on Unix. Without it the probe
	// reports "unsupported" there.
	// Default: false
	Advisory bool `yaml:"advisory" mapstructure:"advisory"`
}

// LsofConfig contains settings for the lsof method.
type LsofConfig struct {
	// BatchSize is the number of paths passed to one lsof invocation.
	// Default: 32, Valid range: 1-256
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`

	// Timeout bounds each lsof invocation.
	// Default: 30 seconds
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LogConfig contains settings for logging.
type LogConfig struct {
	// File enables the rotating log file under ~/.opened/logs.
	// Default: true
	File bool `yaml:"file" mapstructure:"file"`
}
