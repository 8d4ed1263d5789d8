package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.opened/logs/opened.log
	CLILogFileName = "opened.log"
)

// Configuration file names.
const (
	// ConfigFileName is the name of both the global and the project configuration file.
	ConfigFileName = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides (OPENED_PROBE_CONCURRENCY).
	EnvPrefix = "OPENED"

	// EnvHome overrides the opened home directory.
	EnvHome = "OPENED_HOME"
)
