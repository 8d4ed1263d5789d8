// Package constants provides centralized constant values used throughout opened.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by opened for its own data.
const (
	// OpenedHome is the hidden directory name where opened stores its config and logs.
	// This directory is created in the user's home directory.
	OpenedHome = ".opened"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Sentinel result codes delivered through the raw-code callback channel.
// Platform codes are always non-negative, so negative values cannot collide.
const (
	// CodeAvailable means the file is not held exclusively by another process.
	CodeAvailable = 0

	// CodeUnsupported is delivered on platforms without an exclusive-open primitive.
	// Callers must treat it as inconclusive, neither available nor locked.
	CodeUnsupported = -1

	// CodeDispatchFailed is delivered when the worker could not run the probe.
	CodeDispatchFailed = -2
)

// Windows system error codes the probe classifies or synthesizes.
// See: https://learn.microsoft.com/en-us/windows/win32/debug/system-error-codes--0-499-
const (
	ErrorInvalidFunction      = 1
	ErrorFileNotFound         = 2
	ErrorPathNotFound         = 3
	ErrorTooManyOpenFiles     = 4
	ErrorAccessDenied         = 5
	ErrorInvalidHandle        = 6
	ErrorNotEnoughMemory      = 8
	ErrorOutOfMemory          = 14
	ErrorInvalidDrive         = 15
	ErrorSharingViolation     = 32
	ErrorLockViolation        = 33
	ErrorInvalidName          = 123
	ErrorNoUnicodeTranslation = 1113
)

// Scheduler defaults.
const (
	// DefaultConcurrency is the number of probes allowed to run at once.
	DefaultConcurrency = 4

	// MaxConcurrency bounds the configurable worker pool size.
	MaxConcurrency = 64

	// DefaultCloseTimeout bounds how long the CLI waits for in-flight probes on shutdown.
	DefaultCloseTimeout = 10 * time.Second
)

// lsof inspection defaults.
const (
	// LsofBinary is the executable used for Unix open-file inspection.
	LsofBinary = "lsof"

	// DefaultLsofBatchSize is the number of paths passed to one lsof invocation.
	// lsof runs in roughly constant time regardless of path count, so paths are batched;
	// 32 paths at 32KiB each stays near 1MiB of arguments.
	DefaultLsofBatchSize = 32

	// MaxLsofBatchSize bounds the configurable lsof batch size.
	MaxLsofBatchSize = 256

	// DefaultLsofTimeout bounds a single lsof invocation.
	DefaultLsofTimeout = 30 * time.Second

	// LsofMaxOutputBytes caps captured lsof stdout.
	LsofMaxOutputBytes = 2 * 1024 * 1024
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files to keep.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of rotated log files.
	LogMaxAgeDays = 28

	// LogCompress controls gzip compression of rotated files.
	LogCompress = true
)

// RequestIDPrefix prefixes the short identifier attached to each scheduled probe.
const RequestIDPrefix = "req-"
