// Package errors provides centralized error handling for opened.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrInvalidArgument indicates a call had the wrong shape (nil path, nil callback).
	// It is always returned synchronously and means no probe was scheduled.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidPath indicates a path failed caller-side validation
	// (empty, embedded NUL, or a separator foreign to the platform).
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnsupportedPlatform indicates the platform offers no exclusive-open primitive.
	// The result is inconclusive and must not be read as available or locked.
	ErrUnsupportedPlatform = errors.New("lock probe not supported on this platform")

	// ErrPlatform indicates the probe's open call failed for a reason other than
	// a sharing violation. The raw platform code travels alongside.
	ErrPlatform = errors.New("platform error")

	// ErrFileNotFound indicates the probed path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrEncoding indicates the path bytes could not be converted to the platform encoding.
	ErrEncoding = errors.New("path encoding conversion failed")

	// ErrDispatchFailed indicates the worker could not run the probe.
	ErrDispatchFailed = errors.New("probe dispatch failed")

	// ErrSchedulerClosed indicates work was submitted after the scheduler shut down.
	ErrSchedulerClosed = errors.New("scheduler closed")

	// ErrProbePanicked indicates the probe panicked inside its worker.
	ErrProbePanicked = errors.New("probe panicked")

	// ErrLsofFailed indicates the lsof command failed for a reason other than
	// "no matching open files".
	ErrLsofFailed = errors.New("lsof failed")

	// ErrLsofNotInstalled indicates lsof is not on PATH.
	ErrLsofNotInstalled = errors.New("lsof not installed")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrInvalidMethod indicates an unknown check method was configured.
	ErrInvalidMethod = errors.New("invalid check method")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrInvalidDuration indicates that a duration format is invalid.
	ErrInvalidDuration = errors.New("invalid duration format")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrFilesLocked indicates at least one checked path is held open.
	// The CLI maps it to a dedicated exit code so scripts can branch on it.
	ErrFilesLocked = errors.New("one or more files are locked")

	// ErrCheckIncomplete indicates at least one path could not be checked,
	// either because its check failed or because the result was inconclusive.
	ErrCheckIncomplete = errors.New("one or more paths could not be checked")

	// ErrInvalidCode indicates a code argument could not be parsed as an integer.
	ErrInvalidCode = errors.New("invalid error code")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}
