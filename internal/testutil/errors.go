// Package testutil holds shared test fixtures.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors that stand in for failures of the environment under test.
var (
	// ErrMockSpawnFailed simulates a worker that could not be started.
	ErrMockSpawnFailed = errors.New("no worker available")

	// ErrMockExecFailed simulates a command that could not be started.
	ErrMockExecFailed = errors.New("fork/exec: resource temporarily unavailable")

	// ErrMockWriteFailed simulates a sink that rejects writes.
	ErrMockWriteFailed = errors.New("disk full")
)
