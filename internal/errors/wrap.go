package errors

import "fmt"

// Wrap prefixes err with msg and keeps it matchable with errors.Is.
// It returns nil if err is nil.
//
// opened wraps where an error leaves a component: the scheduler wraps a
// Close that gave up waiting, lsof wraps a failed or timed-out invocation,
// config names the file it could not read, and the CLI adds the count of
// affected paths to its outcome sentinels:
//
//	if err := s.Close(ctx); err != nil {
//	    // "scheduler close: context deadline exceeded"
//	}
//
// Probe outcomes are not wrapped here; their errors already name the code.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a format string.
//
//	return errors.Wrapf(errors.ErrFilesLocked, "%d of %d", open, total)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
