//go:build unix

package flock

import (
	"errors"
	"syscall"
)

// TryExclusive acquires an exclusive non-blocking lock on the file descriptor.
// It fails immediately with EWOULDBLOCK if any shared or exclusive lock is held
// through another open file description.
func TryExclusive(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_EX|syscall.LOCK_NB)
}

// TryShared acquires a shared non-blocking lock on the file descriptor.
// It fails only when an exclusive lock is held elsewhere.
func TryShared(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_SH|syscall.LOCK_NB)
}

// Unlock releases the lock on the file descriptor.
func Unlock(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_UN)
}

// IsContended reports whether err means the lock is held by someone else.
func IsContended(err error) bool {
	return errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN)
}
