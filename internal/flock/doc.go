// Package flock wraps the Unix advisory lock primitive used by the advisory probe.
//
// Advisory locks only conflict with other flock callers, so a free result
// means "no cooperating process holds a lock", not "nobody has it open".
// The package is empty on platforms without flock(2).
//
// Usage:
//
//	f, _ := os.Open(path)
//	defer f.Close()
//	if err := flock.TryExclusive(f.Fd()); flock.IsContended(err) {
//	    // Another process holds a lock on path
//	}
//	_ = flock.Unlock(f.Fd())
package flock
