//go:build unix

package probe

import (
	"errors"
	"os"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	openederrors "github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/flock"
)

// AdvisoryProbe detects holders of flock(2) locks on Unix.
// It only sees processes that cooperate through advisory locking.
type AdvisoryProbe struct{}

// Name implements Prober.
func (AdvisoryProbe) Name() string { return "advisory" }

// Probe implements Prober. The file is opened read-only and never created.
func (AdvisoryProbe) Probe(path string) Outcome {
	path = trimTerminator(path)
	if strings.IndexByte(path, 0) >= 0 {
		return errnoOutcome(syscall.EINVAL, openederrors.ErrEncoding, nil)
	}

	f, err := os.Open(path) // #nosec G304 -- probing caller-supplied paths is the purpose
	if err != nil {
		return openFailure(err)
	}
	defer func() { _ = f.Close() }()

	// Directories open and flock fine but are never "held open" files.
	info, err := f.Stat()
	if err != nil {
		return openFailure(err)
	}
	if info.IsDir() {
		return errnoOutcome(syscall.EISDIR, openederrors.ErrPlatform, nil)
	}

	fd := f.Fd()
	if err := flock.TryExclusive(fd); err != nil {
		if flock.IsContended(err) {
			return Locked(int(syscall.EWOULDBLOCK))
		}
		return openFailure(err)
	}
	_ = flock.Unlock(fd)
	return Available()
}

// CodeName implements CodeNamer. Codes produced by this variant are errno
// values, so they are named by the C constant rather than the Windows table.
func (AdvisoryProbe) CodeName(code int) string {
	if code <= 0 {
		return CodeName(code)
	}
	if name := unix.ErrnoName(syscall.Errno(code)); name != "" {
		return name
	}
	return "ENOSYS"
}

func openFailure(err error) Outcome {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		errno = syscall.EIO
	}
	sentinel := openederrors.ErrPlatform
	if errors.Is(err, os.ErrNotExist) {
		sentinel = openederrors.ErrFileNotFound
	}
	return errnoOutcome(errno, sentinel, err)
}

func errnoOutcome(errno syscall.Errno, sentinel, cause error) Outcome {
	return platformError(int(errno), AdvisoryProbe{}.CodeName(int(errno)), sentinel, cause)
}
