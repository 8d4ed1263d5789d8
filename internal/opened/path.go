package opened

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	openederrors "github.com/mrz1836/opened/internal/errors"
)

// platform holds the path rules of one operating system.
type platform struct {
	windows     bool
	badSep      byte
	badSepLabel string
}

func platformFor(goos string) platform {
	if goos == "windows" {
		return platform{
			windows:     true,
			badSep:      '/',
			badSepLabel: "forward slashes",
		}
	}
	return platform{badSep: '\\', badSepLabel: "backslashes"}
}

// validate rejects paths that no probe could ever answer for.
func (p platform) validate(label, path string) error {
	switch {
	case path == "":
		return openederrors.Wrapf(openederrors.ErrInvalidPath, "%s must not be empty", label)
	case strings.IndexByte(path, 0) >= 0:
		return openederrors.Wrapf(openederrors.ErrInvalidPath, "%s must be a string without null bytes", label)
	case strings.IndexByte(path, p.badSep) >= 0:
		return openederrors.Wrapf(openederrors.ErrInvalidPath, "%s must be a string without %s", label, p.badSepLabel)
	}
	return nil
}

// key identifies paths that name the same file for de-duplication.
// Unicode forms are unified everywhere; case only on Windows, whose
// filesystems are case-insensitive by default.
func (p platform) key(path string) string {
	k := norm.NFC.String(path)
	if p.windows {
		// Casers are stateful; one per call keeps key safe for concurrent use.
		k = cases.Fold().String(k)
	}
	return k
}

// native returns the NUL-terminated byte form a probe receives.
func (p platform) native(path string) []byte {
	buf := make([]byte, len(path)+1)
	copy(buf, path)
	return buf
}

func pathLabel(idx int) string {
	return "path at index " + strconv.Itoa(idx)
}
