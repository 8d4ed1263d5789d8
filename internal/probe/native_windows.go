//go:build windows

package probe

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sys/windows"

	"github.com/mrz1836/opened/internal/constants"
)

// Long path prefixes understood by the Win32 file APIs.
const (
	longPathPrefix    = `\\?\`
	longUNCPathPrefix = `\\?\UNC\`
	uncPrefix         = `\\`
)

// NativeProbe detects exclusive holds with CreateFile and a zero share mode.
// If any other process has the file open, the open fails with
// ERROR_SHARING_VIOLATION (or ERROR_LOCK_VIOLATION for byte-range locks).
type NativeProbe struct{}

// Name implements Prober.
func (NativeProbe) Name() string { return "native" }

// Probe implements Prober.
func (NativeProbe) Probe(path string) Outcome {
	name, outcome, ok := widen(path)
	if !ok {
		return outcome
	}

	handle, err := windows.CreateFile(
		name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0, // no sharing: fails if anyone else has the file open
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return classifyOpenError(err)
	}
	_ = windows.CloseHandle(handle)
	return Available()
}

// widen converts a UTF-8 path to a NUL-terminated UTF-16 pointer.
// Conversion failures become PlatformError outcomes, never panics.
func widen(path string) (*uint16, Outcome, bool) {
	path = trimTerminator(path)
	if !utf8.ValidString(path) {
		return nil, EncodingError(constants.ErrorNoUnicodeTranslation, nil), false
	}
	if strings.IndexByte(path, 0) >= 0 {
		return nil, EncodingError(constants.ErrorInvalidName, nil), false
	}

	name, err := windows.UTF16PtrFromString(longPath(path))
	if err != nil {
		return nil, EncodingError(constants.ErrorInvalidName, err), false
	}
	return name, Outcome{}, true
}

// longPath prefixes absolute paths so they are not limited to MAX_PATH.
// The \\?\ form disables Win32 normalization, so the path is cleaned first.
func longPath(path string) string {
	if strings.HasPrefix(path, longPathPrefix) || !filepath.IsAbs(path) {
		return path
	}
	cleaned := filepath.Clean(path)
	if strings.HasPrefix(cleaned, uncPrefix) {
		return longUNCPathPrefix + strings.TrimPrefix(cleaned, uncPrefix)
	}
	return longPathPrefix + cleaned
}

func classifyOpenError(err error) Outcome {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return PlatformError(constants.ErrorInvalidFunction, err)
	}
	code := int(errno)
	if IsSharingViolation(code) {
		return Locked(code)
	}
	return PlatformError(code, err)
}
