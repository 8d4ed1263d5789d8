// Package probe answers whether a file is currently held open exclusively by
// another process.
//
// A Prober makes exactly one platform attempt per call and never retries. The
// platform variant is chosen once (see New) so probes never branch on the
// operating system at call time:
//
//   - NativeProbe (Windows): opens the existing file for read/write with no
//     sharing permitted; a sharing violation means another process holds it.
//   - AdvisoryProbe (Unix, opt-in): tries a non-blocking exclusive flock.
//   - UnsupportedProbe: reports StatusUnsupported without touching the filesystem.
//
// The outcome is a point-in-time read. The file's state may change the instant
// after Probe returns.
package probe

import (
	"fmt"

	"github.com/mrz1836/opened/internal/constants"
	openederrors "github.com/mrz1836/opened/internal/errors"
)

// Status classifies the result of one probe.
type Status int

const (
	// StatusAvailable means the file opened exclusively and was released again.
	StatusAvailable Status = iota
	// StatusLocked means another process holds an incompatible handle or lock.
	StatusLocked
	// StatusError means the open failed for some other reason; see Outcome.Code.
	StatusError
	// StatusUnsupported means the platform cannot perform the check.
	StatusUnsupported
)

// String returns the lowercase name used in logs and structured output.
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusLocked:
		return "locked"
	case StatusError:
		return "error"
	case StatusUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText renders the status by name for JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is the immutable result of a single probe.
type Outcome struct {
	// Status is the classified result.
	Status Status `json:"status" yaml:"status"`
	// Code is the raw platform code: 0 when available, the sharing or lock
	// violation code when locked, the failing code on error, and
	// constants.CodeUnsupported when unsupported.
	Code int `json:"code" yaml:"code"`
	// Err describes StatusError and StatusUnsupported outcomes. It wraps a
	// sentinel from internal/errors and is nil otherwise.
	Err error `json:"-" yaml:"-"`
}

// Available returns the outcome for a file nobody else holds.
func Available() Outcome {
	return Outcome{Status: StatusAvailable, Code: constants.CodeAvailable}
}

// Locked returns the outcome for a recognized sharing or lock violation.
func Locked(code int) Outcome {
	return Outcome{Status: StatusLocked, Code: code}
}

// PlatformError returns the outcome for any other failed open. The error wraps
// ErrFileNotFound for not-found codes and ErrPlatform otherwise, plus cause.
func PlatformError(code int, cause error) Outcome {
	sentinel := openederrors.ErrPlatform
	if IsNotFound(code) {
		sentinel = openederrors.ErrFileNotFound
	}
	return platformError(code, CodeName(code), sentinel, cause)
}

// EncodingError returns the outcome for a path that could not be converted to
// the platform's native encoding.
func EncodingError(code int, cause error) Outcome {
	return platformError(code, CodeName(code), openederrors.ErrEncoding, cause)
}

// DispatchFailed returns the synthetic outcome delivered when a worker could
// not run the probe. cause should wrap one of the scheduling sentinels.
func DispatchFailed(cause error) Outcome {
	return Outcome{
		Status: StatusError,
		Code:   constants.CodeDispatchFailed,
		Err:    cause,
	}
}

// Unsupported returns the outcome for platforms without a usable primitive.
func Unsupported() Outcome {
	return Outcome{
		Status: StatusUnsupported,
		Code:   constants.CodeUnsupported,
		Err:    openederrors.ErrUnsupportedPlatform,
	}
}

func platformError(code int, name string, sentinel, cause error) Outcome {
	err := fmt.Errorf("%w: %s (code %d)", sentinel, name, code)
	if cause != nil {
		err = fmt.Errorf("%w: %w", err, cause)
	}
	return Outcome{Status: StatusError, Code: code, Err: err}
}

// ResultCode marshals the outcome into the single integer the raw-code callback
// convention expects: 0 for available, non-zero platform code otherwise, and the
// negative sentinels for unsupported and dispatch failures.
func (o Outcome) ResultCode() int {
	switch o.Status {
	case StatusAvailable:
		return constants.CodeAvailable
	case StatusUnsupported:
		return constants.CodeUnsupported
	default:
		return o.Code
	}
}

// IsAvailable reports whether the file was free at probe time.
func (o Outcome) IsAvailable() bool { return o.Status == StatusAvailable }

// IsLocked reports whether another process held the file at probe time.
func (o Outcome) IsLocked() bool { return o.Status == StatusLocked }

// String formats the outcome for logs.
func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s (code %d): %v", o.Status, o.Code, o.Err)
	}
	return fmt.Sprintf("%s (code %d)", o.Status, o.Code)
}
