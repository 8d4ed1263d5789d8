package opened

import (
	"errors"
	"fmt"

	openederrors "github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/logging"
)

// CodeError reports a probe that failed with a platform code.
// It unwraps to the outcome's error, so errors.Is matches ErrFileNotFound,
// ErrPlatform, ErrEncoding or ErrDispatchFailed as appropriate.
type CodeError struct {
	// Code is the raw platform code.
	Code int
	// Name is the symbolic name, e.g. "ENOENT".
	Name string
	// Path is the path that was checked.
	Path string
	// Err is the underlying outcome error.
	Err error
}

// Error implements the error interface.
func (e *CodeError) Error() string {
	return fmt.Sprintf("%s: code %d, opened(%s)", e.Name, e.Code, logging.SafePath(e.Path))
}

// Unwrap returns the underlying error.
func (e *CodeError) Unwrap() error {
	if e.Err == nil {
		return openederrors.ErrPlatform
	}
	return e.Err
}

// AsCodeError extracts a *CodeError from err's chain.
func AsCodeError(err error) (*CodeError, bool) {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
