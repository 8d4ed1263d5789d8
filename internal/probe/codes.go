package probe

import "github.com/mrz1836/opened/internal/constants"

// codeNames maps the Windows system error codes a probe commonly returns to
// the POSIX-style names callers already know how to handle.
//
//nolint:gochecknoglobals // Static lookup table
var codeNames = map[int]string{
	constants.ErrorInvalidFunction:      "EISDIR",
	constants.ErrorFileNotFound:         "ENOENT",
	constants.ErrorPathNotFound:         "ENOENT",
	constants.ErrorTooManyOpenFiles:     "EMFILE",
	constants.ErrorAccessDenied:         "EPERM",
	constants.ErrorInvalidHandle:        "EBADF",
	constants.ErrorNotEnoughMemory:      "ENOMEM",
	constants.ErrorOutOfMemory:          "ENOMEM",
	constants.ErrorInvalidDrive:         "ENOENT",
	constants.ErrorSharingViolation:     "ERROR_SHARING_VIOLATION",
	constants.ErrorLockViolation:        "ERROR_LOCK_VIOLATION",
	constants.ErrorInvalidName:          "EINVAL",
	constants.ErrorNoUnicodeTranslation: "EILSEQ",
	constants.CodeAvailable:             "OK",
	constants.CodeUnsupported:           "ENOTSUP",
	constants.CodeDispatchFailed:        "EDISPATCH",
}

// CodeName returns the symbolic name for a probe result code.
// Unknown codes map to ENOSYS.
func CodeName(code int) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	return "ENOSYS"
}

// IsNotFound reports whether code means the path does not exist.
func IsNotFound(code int) bool {
	return CodeName(code) == "ENOENT"
}

// IsSharingViolation reports whether code means another process holds the file.
func IsSharingViolation(code int) bool {
	return code == constants.ErrorSharingViolation || code == constants.ErrorLockViolation
}
