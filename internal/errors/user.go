package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice rather than a map because errors.Is() needs chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Probe outcomes
	// ===================
	{
		err: ErrUnsupportedPlatform,
		info: ErrorInfo{
			Message: "This platform cannot detect exclusive file holds. The result is inconclusive.",
			Action:  "Use --method lsof on Unix, or enable probe.advisory to check flock holders.",
		},
	},
	{
		err: ErrFileNotFound,
		info: ErrorInfo{
			Message: "The file does not exist.",
			Action:  "Check the path. Nonexistent files are never reported as available.",
		},
	},
	{
		err: ErrEncoding,
		info: ErrorInfo{
			Message: "The path could not be converted to the platform encoding.",
			Action:  "Ensure the path is valid UTF-8 without NUL bytes.",
		},
	},
	{
		err: ErrPlatform,
		info: ErrorInfo{
			Message: "The operating system refused to open the file.",
			Action:  "Run 'opened code <code>' to see what the platform error means.",
		},
	},
	{
		err: ErrCheckIncomplete,
		info: ErrorInfo{
			Message: "Some paths could not be checked.",
			Action:  "See the STATE and DETAIL columns above for each path.",
		},
	},
	{
		err: ErrFilesLocked,
		info: ErrorInfo{
			Message: "One or more files are held open by another process.",
			Action:  "Close the program holding the file and check again.",
		},
	},

	// ===================
	// Scheduling
	// ===================
	{
		err: ErrDispatchFailed,
		info: ErrorInfo{
			Message: "The check could not be started.",
			Action:  "Retry the check. If it persists, lower probe.concurrency.",
		},
	},
	{
		err: ErrSchedulerClosed,
		info: ErrorInfo{
			Message: "The check was submitted after shutdown began.",
			Action:  "",
		},
	},
	{
		err: ErrProbePanicked,
		info: ErrorInfo{
			Message: "The check crashed unexpectedly.",
			Action:  "Re-run with --verbose and report the logged stack.",
		},
	},

	// ===================
	// lsof
	// ===================
	{
		err: ErrLsofNotInstalled,
		info: ErrorInfo{
			Message: "lsof is not installed.",
			Action:  "Install lsof with your package manager or use --method probe.",
		},
	},
	{
		err: ErrLsofFailed,
		info: ErrorInfo{
			Message: "lsof failed to inspect open files.",
			Action:  "Re-run with --verbose to see lsof's stderr.",
		},
	},

	// ===================
	// Input & configuration
	// ===================
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
	{
		err: ErrInvalidPath,
		info: ErrorInfo{
			Message: "The path is not valid for this platform.",
			Action:  "Paths must be non-empty, contain no NUL bytes, and use the native separator.",
		},
	},
	{
		err: ErrInvalidCode,
		info: ErrorInfo{
			Message: "The error code must be an integer.",
			Action:  "Pass the numeric code reported by 'opened check'.",
		},
	},
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure the config file exists and is valid YAML.",
		},
	},
	{
		err: ErrInvalidMethod,
		info: ErrorInfo{
			Message: "Unknown check method.",
			Action:  "Use one of: auto, probe, lsof.",
		},
	},
	{
		err: ErrValueOutOfRange,
		info: ErrorInfo{
			Message: "Value is outside the allowed range.",
			Action:  "Run 'opened config show' to see the effective values.",
		},
	},
	{
		err: ErrInvalidDuration,
		info: ErrorInfo{
			Message: "Invalid duration format.",
			Action:  "Use formats like '30s', '5m', '1h' for durations.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use one of: text, json, yaml.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It tries a direct map lookup first, then errors.Is() for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that have no clear action, the action string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
