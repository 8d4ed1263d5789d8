package constants

// CheckMethod selects how the caller-facing checker answers "is this file open?".
type CheckMethod string

const (
	// MethodAuto uses the native probe on Windows and lsof elsewhere when installed.
	MethodAuto CheckMethod = "auto"

	// MethodProbe always uses the platform lock probe.
	MethodProbe CheckMethod = "probe"

	// MethodLsof always uses lsof. Only meaningful on Unix.
	MethodLsof CheckMethod = "lsof"
)

// String returns the string representation of the method.
func (m CheckMethod) String() string {
	return string(m)
}

// ValidCheckMethods returns all accepted method values.
func ValidCheckMethods() []CheckMethod {
	return []CheckMethod{MethodAuto, MethodProbe, MethodLsof}
}

// IsValid reports whether m is one of the accepted method values.
func (m CheckMethod) IsValid() bool {
	for _, valid := range ValidCheckMethods() {
		if m == valid {
			return true
		}
	}
	return false
}

// FileState is the per-path verdict shown by the check command.
type FileState string

const (
	// StateOpen means another process holds the file.
	StateOpen FileState = "open"

	// StateFree means no other process holds the file.
	StateFree FileState = "free"

	// StateUnknown means the platform could not answer.
	StateUnknown FileState = "unknown"

	// StateError means the check failed for this path.
	StateError FileState = "error"
)

// String returns the string representation of the state.
func (s FileState) String() string {
	return string(s)
}
