package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// FilteringWriter wraps an io.Writer and escapes terminal control characters
// before they reach the underlying sink. Line breaks between log entries are
// preserved.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps the given writer.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success so callers never
// see a short write when escaping grows the output.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	filtered := SanitizeTerminal(string(p))
	if _, err := io.WriteString(fw.w, filtered); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ControlCharHook flags log events whose message contains control characters.
// zerolog hooks cannot rewrite the message, so call sites still pass paths
// through SafePath; the flag makes missed call sites easy to find.
type ControlCharHook struct{}

// NewControlCharHook creates a ControlCharHook.
func NewControlCharHook() *ControlCharHook {
	return &ControlCharHook{}
}

// Run implements zerolog.Hook.
func (h *ControlCharHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsControl(msg) {
		e.Bool("contains_control_chars", true)
	}
}
