package probe

import (
	"strings"
	"sync"
)

// Prober performs a single synchronous lock probe.
// Implementations must release every handle they acquire before returning.
type Prober interface {
	// Probe checks path once and reports the outcome. It never creates the file.
	Probe(path string) Outcome
	// Name identifies the variant in logs and output.
	Name() string
}

// CodeNamer is implemented by variants whose result codes are not Windows
// system error codes.
type CodeNamer interface {
	CodeName(code int) string
}

// NameFor returns the symbolic name of a code produced by p.
func NameFor(p Prober, code int) string {
	if namer, ok := p.(CodeNamer); ok {
		return namer.CodeName(code)
	}
	return CodeName(code)
}

// Options controls variant selection.
type Options struct {
	// Advisory enables the flock-based probe on Unix. Without it Unix
	// platforms report StatusUnsupported, since they have no mandatory
	// exclusive-open primitive.
	Advisory bool
}

// New returns the probe variant for the running platform.
// Call it once at startup and reuse the result.
func New(opts Options) Prober {
	return newPlatformProber(opts)
}

//nolint:gochecknoglobals // Process-wide variant selected once
var defaultProber = sync.OnceValue(func() Prober {
	return New(Options{})
})

// Default returns the process-wide prober chosen with default options.
func Default() Prober {
	return defaultProber()
}

// UnsupportedProbe is used on platforms without an exclusive-open primitive.
// It never touches the filesystem.
type UnsupportedProbe struct{}

// Name implements Prober.
func (UnsupportedProbe) Name() string { return "unsupported" }

// Probe implements Prober and always returns Unsupported.
func (UnsupportedProbe) Probe(_ string) Outcome {
	return Unsupported()
}

// trimTerminator drops a single trailing NUL so C-style buffers passed by
// callers behave like plain paths. Interior NULs are left for the variant to reject.
func trimTerminator(path string) string {
	return strings.TrimSuffix(path, "\x00")
}
