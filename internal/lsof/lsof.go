// Package lsof reports which files are held open by any process, using the
// lsof utility. It is the Unix counterpart to the exclusive-open probe, which
// has no mandatory-lock primitive to test against on those platforms.
package lsof

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/opened/internal/constants"
	openederrors "github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/logging"
)

// notFoundPattern matches lsof's complaint about a missing path.
var notFoundPattern = regexp.MustCompile(`(?i)no such file or directory`) //nolint:gochecknoglobals // Compiled once

// Result is the raw outcome of one lsof invocation.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes name with args and collects its output. A non-zero exit
// status is reported through Result.ExitCode, not err; err is reserved for
// failures to start or finish the process.
type Runner func(ctx context.Context, name string, args ...string) (Result, error)

// Inspector runs lsof in batches. It is safe for concurrent use.
type Inspector struct {
	binary    string
	batchSize int
	timeout   time.Duration
	run       Runner
	lookPath  func(string) (string, error)
	logger    zerolog.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithBatchSize sets how many paths go into one lsof invocation.
// Values outside 1..MaxLsofBatchSize are ignored.
func WithBatchSize(n int) Option {
	return func(i *Inspector) {
		if n >= 1 && n <= constants.MaxLsofBatchSize {
			i.batchSize = n
		}
	}
}

// WithTimeout bounds each lsof invocation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(i *Inspector) {
		if d >= 0 {
			i.timeout = d
		}
	}
}

// WithRunner replaces process execution. Mainly useful in tests.
func WithRunner(r Runner) Option {
	return func(i *Inspector) {
		if r != nil {
			i.run = r
		}
	}
}

// WithLookPath replaces the PATH lookup used by Available.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(i *Inspector) {
		if fn != nil {
			i.lookPath = fn
		}
	}
}

// WithLogger sets the logger for batch events.
func WithLogger(logger zerolog.Logger) Option {
	return func(i *Inspector) {
		i.logger = logger.With().Str("component", "lsof").Logger()
	}
}

// New creates an Inspector with the default batch size and timeout.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		binary:    constants.LsofBinary,
		batchSize: constants.DefaultLsofBatchSize,
		timeout:   constants.DefaultLsofTimeout,
		run:       RunCommand,
		lookPath:  exec.LookPath,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Available reports whether the lsof binary can be found on PATH.
func (i *Inspector) Available() bool {
	_, err := i.lookPath(i.binary)
	return err == nil
}

// Open reports, for every path in paths, whether some process holds it open.
// Duplicate paths are checked once. Batches run one after another, since lsof
// takes roughly constant time per call regardless of how many paths it gets.
// The first failing batch aborts the check.
func (i *Inspector) Open(ctx context.Context, paths []string) (map[string]bool, error) {
	files := make(map[string]bool, len(paths))
	batch := make([]string, 0, i.batchSize)

	for _, path := range paths {
		if _, seen := files[path]; seen {
			continue
		}
		files[path] = false
		batch = append(batch, path)
		if len(batch) == i.batchSize {
			if err := i.inspect(ctx, batch, files); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := i.inspect(ctx, batch, files); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// inspect runs one lsof batch and marks every reported path in files.
func (i *Inspector) inspect(ctx context.Context, batch []string, files map[string]bool) error {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	// "--" ends option parsing so a path starting with "-" is never read as a flag.
	args := append([]string{"-F", "n", "--"}, batch...)
	start := time.Now()
	res, err := i.run(ctx, i.binary, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return openederrors.Wrap(openederrors.ErrLsofNotInstalled, i.binary)
		}
		if ctx.Err() != nil {
			return openederrors.Wrap(ctx.Err(), "lsof")
		}
		return fmt.Errorf("%w: %w", openederrors.ErrLsofFailed, err)
	}

	i.logger.Debug().
		Int("paths", len(batch)).
		Int("exit_code", res.ExitCode).
		Dur("elapsed", time.Since(start)).
		Msg("lsof batch finished")

	if err := classify(res); err != nil {
		return err
	}

	for _, name := range parse(res.Stdout) {
		if _, ok := files[name]; ok {
			files[name] = true
		}
	}
	return nil
}

// classify turns a non-zero exit into an error. lsof exits 1 with nothing on
// stderr when none of the named files is open, which is not a failure.
func classify(res Result) error {
	if res.ExitCode == 0 {
		return nil
	}
	stderr := strings.TrimSpace(string(res.Stderr))
	if res.ExitCode == 1 && stderr == "" {
		return nil
	}
	if notFoundPattern.MatchString(stderr) {
		return fmt.Errorf("%w: %s", openederrors.ErrFileNotFound, logging.SafePath(stderr))
	}
	return fmt.Errorf("%w: exit status %d: %s", openederrors.ErrLsofFailed, res.ExitCode, logging.SafePath(stderr))
}

// parse returns the unescaped names from lsof's "n" field lines.
func parse(stdout []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), constants.LsofMaxOutputBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "n") {
			continue
		}
		names = append(names, Unescape(line[1:]))
	}
	return names
}

// Unescape reverses lsof's escaping of special characters in file names:
// \b \f \t \n \r become their control characters and any other escaped byte,
// including a backslash, stands for itself. A trailing lone backslash is kept.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for idx := 0; idx < len(s); idx++ {
		c := s[idx]
		if c != '\\' || idx+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		idx++
		b.WriteByte(unescapeByte(s[idx]))
	}
	return b.String()
}

func unescapeByte(c byte) byte {
	switch c {
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 't':
		return '\t'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	default:
		return c
	}
}
