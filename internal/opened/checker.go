// Package opened answers "is this file held open by another process?" for
// whole lists of paths, on top of the asynchronous lock probe.
//
// A Checker validates paths, removes duplicates, fans the work out with
// bounded concurrency and turns probe outcomes into (bool, error) answers.
// On Unix it can ask lsof instead, since the probe there has no mandatory
// lock to test.
package opened

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/opened/internal/constants"
	openederrors "github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/logging"
	"github.com/mrz1836/opened/internal/probe"
	"github.com/mrz1836/opened/internal/task"
)

// Scheduler queues probes without blocking. *task.Scheduler implements it.
type Scheduler interface {
	Schedule(path []byte, done task.Callback) error
	Prober() probe.Prober
}

// Lister reports which of a set of paths are open. *lsof.Inspector implements it.
type Lister interface {
	Open(ctx context.Context, paths []string) (map[string]bool, error)
	Available() bool
}

// Checker is safe for concurrent use.
type Checker struct {
	scheduler   Scheduler
	lister      Lister
	method      constants.CheckMethod
	concurrency int
	platform    platform
	logger      zerolog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLister enables the lsof method.
func WithLister(l Lister) Option {
	return func(c *Checker) {
		c.lister = l
	}
}

// WithMethod selects how paths are checked. Invalid methods are ignored.
func WithMethod(m constants.CheckMethod) Option {
	return func(c *Checker) {
		if m.IsValid() {
			c.method = m
		}
	}
}

// WithConcurrency bounds how many paths Files checks at once.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n >= 1 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger.With().Str("component", "checker").Logger()
	}
}

// withGOOS overrides the path rules, so both rule sets can be tested anywhere.
func withGOOS(goos string) Option {
	return func(c *Checker) {
		c.platform = platformFor(goos)
	}
}

// New creates a Checker that probes through scheduler.
func New(scheduler Scheduler, opts ...Option) *Checker {
	c := &Checker{
		scheduler:   scheduler,
		method:      constants.MethodAuto,
		concurrency: constants.DefaultConcurrency,
		platform:    platformFor(runtime.GOOS),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidatePath reports whether path is acceptable as the idx-th argument.
// Callers that rewrite paths, for example to make them absolute, should
// validate the original first: filepath.Abs turns '/' into '\' on Windows.
func (c *Checker) ValidatePath(idx int, path string) error {
	return c.platform.validate(pathLabel(idx), path)
}

// Method resolves MethodAuto to the method that will actually run: the probe
// on Windows, lsof elsewhere when it is installed, and the probe otherwise.
func (c *Checker) Method() constants.CheckMethod {
	if c.method != constants.MethodAuto {
		return c.method
	}
	if !c.platform.windows && c.lister != nil && c.lister.Available() {
		return constants.MethodLsof
	}
	return constants.MethodProbe
}

// File reports whether path is held open by another process.
//
// A nonexistent path is an error wrapping ErrFileNotFound, never false.
// On platforms without a probe primitive the error wraps ErrUnsupportedPlatform.
func (c *Checker) File(ctx context.Context, path string) (bool, error) {
	if err := c.platform.validate("path", path); err != nil {
		return false, err
	}

	if c.Method() == constants.MethodLsof {
		files, err := c.listOpen(ctx, []string{path})
		if err != nil {
			return false, err
		}
		return files[path], nil
	}
	return c.probe(ctx, path)
}

// Files reports, for each path, whether it is held open. Every input path is
// a key of the result. Duplicates are probed once. The first error aborts the
// check and is returned with a nil map.
func (c *Checker) Files(ctx context.Context, paths []string) (map[string]bool, error) {
	if paths == nil {
		return nil, openederrors.Wrap(openederrors.ErrInvalidArgument, "paths must be a list")
	}
	for idx, path := range paths {
		if err := c.platform.validate(pathLabel(idx), path); err != nil {
			return nil, err
		}
	}

	if c.Method() == constants.MethodLsof {
		return c.listOpen(ctx, paths)
	}
	return c.probeAll(ctx, paths)
}

func (c *Checker) listOpen(ctx context.Context, paths []string) (map[string]bool, error) {
	if c.lister == nil {
		return nil, openederrors.Wrap(openederrors.ErrLsofNotInstalled, "lsof method")
	}
	return c.lister.Open(ctx, paths)
}

// probeAll fans unique paths out over an errgroup bounded by concurrency.
func (c *Checker) probeAll(ctx context.Context, paths []string) (map[string]bool, error) {
	unique := make(map[string]string, len(paths))
	order := make([]string, 0, len(paths))
	for _, path := range paths {
		key := c.platform.key(path)
		if _, seen := unique[key]; seen {
			continue
		}
		unique[key] = path
		order = append(order, key)
	}

	var mu sync.Mutex
	byKey := make(map[string]bool, len(order))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, key := range order {
		path := unique[key]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			open, err := c.probe(gctx, path)
			if err != nil {
				return err
			}
			mu.Lock()
			byKey[key] = open
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make(map[string]bool, len(paths))
	for _, path := range paths {
		files[path] = byKey[c.platform.key(path)]
	}
	return files, nil
}

// probe schedules one probe and waits for its outcome or ctx.
func (c *Checker) probe(ctx context.Context, path string) (bool, error) {
	results := make(chan probe.Outcome, 1)
	if err := c.scheduler.Schedule(c.platform.native(path), func(o probe.Outcome) {
		results <- o
	}); err != nil {
		return false, err
	}

	select {
	case o := <-results:
		c.logger.Debug().
			Str("path", logging.SafePath(path)).
			Stringer("status", o.Status).
			Int("code", o.Code).
			Msg("probe outcome")
		return c.interpret(path, o)
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// interpret maps a probe outcome onto the (open, error) answer.
func (c *Checker) interpret(path string, o probe.Outcome) (bool, error) {
	switch o.Status {
	case probe.StatusLocked:
		return true, nil
	case probe.StatusAvailable:
		return false, nil
	case probe.StatusUnsupported:
		return false, openederrors.Wrap(openederrors.ErrUnsupportedPlatform, "opened("+logging.SafePath(path)+")")
	default:
		return false, &CodeError{
			Code: o.Code,
			Name: probe.NameFor(c.scheduler.Prober(), o.Code),
			Path: path,
			Err:  o.Err,
		}
	}
}
