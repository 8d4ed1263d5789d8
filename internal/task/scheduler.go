package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/mrz1836/opened/internal/clock"
	openederrors "github.com/mrz1836/opened/internal/errors"
	"github.com/mrz1836/opened/internal/logging"
	"github.com/mrz1836/opened/internal/probe"
)

// Scheduler runs probes on a bounded pool of worker goroutines and hands each
// outcome to its callback exactly once.
//
// Callbacks run one at a time on a single delivery goroutine, so they never
// race each other. They must not call Close.
type Scheduler struct {
	prober      probe.Prober
	concurrency int
	spawn       Spawner
	logger      zerolog.Logger
	metrics     Metrics
	clock       clock.Clock

	sem *semaphore.Weighted

	// workCtx is canceled only when Close gives up waiting; queued requests
	// then fail their semaphore acquire and are delivered as dispatch failures.
	workCtx    context.Context //nolint:containedctx // scheduler owns the worker lifecycle
	cancelWork context.CancelFunc

	results  chan *request
	loopDone chan struct{}

	// invokeMu serializes callbacks, including those delivered after Close
	// outside the loop.
	invokeMu sync.Mutex

	mu        sync.Mutex
	closed    bool
	inflight  sync.WaitGroup
	closeOnce sync.Once
}

// NewScheduler creates a scheduler for prober and starts its delivery loop.
func NewScheduler(prober probe.Prober, opts ...Option) *Scheduler {
	s := &Scheduler{prober: prober}
	defaultOptions(s)
	for _, opt := range opts {
		opt(s)
	}

	s.sem = semaphore.NewWeighted(int64(s.concurrency))
	s.workCtx, s.cancelWork = context.WithCancel(context.Background())
	s.results = make(chan *request, s.concurrency)
	s.loopDone = make(chan struct{})

	go s.loop()
	return s
}

// Prober returns the probe variant the scheduler runs.
func (s *Scheduler) Prober() probe.Prober {
	return s.prober
}

// Schedule queues one probe of path and returns immediately.
//
// It fails synchronously with ErrInvalidArgument, scheduling nothing, when
// path is nil or done is nil. Every other failure, including an inability to
// start a worker, is delivered through done. The path bytes are copied, so the
// caller may reuse the slice as soon as Schedule returns.
func (s *Scheduler) Schedule(path []byte, done Callback) error {
	if path == nil {
		return fmt.Errorf("%w: path must be a byte slice", openederrors.ErrInvalidArgument)
	}
	if done == nil {
		return fmt.Errorf("%w: callback must be a function", openederrors.ErrInvalidArgument)
	}

	req := newRequest(path, done, s.clock.Now())
	log := s.logger.With().Str("request_id", req.id).Logger()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		log.Debug().Msg("schedule after close")
		s.metrics.DispatchFailed(req.id, openederrors.ErrSchedulerClosed)
		req.outcome = probe.DispatchFailed(openederrors.ErrSchedulerClosed)
		// The delivery loop may already be gone; deliver off the caller's
		// goroutine, still one callback at a time.
		go s.invoke(req)
		return nil
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	s.metrics.ProbeScheduled(req.id)
	log.Debug().Str("path", logging.SafePath(req.path)).Msg("probe scheduled")

	if err := s.spawn(func() { s.run(req) }); err != nil {
		log.Warn().Err(err).Msg("worker spawn failed")
		s.metrics.DispatchFailed(req.id, err)
		cause := fmt.Errorf("%w: %w", openederrors.ErrDispatchFailed, err)
		go s.deliver(req, probe.DispatchFailed(cause))
	}
	return nil
}

// ScheduleCode is Schedule for callers that want the raw integer result:
// 0 when available, the platform code otherwise, constants.CodeUnsupported on
// platforms without a primitive, and constants.CodeDispatchFailed when no
// worker could run the probe.
func (s *Scheduler) ScheduleCode(path []byte, done CodeCallback) error {
	if done == nil {
		return fmt.Errorf("%w: callback must be a function", openederrors.ErrInvalidArgument)
	}
	return s.Schedule(path, func(o probe.Outcome) {
		done(o.ResultCode())
	})
}

// run executes on a worker goroutine.
func (s *Scheduler) run(req *request) {
	s.deliver(req, s.execute(req))
}

// execute runs the probe inside a semaphore slot. A panicking probe becomes a
// dispatch-failure outcome rather than crashing the process.
func (s *Scheduler) execute(req *request) (outcome probe.Outcome) {
	if err := s.sem.Acquire(s.workCtx, 1); err != nil {
		s.metrics.DispatchFailed(req.id, err)
		return probe.DispatchFailed(fmt.Errorf("%w: %w", openederrors.ErrDispatchFailed, err))
	}
	defer s.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("request_id", req.id).
				Interface("panic", r).
				Msg("probe panicked")
			s.metrics.DispatchFailed(req.id, openederrors.ErrProbePanicked)
			outcome = probe.DispatchFailed(fmt.Errorf("%w: %v", openederrors.ErrProbePanicked, r))
		}
	}()

	return s.prober.Probe(req.path)
}

// deliver hands a finished request to the delivery loop.
func (s *Scheduler) deliver(req *request, outcome probe.Outcome) {
	req.outcome = outcome
	s.results <- req
}

// loop invokes callbacks one at a time until Close drains the queue.
func (s *Scheduler) loop() {
	defer close(s.loopDone)
	for req := range s.results {
		s.invoke(req)
		s.inflight.Done()
	}
}

// invoke runs the callback, keeping the delivery loop alive if it panics.
// Only one invoke runs at a time.
func (s *Scheduler) invoke(req *request) {
	s.invokeMu.Lock()
	defer s.invokeMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("request_id", req.id).
				Interface("panic", r).
				Msg("callback panicked")
		}
	}()

	elapsed := s.clock.Now().Sub(req.created)
	if req.finish() {
		s.metrics.ProbeCompleted(req.id, elapsed, req.outcome.Status)
		s.logger.Debug().
			Str("request_id", req.id).
			Stringer("status", req.outcome.Status).
			Int("code", req.outcome.Code).
			Dur("elapsed", elapsed).
			Msg("probe delivered")
	}
}

// Close stops accepting work, waits for in-flight probes to deliver, and stops
// the delivery loop. If ctx expires first, queued probes that have not started
// are failed with ErrDispatchFailed; their callbacks still run. Close is
// idempotent.
func (s *Scheduler) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		go func() {
			s.inflight.Wait()
			close(s.results)
		}()
	})

	select {
	case <-s.loopDone:
		s.cancelWork()
		return nil
	case <-ctx.Done():
		s.cancelWork()
		return openederrors.Wrap(ctx.Err(), "scheduler close")
	}
}
