package task

import (
	"github.com/rs/zerolog"

	"github.com/mrz1836/opened/internal/clock"
	"github.com/mrz1836/opened/internal/constants"
)

// Spawner starts fn on a worker context distinct from the caller's.
// It returns an error when no worker can be started; the scheduler then
// delivers a dispatch-failure outcome instead.
type Spawner func(fn func()) error

// goSpawner runs each worker on its own goroutine.
func goSpawner(fn func()) error {
	go fn()
	return nil
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithConcurrency bounds how many probes run at once. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger used for request lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger.With().Str("component", "scheduler").Logger()
	}
}

// WithSpawner replaces the goroutine spawner. Mainly useful in tests.
func WithSpawner(spawn Spawner) Option {
	return func(s *Scheduler) {
		if spawn != nil {
			s.spawn = spawn
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Scheduler) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock sets the time source for probe durations.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

func defaultOptions(s *Scheduler) {
	s.concurrency = constants.DefaultConcurrency
	s.logger = zerolog.Nop()
	s.spawn = goSpawner
	s.metrics = NoopMetrics{}
	s.clock = clock.RealClock{}
}
