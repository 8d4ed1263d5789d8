// Package task runs lock probes off the caller's goroutine and delivers each
// outcome back exactly once.
package task

import (
	"sync/atomic"
	"time"

	"github.com/mrz1836/opened/internal/probe"
)

// Metrics collects metrics about scheduled probes.
// Implementations can forward these to any monitoring backend.
type Metrics interface {
	// ProbeScheduled is called when Schedule accepts a request.
	ProbeScheduled(requestID string)

	// ProbeCompleted is called after the outcome is delivered to the callback.
	ProbeCompleted(requestID string, duration time.Duration, status probe.Status)

	// DispatchFailed is called when a request could not be run by a worker.
	DispatchFailed(requestID string, err error)
}

// NoopMetrics is a no-op implementation of Metrics for default behavior.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Metrics interface.
var _ Metrics = (*NoopMetrics)(nil)

// ProbeScheduled implements Metrics.
func (NoopMetrics) ProbeScheduled(string) {}

// ProbeCompleted implements Metrics.
func (NoopMetrics) ProbeCompleted(string, time.Duration, probe.Status) {}

// DispatchFailed implements Metrics.
func (NoopMetrics) DispatchFailed(string, error) {}

// CountingMetrics tallies probe activity. It is safe for concurrent use.
type CountingMetrics struct {
	scheduled  atomic.Int64
	completed  atomic.Int64
	dispatch   atomic.Int64
	byStatus   [4]atomic.Int64
	totalNanos atomic.Int64
}

// Ensure CountingMetrics implements Metrics interface.
var _ Metrics = (*CountingMetrics)(nil)

// ProbeScheduled implements Metrics.
func (m *CountingMetrics) ProbeScheduled(string) {
	m.scheduled.Add(1)
}

// ProbeCompleted implements Metrics.
func (m *CountingMetrics) ProbeCompleted(_ string, d time.Duration, status probe.Status) {
	m.completed.Add(1)
	m.totalNanos.Add(int64(d))
	if int(status) >= 0 && int(status) < len(m.byStatus) {
		m.byStatus[status].Add(1)
	}
}

// DispatchFailed implements Metrics.
func (m *CountingMetrics) DispatchFailed(string, error) {
	m.dispatch.Add(1)
}

// Snapshot is a point-in-time copy of CountingMetrics.
type Snapshot struct {
	Scheduled      int64         `json:"scheduled" yaml:"scheduled"`
	Completed      int64         `json:"completed" yaml:"completed"`
	DispatchFailed int64         `json:"dispatch_failed" yaml:"dispatch_failed"`
	Available      int64         `json:"available" yaml:"available"`
	Locked         int64         `json:"locked" yaml:"locked"`
	Errors         int64         `json:"errors" yaml:"errors"`
	Unsupported    int64         `json:"unsupported" yaml:"unsupported"`
	TotalDuration  time.Duration `json:"total_duration_ns" yaml:"total_duration"`
}

// Snapshot returns the current counts.
func (m *CountingMetrics) Snapshot() Snapshot {
	return Snapshot{
		Scheduled:      m.scheduled.Load(),
		Completed:      m.completed.Load(),
		DispatchFailed: m.dispatch.Load(),
		Available:      m.byStatus[probe.StatusAvailable].Load(),
		Locked:         m.byStatus[probe.StatusLocked].Load(),
		Errors:         m.byStatus[probe.StatusError].Load(),
		Unsupported:    m.byStatus[probe.StatusUnsupported].Load(),
		TotalDuration:  time.Duration(m.totalNanos.Load()),
	}
}
