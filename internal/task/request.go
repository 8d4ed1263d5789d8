package task

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrz1836/opened/internal/constants"
	"github.com/mrz1836/opened/internal/probe"
)

// Callback receives the outcome of one scheduled probe.
type Callback func(probe.Outcome)

// CodeCallback receives the outcome marshaled into a single integer:
// 0 available, a platform code otherwise, or a negative sentinel.
type CodeCallback func(code int)

// request is one in-flight check. It owns its copy of the path.
type request struct {
	id      string
	path    string
	done    Callback
	created time.Time
	outcome probe.Outcome
	once    sync.Once
}

func newRequest(path []byte, done Callback, created time.Time) *request {
	return &request{
		id:      newRequestID(),
		path:    string(path), // copies; the caller may reuse its buffer immediately
		done:    done,
		created: created,
	}
}

// newRequestID returns a short correlation ID such as "req-1a2b3c4d".
func newRequestID() string {
	return constants.RequestIDPrefix + uuid.New().String()[:8]
}

// finish invokes the callback at most once and reports whether it did.
func (r *request) finish() bool {
	fired := false
	r.once.Do(func() {
		fired = true
		r.done(r.outcome)
	})
	return fired
}
