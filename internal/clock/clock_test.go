package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	t.Parallel()

	before := time.Now()
	got := RealClock{}.Now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestManual(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := NewManual(start)
	assert.Equal(t, start, m.Now())

	m.Advance(1500 * time.Millisecond)
	assert.Equal(t, start.Add(1500*time.Millisecond), m.Now())
}

func TestManual_ConcurrentAdvance(t *testing.T) {
	t.Parallel()

	m := NewManual(time.Time{})
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Advance(time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, time.Time{}.Add(50*time.Millisecond), m.Now())
}
