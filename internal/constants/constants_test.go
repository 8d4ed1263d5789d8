package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSentinelCodes(t *testing.T) {
	t.Run("available is zero", func(t *testing.T) {
		assert.Equal(t, 0, CodeAvailable)
	})

	t.Run("sentinels are negative and distinct", func(t *testing.T) {
		assert.Negative(t, CodeUnsupported)
		assert.Negative(t, CodeDispatchFailed)
		assert.NotEqual(t, CodeUnsupported, CodeDispatchFailed)
	})
}

func TestWindowsErrorCodes(t *testing.T) {
	assert.Equal(t, 32, ErrorSharingViolation)
	assert.Equal(t, 33, ErrorLockViolation)
	assert.Equal(t, 2, ErrorFileNotFound)
	assert.Equal(t, 1113, ErrorNoUnicodeTranslation)
}

func TestSchedulerDefaults(t *testing.T) {
	t.Run("DefaultConcurrency within bounds", func(t *testing.T) {
		assert.Equal(t, 4, DefaultConcurrency)
		assert.LessOrEqual(t, DefaultConcurrency, MaxConcurrency)
	})

	t.Run("DefaultCloseTimeout is reasonable", func(t *testing.T) {
		assert.GreaterOrEqual(t, DefaultCloseTimeout, time.Second)
	})
}

func TestLsofDefaults(t *testing.T) {
	assert.Equal(t, 32, DefaultLsofBatchSize)
	assert.LessOrEqual(t, DefaultLsofBatchSize, MaxLsofBatchSize)
	assert.Equal(t, 2*1024*1024, LsofMaxOutputBytes)
}
