package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_SignalCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGINT)

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	assert.True(t, h.WasInterrupted())
	assert.Equal(t, syscall.SIGINT, h.Received())
}

func TestHandler_FirstSignalWins(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGTERM)
	h.handleSignal(syscall.SIGINT)

	assert.Equal(t, syscall.SIGTERM, h.Received())
	select {
	case <-h.Interrupted():
	default:
		t.Fatal("interrupted channel should be closed")
	}
}

func TestHandler_InitialState(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	require.NoError(t, h.Context().Err())
	assert.False(t, h.WasInterrupted())
	assert.Nil(t, h.Received())
}

func TestHandler_StopIsIdempotent(t *testing.T) {
	h := NewHandler(context.Background())

	h.Stop()
	h.Stop()

	require.Error(t, h.Context().Err())
	assert.False(t, h.WasInterrupted(), "stopping is not an interrupt")
}

func TestHandler_ParentCanceled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	require.Error(t, h.Context().Err())
	assert.False(t, h.WasInterrupted())
}

func TestHandler_ListenerHandlesDeliveredSignal(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.sigChan <- syscall.SIGINT

	select {
	case <-h.Interrupted():
	case <-time.After(5 * time.Second):
		t.Fatal("signal was not handled")
	}
	assert.Equal(t, syscall.SIGINT, h.Received())
}
