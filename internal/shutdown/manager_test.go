package shutdown

import (
	"context"
	"syscall"
	"testing"
	"time"

	"edgebench/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownCancelsContextAndRunsHooksInReverse(t *testing.T) {
	m := NewManager(context.Background(), logger.Nop())

	var order []int
	m.Register(Func(func() { order = append(order, 1) }))
	m.Register(Func(func() { order = append(order, 2) }))

	require.NoError(t, m.Context().Err())

	m.Shutdown()
	m.Shutdown()

	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
	assert.Equal(t, []int{2, 1}, order)

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestCloseAfterListen(t *testing.T) {
	m := NewManager(context.Background(), logger.Nop())
	m.Listen()

	calls := 0
	m.Register(Func(func() { calls++ }))

	m.Close()
	m.Close()

	assert.Equal(t, 1, calls)
	assert.Error(t, m.Context().Err())
}

func TestParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, logger.Nop())

	cancel()
	<-m.Context().Done()
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
}

func TestSignalRunsHooksAndMarksInterrupted(t *testing.T) {
	m := NewManager(context.Background(), logger.Nop())
	m.Listen()
	defer m.Close()

	interrupted := make(chan bool, 1)
	m.Register(Func(func() { interrupted <- m.Interrupted() }))

	assert.False(t, m.Interrupted())
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case got := <-interrupted:
		assert.True(t, got)
	case <-time.After(5 * time.Second):
		t.Fatal("hook not run after SIGTERM")
	}
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
}

func TestCloseIsNotAnInterruption(t *testing.T) {
	m := NewManager(context.Background(), logger.Nop())
	m.Listen()
	m.Close()

	assert.False(t, m.Interrupted())
}
