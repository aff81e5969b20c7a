package editor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Trigger()
	d.Trigger()

	require.Eventually(t, func() bool { return calls.Load() == 1 },
		time.Second, 5*time.Millisecond)

	// Quiet period: no further invocations.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_Cancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(0), calls.Load())
}

func TestDebouncer_FlushRunsImmediately(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(time.Hour, func() { calls.Add(1) })

	d.Flush() // nothing pending
	require.Equal(t, int32(0), calls.Load())

	d.Trigger()
	d.Flush()
	require.Equal(t, int32(1), calls.Load())

	// The timer must not fire a second time after the flush.
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}
