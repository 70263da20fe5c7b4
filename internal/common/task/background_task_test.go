package task

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/qpp/internal/common/qppcontext"
)

func TestBackgroundTaskManager_RunsUntilStopped(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBackgroundTaskManager(qppcontext.Background(), "qpp_test_", reg)
	var calls atomic.Int32
	m.Register("flush", time.Millisecond, func(*qppcontext.Context) { calls.Add(1) })

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	timedOut := m.StopAll(time.Second)
	assert.False(t, timedOut)

	stoppedAt := calls.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stoppedAt, calls.Load())
	n, err := testutil.GatherAndCount(reg, "qpp_test_background_task_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBackgroundTaskManager_RunsImmediately(t *testing.T) {
	m := NewBackgroundTaskManager(qppcontext.Background(), "qpp_test_", prometheus.NewRegistry())
	ran := make(chan struct{}, 1)
	m.Register("once", time.Hour, func(*qppcontext.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run on registration")
	}
	assert.False(t, m.StopAll(time.Second))
}

func TestBackgroundTaskManager_CancelsRunningTask(t *testing.T) {
	m := NewBackgroundTaskManager(qppcontext.Background(), "qpp_test_", prometheus.NewRegistry())
	started := make(chan struct{})
	m.Register("blocking", time.Hour, func(ctx *qppcontext.Context) {
		close(started)
		<-ctx.Done()
	})
	<-started
	assert.False(t, m.StopAll(time.Second))
}

func TestBackgroundTaskManager_ReportsTimeout(t *testing.T) {
	m := NewBackgroundTaskManager(qppcontext.Background(), "qpp_test_", prometheus.NewRegistry())
	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	m.Register("stuck", time.Hour, func(*qppcontext.Context) {
		close(started)
		<-release
	})
	<-started
	assert.True(t, m.StopAll(10*time.Millisecond))
}
