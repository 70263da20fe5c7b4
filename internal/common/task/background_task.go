package task

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/armadaproject/qpp/internal/common/qppcontext"
)

// Func is a unit of periodic work. ctx is cancelled when the manager stops.
type Func func(ctx *qppcontext.Context)

type task struct {
	name     string
	function Func
	interval time.Duration
	duration prometheus.Observer
}

// BackgroundTaskManager runs named tasks on fixed intervals until StopAll is called.
// Register and StopAll must be called from a single goroutine.
type BackgroundTaskManager struct {
	ctx      *qppcontext.Context
	cancel   func()
	duration *prometheus.HistogramVec
	wg       sync.WaitGroup
}

func NewBackgroundTaskManager(ctx *qppcontext.Context, metricsPrefix string, registerer prometheus.Registerer) *BackgroundTaskManager {
	ctx, cancel := qppcontext.WithCancel(ctx)
	return &BackgroundTaskManager{
		ctx:    ctx,
		cancel: cancel,
		duration: promauto.With(registerer).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricsPrefix + "background_task_duration_seconds",
				Help:    "Background task run duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
			}, []string{"task"}),
	}
}

// Register runs f immediately and then once every interval until StopAll is called.
func (m *BackgroundTaskManager) Register(name string, interval time.Duration, f Func) {
	t := &task{
		name:     name,
		function: f,
		interval: interval,
		duration: m.duration.WithLabelValues(name),
	}
	m.wg.Add(1)
	go m.loop(t)
}

// StopAll cancels every task and reports whether waiting for them timed out.
func (m *BackgroundTaskManager) StopAll(timeout time.Duration) bool {
	m.cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.wg.Wait()
	}()
	select {
	case <-done:
		return false
	case <-time.After(timeout):
		return true
	}
}

func (m *BackgroundTaskManager) loop(t *task) {
	defer m.wg.Done()
	ctx := qppcontext.WithLogField(m.ctx, "task", t.name)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	m.run(ctx, t)
	for {
		select {
		case <-ticker.C:
			m.run(ctx, t)
		case <-ctx.Done():
			ctx.Log.Debug("background task stopped")
			return
		}
	}
}

func (m *BackgroundTaskManager) run(ctx *qppcontext.Context, t *task) {
	start := time.Now()
	t.function(ctx)
	t.duration.Observe(time.Since(start).Seconds())
}
