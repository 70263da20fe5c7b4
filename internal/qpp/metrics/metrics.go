package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const MetricPrefix = "qpp_"

// Outcome labels used by job metrics.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Recorder holds the metrics updated while jobs run. A nil *Recorder records nothing.
type Recorder struct {
	jobs              *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
	admissionDenials  prometheus.Counter
	persistDuration   prometheus.Histogram
	persistFailures   prometheus.Counter
	sweepIterations   prometheus.Counter
	simulationLatency *prometheus.HistogramVec
}

// NewRecorder creates the job metrics and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		jobs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricPrefix + "jobs_total",
				Help: "Number of jobs processed, by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		jobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricPrefix + "job_duration_seconds",
				Help:    "Time from admission to response, by mode",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
			},
			[]string{"mode"},
		),
		admissionDenials: factory.NewCounter(
			prometheus.CounterOpts{
				Name: MetricPrefix + "admission_denials_total",
				Help: "Number of jobs rejected because not enough qubits were idle",
			},
		),
		persistDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricPrefix + "archive_persist_duration_seconds",
				Help:    "Time taken to write an archive snapshot",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
			},
		),
		persistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: MetricPrefix + "archive_persist_failures_total",
				Help: "Number of archive snapshot writes that failed",
			},
		),
		sweepIterations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: MetricPrefix + "sweep_iterations_total",
				Help: "Number of completed parameter sweep iterations",
			},
		),
		simulationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricPrefix + "simulation_duration_seconds",
				Help:    "Time spent in the simulator, by kind",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
			},
			[]string{"kind"},
		),
	}
}

func (r *Recorder) RecordJob(mode, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.jobs.WithLabelValues(mode, outcome).Inc()
	r.jobDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (r *Recorder) RecordAdmissionDenied() {
	if r == nil {
		return
	}
	r.admissionDenials.Inc()
}

func (r *Recorder) RecordPersist(d time.Duration, err error) {
	if r == nil {
		return
	}
	r.persistDuration.Observe(d.Seconds())
	if err != nil {
		r.persistFailures.Inc()
	}
}

func (r *Recorder) RecordSweepIteration() {
	if r == nil {
		return
	}
	r.sweepIterations.Inc()
}

func (r *Recorder) RecordSimulation(kind string, d time.Duration) {
	if r == nil {
		return
	}
	r.simulationLatency.WithLabelValues(kind).Observe(d.Seconds())
}
