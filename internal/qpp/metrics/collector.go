package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerSource reports the state of the qubit pool.
type LedgerSource interface {
	Snapshot() (idle uint, capacity uint)
}

// ArchiveState is the subset of archive status exported as gauges.
type ArchiveState struct {
	Qubits     uint
	Capacity   uint
	CurrentPos uint
}

// ArchiveSource reports the state of the measurement archive.
type ArchiveSource interface {
	State() ArchiveState
}

// ArchiveSourceFunc adapts a plain function to ArchiveSource.
type ArchiveSourceFunc func() ArchiveState

func (f ArchiveSourceFunc) State() ArchiveState {
	return f()
}

// StateCollector exposes ledger and archive state at scrape time.
type StateCollector struct {
	ledger  LedgerSource
	archive ArchiveSource
}

func NewStateCollector(ledger LedgerSource, archive ArchiveSource) *StateCollector {
	return &StateCollector{ledger: ledger, archive: archive}
}

var ledgerIdleDesc = prometheus.NewDesc(
	MetricPrefix+"ledger_idle_qubits",
	"Number of qubits not reserved by a running job",
	nil,
	nil,
)

var ledgerCapacityDesc = prometheus.NewDesc(
	MetricPrefix+"ledger_capacity_qubits",
	"Total number of qubits in the pool",
	nil,
	nil,
)

var archiveQubitsDesc = prometheus.NewDesc(
	MetricPrefix+"archive_qubits",
	"Width of each stored measurement",
	nil,
	nil,
)

var archiveCapacityDesc = prometheus.NewDesc(
	MetricPrefix+"archive_capacity",
	"Number of measurements the archive can hold",
	nil,
	nil,
)

var archivePositionDesc = prometheus.NewDesc(
	MetricPrefix+"archive_current_position",
	"Position the next measurement will be written to",
	nil,
	nil,
)

func (c *StateCollector) Describe(desc chan<- *prometheus.Desc) {
	desc <- ledgerIdleDesc
	desc <- ledgerCapacityDesc
	desc <- archiveQubitsDesc
	desc <- archiveCapacityDesc
	desc <- archivePositionDesc
}

func (c *StateCollector) Collect(metrics chan<- prometheus.Metric) {
	idle, capacity := c.ledger.Snapshot()
	metrics <- prometheus.MustNewConstMetric(ledgerIdleDesc, prometheus.GaugeValue, float64(idle))
	metrics <- prometheus.MustNewConstMetric(ledgerCapacityDesc, prometheus.GaugeValue, float64(capacity))

	state := c.archive.State()
	metrics <- prometheus.MustNewConstMetric(archiveQubitsDesc, prometheus.GaugeValue, float64(state.Qubits))
	metrics <- prometheus.MustNewConstMetric(archiveCapacityDesc, prometheus.GaugeValue, float64(state.Capacity))
	metrics <- prometheus.MustNewConstMetric(archivePositionDesc, prometheus.GaugeValue, float64(state.CurrentPos))
}
