package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/ramfs/pkg/fs"
)

// fsMetrics is the Prometheus implementation of the fs.Metrics interface.
//
// It collects:
//   - directory operation counts labeled by operation and outcome
//   - listing cursor lifecycle (live gauge, closes by reason)
//   - the filesystem-wide used-block gauge
type fsMetrics struct {
	directoryOps  *prometheus.CounterVec
	cursorsLive   prometheus.Gauge
	cursorsClosed *prometheus.CounterVec
	usedBlocks    prometheus.Gauge
}

// NewFSMetrics creates a Prometheus-backed fs.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called), which
// makes the filesystem fall back to its built-in no-op implementation.
func NewFSMetrics() fs.Metrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &fsMetrics{
		directoryOps: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ramfs_directory_operations_total",
				Help: "Total number of directory operations",
			},
			[]string{"op", "status"},
		),
		cursorsLive: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "ramfs_readdir_cursors",
				Help: "Number of live readdir cursors",
			},
		),
		cursorsClosed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ramfs_readdir_cursors_closed_total",
				Help: "Total number of readdir cursors closed, by reason",
			},
			[]string{"reason"},
		),
		usedBlocks: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "ramfs_used_blocks",
				Help: "Filesystem-wide used block count",
			},
		),
	}
}

func (m *fsMetrics) DirectoryOp(op, status string) {
	m.directoryOps.WithLabelValues(op, status).Inc()
}

func (m *fsMetrics) CursorOpened() {
	m.cursorsLive.Inc()
}

func (m *fsMetrics) CursorClosed(reason string) {
	m.cursorsLive.Dec()
	m.cursorsClosed.WithLabelValues(reason).Inc()
}

func (m *fsMetrics) SetUsedBlocks(blocks int64) {
	m.usedBlocks.Set(float64(blocks))
}
