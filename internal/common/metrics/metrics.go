// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildingsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadflex_buildings_processed_total",
			Help: "Total number of buildings whose schedules were transformed",
		},
		[]string{"offset_type"},
	)

	SetpointsShifted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadflex_setpoints_shifted_total",
			Help: "Total number of schedule steps modified by the offset engine",
		},
		[]string{"offset_type"},
	)

	RunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadflex_runs_failed_total",
			Help: "Total number of runs that ended with a fatal error",
		},
		[]string{"error_code"},
	)

	ApplyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "loadflex_apply_duration_seconds",
			Help: "Duration of one offset-engine pass over a building schedule",
		},
	)
)
