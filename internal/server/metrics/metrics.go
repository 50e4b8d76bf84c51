// Package metrics holds the Prometheus collectors of the sync and read paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Metrics struct {
	SyncRunsTotal     *prometheus.CounterVec
	SyncStudentsTotal prometheus.Counter
	SyncDuration      prometheus.Histogram
	RendersTotal      *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg leaves them unregistered,
// which is what tests and one-shot commands want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SyncRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "karmaboard_sync_runs_total",
			Help: "Sync passes by outcome",
		}, []string{"outcome"}),
		SyncStudentsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "karmaboard_sync_students_total",
			Help: "Student records written by successful sync passes",
		}),
		SyncDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "karmaboard_sync_duration_seconds",
			Help:    "Wall time of a sync pass",
			Buckets: prometheus.DefBuckets,
		}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "karmaboard_leaderboard_renders_total",
			Help: "Leaderboard reads by data source",
		}, []string{"source"}),
	}
}
