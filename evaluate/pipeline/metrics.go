/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the pipeline's operational signals.
type Metrics struct {
	running       prometheus.Gauge
	outcomes      *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics registers the pipeline metrics on reg. Pass
// prometheus.DefaultRegisterer in the binary; tests use a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		running: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "readmescope",
			Name:      "evaluations_running",
			Help:      "Evaluations currently holding a concurrency slot.",
		}),
		outcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "readmescope",
			Name:      "evaluations_total",
			Help:      "Finished evaluations by outcome kind.",
		}, []string{"outcome"}),
		stageDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "readmescope",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent per pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
	}
}

func (m *Metrics) observeStage(stage Stage, seconds float64) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(seconds)
}

func (m *Metrics) slotAcquired() {
	if m != nil {
		m.running.Inc()
	}
}

func (m *Metrics) slotReleased() {
	if m != nil {
		m.running.Dec()
	}
}

func (m *Metrics) recordOutcome(outcome string) {
	if m != nil {
		m.outcomes.WithLabelValues(outcome).Inc()
	}
}
