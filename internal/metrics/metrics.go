// Package metrics exposes the detector's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager bundles the collectors the engine and server report into.
type Manager struct {
	// counters
	FramesProcessed   *prometheus.CounterVec
	RepsCounted       *prometheus.CounterVec
	ClassifierFaults  *prometheus.CounterVec
	DegradedResponses *prometheus.CounterVec
	UnknownExercises  prometheus.Counter

	// gauges
	ActiveSessions prometheus.Gauge
}

// NewTestManager returns a Manager on a throwaway registry for tests.
func NewTestManager() *Manager {
	return NewManager("repbot", prometheus.NewRegistry())
}

// NewManager registers all collectors with reg under the given namespace.
func NewManager(namespace string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		FramesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_processed_total",
			Help:      "Pose frames classified, per exercise type",
		}, []string{"exercise"}),
		RepsCounted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reps_counted_total",
			Help:      "Repetitions counted, per exercise type",
		}, []string{"exercise"}),
		ClassifierFaults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_faults_total",
			Help:      "Frames a classifier failed on, per exercise type",
		}, []string{"exercise"}),
		DegradedResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_responses_total",
			Help:      "Position-not-clear responses, per exercise type",
		}, []string{"exercise"}),
		UnknownExercises: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_exercise_requests_total",
			Help:      "Requests naming an exercise type with no classifier",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Live entries in the session store",
		}),
	}
}
