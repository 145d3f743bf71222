package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	actionDuration  *prom.HistogramVec
	transitions     *prom.CounterVec
	taskResults     *prom.CounterVec
	eventsPublished *prom.CounterVec
	sweepDuration   prom.Histogram
	trackedEntities *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the ManualBox metrics on the
// given registry (a fresh registry is created when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		actionDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "manualbox",
			Name:      "action_duration_seconds",
			Help:      "Duration of dispatched screen actions",
			Buckets:   prom.DefBuckets,
		}, []string{"screen"}),
		transitions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "manualbox",
			Name:      "state_transitions_total",
			Help:      "State replacements per screen container",
		}, []string{"screen"}),
		taskResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "manualbox",
			Name:      "task_results_total",
			Help:      "Task outcomes per screen by result",
		}, []string{"screen", "result"}),
		eventsPublished: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "manualbox",
			Name:      "events_published_total",
			Help:      "Events published on the bus by type",
		}, []string{"type"}),
		sweepDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "manualbox",
			Name:      "warranty_sweep_duration_seconds",
			Help:      "Duration of warranty expiry sweeps",
			Buckets:   prom.DefBuckets,
		}),
		trackedEntities: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "manualbox",
			Name:      "tracked_entities",
			Help:      "Current entity counts by type",
		}, []string{"entity_type"}),
	}

	reg.MustRegister(
		pr.actionDuration,
		pr.transitions,
		pr.taskResults,
		pr.eventsPublished,
		pr.sweepDuration,
		pr.trackedEntities,
	)
	return pr
}

func (pr *PrometheusRecorder) ObserveActionDuration(screen string, d time.Duration) {
	pr.actionDuration.WithLabelValues(screen).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncStateTransition(screen string) {
	pr.transitions.WithLabelValues(screen).Inc()
}

func (pr *PrometheusRecorder) IncTaskResult(screen string, result ResultLabel) {
	pr.taskResults.WithLabelValues(screen, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncEventPublished(eventType string) {
	pr.eventsPublished.WithLabelValues(eventType).Inc()
}

func (pr *PrometheusRecorder) ObserveSweepDuration(d time.Duration) {
	pr.sweepDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) SetTrackedEntities(entityType string, n int) {
	pr.trackedEntities.WithLabelValues(entityType).Set(float64(n))
}
