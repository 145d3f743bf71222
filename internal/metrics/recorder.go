// Package metrics defines the observability hooks recorded by the state
// containers, the event bus wiring, and the expiry sweeper. Implementations
// may forward to Prometheus or drop everything (NoopRecorder).
package metrics

import "time"

// ResultLabel enumerates task outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines the hooks. All methods must be cheap and non-blocking;
// they are called on hot paths.
type Recorder interface {
	ObserveActionDuration(screen string, d time.Duration)
	IncStateTransition(screen string)
	IncTaskResult(screen string, result ResultLabel)
	IncEventPublished(eventType string)
	ObserveSweepDuration(d time.Duration)
	SetTrackedEntities(entityType string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveActionDuration(string, time.Duration) {}
func (NoopRecorder) IncStateTransition(string)                   {}
func (NoopRecorder) IncTaskResult(string, ResultLabel)           {}
func (NoopRecorder) IncEventPublished(string)                    {}
func (NoopRecorder) ObserveSweepDuration(time.Duration)          {}
func (NoopRecorder) SetTrackedEntities(string, int)              {}
