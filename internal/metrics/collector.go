// Package metrics exports timer activity as Prometheus metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"pomodorotasks/internal/core/model"
	"pomodorotasks/internal/core/pomodoro"
)

var timerStates = []model.TimerState{model.StateIdle, model.StateRunning, model.StatePaused}

// Collector turns timer events into metrics.
type Collector struct {
	completed prometheus.Counter
	started   *prometheus.CounterVec
	remaining prometheus.Gauge
	state     *prometheus.GaugeVec

	mu   sync.Mutex
	last model.Status
}

// NewCollector creates the metrics and registers them on registry.
func NewCollector(registry *prometheus.Registry) *Collector {
	collector := &Collector{
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pomodoro_work_sessions_completed_total",
			Help: "Total number of work sessions that ran to the end",
		}),
		started: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pomodoro_sessions_started_total",
				Help: "Total number of sessions started by session kind",
			},
			[]string{"kind"},
		),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pomodoro_remaining_seconds",
			Help: "Seconds left in the current session",
		}),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pomodoro_state",
				Help: "1 for the current timer state, 0 otherwise",
			},
			[]string{"state"},
		),
		last: model.Status{State: model.StateIdle},
	}

	registry.MustRegister(
		collector.completed,
		collector.started,
		collector.remaining,
		collector.state,
	)
	collector.setState(model.StateIdle)
	return collector
}

// Observe updates the metrics from one timer event.
func (collector *Collector) Observe(event pomodoro.Event) {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	status := event.Status
	switch event.Type {
	case pomodoro.EventWorkComplete:
		collector.completed.Inc()
	case pomodoro.EventStateChange:
		if collector.isStart(status) {
			collector.started.WithLabelValues(string(status.SessionKind)).Inc()
		}
		collector.setState(status.State)
	}

	collector.remaining.Set(float64(status.RemainingTime))
	collector.last = status
}

// isStart reports whether status begins a fresh session rather than resuming one.
func (collector *Collector) isStart(status model.Status) bool {
	if status.State != model.StateRunning || status.RemainingTime != status.TotalTime {
		return false
	}
	last := collector.last
	return !(last.State == model.StatePaused && last.SessionKind == status.SessionKind && last.RemainingTime == status.RemainingTime)
}

func (collector *Collector) setState(current model.TimerState) {
	for _, state := range timerStates {
		value := 0.0
		if state == current {
			value = 1
		}
		collector.state.WithLabelValues(string(state)).Set(value)
	}
}
