package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"pomodorotasks/internal/core/model"
	"pomodorotasks/internal/core/pomodoro"
)

func stateEvent(state model.TimerState, kind model.SessionKind, remaining, total int) pomodoro.Event {
	return pomodoro.Event{
		Type: pomodoro.EventStateChange,
		Status: model.Status{
			State:         state,
			SessionKind:   kind,
			RemainingTime: remaining,
			TotalTime:     total,
		},
	}
}

func TestCollectorObserve(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(registry)

	events := []pomodoro.Event{
		stateEvent(model.StateRunning, model.SessionWork, 60, 60),
		stateEvent(model.StatePaused, model.SessionWork, 60, 60),
		stateEvent(model.StateRunning, model.SessionWork, 60, 60),
		{Type: pomodoro.EventTick, Status: model.Status{State: model.StateRunning, SessionKind: model.SessionWork, RemainingTime: 59, TotalTime: 60}},
		{Type: pomodoro.EventWorkComplete, Status: model.Status{State: model.StateRunning, SessionKind: model.SessionWork, TotalTime: 60}},
		stateEvent(model.StateRunning, model.SessionShortBreak, 300, 300),
	}
	for _, event := range events {
		collector.Observe(event)
	}

	if got := testutil.ToFloat64(collector.completed); got != 1 {
		t.Errorf("completed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.started.WithLabelValues("work")); got != 1 {
		t.Errorf("work sessions started = %v, want 1 (resume must not count)", got)
	}
	if got := testutil.ToFloat64(collector.started.WithLabelValues("shortBreak")); got != 1 {
		t.Errorf("short breaks started = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.remaining); got != 300 {
		t.Errorf("remaining = %v, want 300", got)
	}
	if got := testutil.ToFloat64(collector.state.WithLabelValues("running")); got != 1 {
		t.Errorf("running state = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.state.WithLabelValues("idle")); got != 0 {
		t.Errorf("idle state = %v, want 0", got)
	}

	if count, err := testutil.GatherAndCount(registry); err != nil || count == 0 {
		t.Errorf("GatherAndCount() = %d, %v", count, err)
	}
}
