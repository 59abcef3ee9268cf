package pomodoro

import (
	"time"

	"pomodorotasks/internal/core/model"
)

// EventType defines the type of Timer event.
type EventType string

const (
	EventStateChange  EventType = "state_change"
	EventTick         EventType = "tick"
	EventWorkComplete EventType = "work_complete"
	EventWarning      EventType = "warning"
	EventDecision     EventType = "decision"
)

// Event represents a Timer update for observers.
type Event struct {
	Type    EventType
	Status  model.Status
	Task    *model.Task
	Message string
	At      time.Time
}
