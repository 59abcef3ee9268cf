package model

import "time"

// SessionKind is the type of the current pomodoro session.
type SessionKind string

const (
	SessionWork       SessionKind = "work"
	SessionShortBreak SessionKind = "shortBreak"
	SessionLongBreak  SessionKind = "longBreak"
)

// IsBreak reports whether the kind is one of the break kinds.
func (kind SessionKind) IsBreak() bool {
	return kind == SessionShortBreak || kind == SessionLongBreak
}

// TimerState is the run state of the timer.
type TimerState string

const (
	StateIdle    TimerState = "idle"
	StateRunning TimerState = "running"
	StatePaused  TimerState = "paused"
)

// Status is the externally observable snapshot of the timer.
type Status struct {
	State                 TimerState  `json:"state"`
	CurrentTask           *Task       `json:"currentTask,omitempty"`
	RemainingTime         int         `json:"remainingTime"`
	TotalTime             int         `json:"totalTime"`
	SessionKind           SessionKind `json:"sessionType"`
	CompletedWorkSessions int         `json:"completedPomodoros"`
	PlaySound             bool        `json:"playSound,omitempty"`

	// AwaitingDecision is set between a session expiring and the user
	// choosing what comes next. The ticker is disarmed throughout.
	AwaitingDecision bool `json:"awaitingDecision,omitempty"`
}

// SessionRecord is an entry of the session history.
type SessionRecord struct {
	TaskID          string      `json:"taskId"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	DurationMinutes int         `json:"duration"`
	Kind            SessionKind `json:"type"`
	Completed       bool        `json:"completed"`
}
