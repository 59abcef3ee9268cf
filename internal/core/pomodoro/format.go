package pomodoro

import (
	"fmt"
	"strings"

	"pomodorotasks/internal/core/model"
)

const pausedMarker = "⏸"

// FormatTime renders seconds as MM:SS.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Label returns the display label of a session kind.
func Label(kind model.SessionKind) string {
	switch kind {
	case model.SessionShortBreak:
		return "SHORT BREAK"
	case model.SessionLongBreak:
		return "LONG BREAK"
	default:
		return "FOCUS"
	}
}

// Icon returns the status bar icon of a session kind.
func Icon(kind model.SessionKind) string {
	switch kind {
	case model.SessionShortBreak:
		return "☕"
	case model.SessionLongBreak:
		return "🛋️"
	default:
		return "🍅"
	}
}

// Format renders the one-line status shown in the tray.
func Format(status model.Status) string {
	if status.State == model.StateIdle {
		return "🍅 Pomodoro"
	}

	parts := []string{Icon(status.SessionKind), Label(status.SessionKind), FormatTime(status.RemainingTime)}
	if status.State == model.StatePaused {
		parts = append(parts, pausedMarker)
	}
	return strings.Join(parts, " ")
}

// Tooltip renders the multi-line description of the status.
func Tooltip(status model.Status) string {
	if status.State == model.StateIdle {
		return fmt.Sprintf("No active pomodoro\nCompleted pomodoros: %d", status.CompletedWorkSessions)
	}

	taskName := "No task"
	if status.CurrentTask != nil {
		taskName = status.CurrentTask.Name
	}
	session := "Work"
	switch status.SessionKind {
	case model.SessionShortBreak:
		session = "Short break"
	case model.SessionLongBreak:
		session = "Long break"
	}
	if status.State == model.StatePaused {
		session += " (paused)"
	}
	return fmt.Sprintf("%s: %s\nCompleted pomodoros: %d", session, taskName, status.CompletedWorkSessions)
}
