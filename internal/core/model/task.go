package model

import "time"

// Task is a unit of work that pomodoros are spent on.
type Task struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	EstimatedPomodoros int        `json:"estimatedPomodoros"`
	CompletedPomodoros int        `json:"completedPomodoros"`
	IsCompleted        bool       `json:"isCompleted"`
	CreatedAt          time.Time  `json:"createdAt"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`

	// Bookmark tasks are produced from TODO/FIXME comments.
	IsBookmark bool   `json:"isBookmark,omitempty"`
	FilePath   string `json:"filePath,omitempty"`
	LineNumber int    `json:"lineNumber,omitempty"`
}

// Progress returns completed/estimated as a percentage in [0, 100].
func (task Task) Progress() int {
	if task.EstimatedPomodoros <= 0 {
		return 0
	}
	percent := task.CompletedPomodoros * 100 / task.EstimatedPomodoros
	if percent > 100 {
		return 100
	}
	return percent
}
