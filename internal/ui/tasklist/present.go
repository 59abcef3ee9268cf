package tasklist

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"pomodorotasks/internal/core/model"
)

// IconKind selects the row icon.
type IconKind string

const (
	IconDone       IconKind = "done"
	IconInProgress IconKind = "in-progress"
	IconPending    IconKind = "pending"
)

// Item is the display form of a task row.
type Item struct {
	Label       string
	Description string
	Tooltip     string
	Icon        IconKind
}

// Present converts task into its row.
func Present(task model.Task) Item {
	status := "⏳ Pending"
	if task.IsCompleted {
		status = "✅ Completed"
	}

	icon := IconPending
	switch {
	case task.IsCompleted:
		icon = IconDone
	case task.CompletedPomodoros > 0:
		icon = IconInProgress
	}

	tooltip := fmt.Sprintf("%s\n%s\nPomodoros: %d/%d", task.Name, status, task.CompletedPomodoros, task.EstimatedPomodoros)
	if task.Description != "" {
		tooltip += "\n" + task.Description
	}

	return Item{
		Label:       task.Name,
		Description: fmt.Sprintf("%d/%d 🍅", task.CompletedPomodoros, task.EstimatedPomodoros),
		Tooltip:     strings.TrimRight(tooltip, "\n"),
		Icon:        icon,
	}
}

// BookmarkURL returns the file URL of a bookmark task's source file.
func BookmarkURL(task model.Task) (*url.URL, bool) {
	if !task.IsBookmark || task.FilePath == "" {
		return nil, false
	}
	path, err := filepath.Abs(task.FilePath)
	if err != nil {
		return nil, false
	}
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &url.URL{Scheme: "file", Path: path}, true
}
