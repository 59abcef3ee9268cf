package panel

import (
	"pomodorotasks/internal/core/model"
)

// Inbound commands sent by the page.
const (
	CmdStartPomodoro  = "startPomodoro"
	CmdPausePomodoro  = "pausePomodoro"
	CmdResumePomodoro = "resumePomodoro"
	CmdStopPomodoro   = "stopPomodoro"
	CmdUpdateSettings = "updateSettings"
	CmdGetTasks       = "getTasks"
	CmdAddTask        = "addTask"
	CmdCompleteTask   = "completeTask"
)

// Outbound commands sent to the page.
const (
	MsgInitialData = "initialData"
	MsgTimerUpdate = "timerUpdate"
	MsgTasksUpdate = "tasksUpdate"
	MsgError       = "error"
)

// Settings is the subset of preferences the page edits. Durations are minutes.
type Settings struct {
	FocusTime     int  `json:"focusTime"`
	ShortBreak    int  `json:"shortBreak"`
	LongBreak     int  `json:"longBreak"`
	Notifications bool `json:"notifications"`
}

type InboundMessage struct {
	Command  string    `json:"command"`
	TaskID   string    `json:"taskId,omitempty"`
	TaskName string    `json:"taskName,omitempty"`
	Settings *Settings `json:"settings,omitempty"`
}

type InitialDataMessage struct {
	Command    string       `json:"command"`
	Settings   Settings     `json:"settings"`
	TimerState model.Status `json:"timerState"`
}

type TimerUpdateMessage struct {
	Command string       `json:"command"`
	Data    model.Status `json:"data"`
}

type TasksUpdateMessage struct {
	Command string       `json:"command"`
	Tasks   []model.Task `json:"tasks"`
}

type ErrorMessage struct {
	Command string `json:"command"`
	Message string `json:"message"`
}

func timerUpdate(status model.Status) TimerUpdateMessage {
	return TimerUpdateMessage{Command: MsgTimerUpdate, Data: status}
}

func tasksUpdate(tasks []model.Task) TasksUpdateMessage {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return TasksUpdateMessage{Command: MsgTasksUpdate, Tasks: tasks}
}
