package panel

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pomodorotasks/internal/core/model"
	"pomodorotasks/internal/core/pomodoro"
	"pomodorotasks/internal/tasks"
)

var ErrUnknownCommand = errors.New("unknown command")

// Timer is the part of the pomodoro timer the page drives.
type Timer interface {
	Status() model.Status
	Start(ctx context.Context, task *model.Task) error
	Pause() error
	Resume() error
	Stop()
}

// TaskService is the part of the task service the page drives.
type TaskService interface {
	All(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	CreateFromName(ctx context.Context, name string) (model.Task, error)
	Complete(ctx context.Context, id string) (model.Task, error)
}

// SettingsHandler reads and applies the settings edited on the page.
type SettingsHandler interface {
	PanelSettings() Settings
	ApplyPanelSettings(settings Settings) error
}

// Bridge translates page commands into timer and task operations and keeps
// every page in sync with the timer. The page never owns timer state.
type Bridge struct {
	timer       Timer
	tasks       TaskService
	settings    SettingsHandler
	broadcaster *Broadcaster
}

func NewBridge(timer Timer, taskService TaskService, settings SettingsHandler, broadcaster *Broadcaster) *Bridge {
	return &Bridge{
		timer:       timer,
		tasks:       taskService,
		settings:    settings,
		broadcaster: broadcaster,
	}
}

// InitialMessages returns what a freshly connected page receives.
func (bridge *Bridge) InitialMessages(ctx context.Context) []any {
	messages := []any{InitialDataMessage{
		Command:    MsgInitialData,
		Settings:   bridge.settings.PanelSettings(),
		TimerState: bridge.timer.Status(),
	}}
	if all, err := bridge.tasks.All(ctx); err == nil {
		messages = append(messages, tasksUpdate(all))
	} else {
		log.Printf("panel: list tasks: %v", err)
	}
	return messages
}

// Handle runs one inbound command and returns the replies for the sender.
func (bridge *Bridge) Handle(ctx context.Context, msg InboundMessage) ([]any, error) {
	var err error
	switch msg.Command {
	case CmdStartPomodoro:
		err = bridge.start(ctx, msg.TaskID)
	case CmdPausePomodoro:
		err = bridge.timer.Pause()
	case CmdResumePomodoro:
		err = bridge.timer.Resume()
	case CmdStopPomodoro:
		bridge.timer.Stop()
	case CmdUpdateSettings:
		if msg.Settings == nil {
			return nil, fmt.Errorf("updateSettings: missing settings")
		}
		err = bridge.settings.ApplyPanelSettings(*msg.Settings)
	case CmdGetTasks:
		all, listErr := bridge.tasks.All(ctx)
		if listErr != nil {
			return nil, fmt.Errorf("list tasks: %w", listErr)
		}
		return []any{tasksUpdate(all)}, nil
	case CmdAddTask:
		_, err = bridge.tasks.CreateFromName(ctx, msg.TaskName)
	case CmdCompleteTask:
		_, err = bridge.tasks.Complete(ctx, msg.TaskID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, msg.Command)
	}
	if err != nil {
		return nil, err
	}
	return []any{timerUpdate(bridge.timer.Status())}, nil
}

func (bridge *Bridge) start(ctx context.Context, taskID string) error {
	if taskID == "" {
		return bridge.timer.Start(ctx, nil)
	}
	task, err := bridge.tasks.Get(ctx, taskID)
	if err != nil {
		return fmt.Errorf("start task %s: %w", taskID, err)
	}
	return bridge.timer.Start(ctx, &task)
}

// PumpTimer broadcasts every timer status change until events closes or ctx ends.
func (bridge *Bridge) PumpTimer(ctx context.Context, events <-chan pomodoro.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Type {
			case pomodoro.EventTick, pomodoro.EventStateChange, pomodoro.EventWarning:
				bridge.broadcaster.Broadcast(timerUpdate(event.Status))
			}
		}
	}
}

// PumpTasks broadcasts the task list after every change.
func (bridge *Bridge) PumpTasks(ctx context.Context, changes <-chan tasks.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			all, err := bridge.tasks.All(ctx)
			if err != nil {
				log.Printf("panel: list tasks: %v", err)
				continue
			}
			bridge.broadcaster.Broadcast(tasksUpdate(all))
		}
	}
}
