package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomodorotasks/internal/core/model"
	"pomodorotasks/internal/core/pomodoro"
)

const menuTitle = "Pomodoro Tasks"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func()
	OnTogglePause func()
	OnStop        func()
	OnTasks       func()
	OnOpenPanel   func()
	OnImportTodos func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	stopItem   *fyne.MenuItem
	status     model.Status
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		status:    model.Status{State: model.StateIdle, SessionKind: model.SessionWork},
	}

	manager.statusItem = fyne.NewMenuItem(pomodoro.Format(manager.status), nil)
	manager.statusItem.Disabled = true
	manager.startItem = fyne.NewMenuItem("Start pomodoro", invoke(callbacks.OnStart))
	manager.pauseItem = fyne.NewMenuItem("Pause", invoke(callbacks.OnTogglePause))
	manager.stopItem = fyne.NewMenuItem("Stop", invoke(callbacks.OnStop))

	manager.applyStatus()
	manager.refreshMenu()
	return manager
}

// SetStatus mirrors a timer snapshot. Must be called on the fyne thread.
func (manager *Manager) SetStatus(status model.Status) {
	manager.status = status
	manager.applyStatus()
	manager.refreshMenu()
}

// Status returns the last snapshot shown.
func (manager *Manager) Status() model.Status {
	return manager.status
}

func (manager *Manager) applyStatus() {
	manager.statusItem.Label = pomodoro.Format(manager.status)
	menuState := MenuStateFor(manager.status)
	manager.startItem.Disabled = !menuState.CanStart
	manager.pauseItem.Label = menuState.PauseLabel
	manager.pauseItem.Disabled = !menuState.CanToggle
	manager.stopItem.Disabled = !menuState.CanStop
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.stopItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Tasks", invoke(manager.callbacks.OnTasks)),
		fyne.NewMenuItem("Open panel", invoke(manager.callbacks.OnOpenPanel)),
		fyne.NewMenuItem("Import TODOs...", invoke(manager.callbacks.OnImportTodos)),
		fyne.NewMenuItem("Preferences", invoke(manager.callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", invoke(manager.callbacks.OnQuit)),
	))
}

// MenuState describes which timer actions the tray offers for a status.
type MenuState struct {
	CanStart   bool
	CanToggle  bool
	CanStop    bool
	PauseLabel string
}

// MenuStateFor derives the tray actions from status.
func MenuStateFor(status model.Status) MenuState {
	menuState := MenuState{PauseLabel: "Pause"}
	if status.AwaitingDecision {
		menuState.CanStop = true
		return menuState
	}
	switch status.State {
	case model.StateIdle:
		menuState.CanStart = true
	case model.StateRunning:
		menuState.CanToggle = true
		menuState.CanStop = true
	case model.StatePaused:
		menuState.PauseLabel = "Resume"
		menuState.CanToggle = true
		menuState.CanStop = true
	}
	return menuState
}

func invoke(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}
