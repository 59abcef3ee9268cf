package tasklist

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomodorotasks/internal/core/model"
)

// Actions are invoked from the list window. They run on the fyne thread and
// must not block.
type Actions struct {
	OnStart    func(task model.Task)
	OnComplete func(id string)
	OnDelete   func(id string)
	OnAdd      func(name string, estimated int)
}

// Window shows the task list.
type Window struct {
	app      fyne.App
	window   fyne.Window
	actions  Actions
	list     *widget.List
	detail   *widget.Label
	name     *widget.Entry
	estimate *widget.Entry
	tasks    []model.Task
	selected int
	buttons  []*widget.Button
	openFile *widget.Button
}

// New creates the task list window.
func New(app fyne.App, actions Actions) *Window {
	window := &Window{
		app:      app,
		window:   app.NewWindow("Pomodoro Tasks"),
		actions:  actions,
		detail:   widget.NewLabel("Select a task"),
		name:     widget.NewEntry(),
		estimate: widget.NewEntry(),
		selected: -1,
	}
	window.detail.Wrapping = fyne.TextWrapWord
	window.name.SetPlaceHolder("New task name")
	window.estimate.SetPlaceHolder("1")
	window.name.OnSubmitted = func(string) { window.handleAdd() }

	window.list = widget.NewList(
		func() int { return len(window.tasks) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, widget.NewIcon(theme.RadioButtonIcon()), widget.NewLabel("0/0 🍅"), widget.NewLabel("task"))
		},
		window.updateRow,
	)
	window.list.OnSelected = func(id widget.ListItemID) {
		window.selected = id
		window.refreshDetail()
	}
	window.list.OnUnselected = func(widget.ListItemID) {
		window.selected = -1
		window.refreshDetail()
	}

	start := widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		if task, ok := window.selectedTask(); ok && window.actions.OnStart != nil {
			window.actions.OnStart(task)
		}
	})
	complete := widget.NewButtonWithIcon("Complete", theme.ConfirmIcon(), func() {
		if task, ok := window.selectedTask(); ok && window.actions.OnComplete != nil {
			window.actions.OnComplete(task.ID)
		}
	})
	remove := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if task, ok := window.selectedTask(); ok && window.actions.OnDelete != nil {
			window.actions.OnDelete(task.ID)
		}
	})
	window.openFile = widget.NewButtonWithIcon("Open file", theme.FileIcon(), window.handleOpen)
	window.buttons = []*widget.Button{start, complete, remove}

	addRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(window.estimate, widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), window.handleAdd)),
		window.name,
	)
	toolbar := container.NewHBox(start, complete, remove, window.openFile)
	bottom := container.NewVBox(window.detail, toolbar, addRow)

	window.window.SetContent(container.NewBorder(nil, bottom, nil, nil, window.list))
	window.window.Resize(fyne.NewSize(460, 520))
	window.window.SetCloseIntercept(window.window.Hide)
	window.refreshDetail()
	return window
}

// Show displays the window.
func (window *Window) Show() {
	window.window.Show()
	window.window.RequestFocus()
}

// SetTasks replaces the rows. Must be called on the fyne thread.
func (window *Window) SetTasks(tasks []model.Task) {
	selectedID := ""
	if task, ok := window.selectedTask(); ok {
		selectedID = task.ID
	}

	window.tasks = append(window.tasks[:0], tasks...)
	window.selected = -1
	for index, task := range window.tasks {
		if task.ID == selectedID {
			window.selected = index
		}
	}
	window.list.Refresh()
	if window.selected >= 0 {
		window.list.Select(window.selected)
	} else {
		window.list.UnselectAll()
	}
	window.refreshDetail()
}

func (window *Window) updateRow(id widget.ListItemID, object fyne.CanvasObject) {
	if id < 0 || id >= len(window.tasks) {
		return
	}
	item := Present(window.tasks[id])
	// Border containers hold the center object first, then left and right.
	row := object.(*fyne.Container)
	row.Objects[0].(*widget.Label).SetText(item.Label)
	row.Objects[1].(*widget.Icon).SetResource(iconResource(item.Icon))
	row.Objects[2].(*widget.Label).SetText(item.Description)
}

func (window *Window) refreshDetail() {
	task, ok := window.selectedTask()
	for _, button := range window.buttons {
		if ok {
			button.Enable()
		} else {
			button.Disable()
		}
	}
	if _, hasFile := BookmarkURL(task); ok && hasFile {
		window.openFile.Enable()
	} else {
		window.openFile.Disable()
	}

	if !ok {
		window.detail.SetText("Select a task")
		return
	}
	window.detail.SetText(Present(task).Tooltip)
}

func (window *Window) selectedTask() (model.Task, bool) {
	if window.selected < 0 || window.selected >= len(window.tasks) {
		return model.Task{}, false
	}
	return window.tasks[window.selected], true
}

func (window *Window) handleAdd() {
	name := strings.TrimSpace(window.name.Text)
	if name == "" || window.actions.OnAdd == nil {
		return
	}
	estimated, err := strconv.Atoi(strings.TrimSpace(window.estimate.Text))
	if err != nil || estimated <= 0 {
		estimated = 1
	}
	window.actions.OnAdd(name, estimated)
	window.name.SetText("")
	window.estimate.SetText("")
}

func (window *Window) handleOpen() {
	task, ok := window.selectedTask()
	if !ok {
		return
	}
	if target, ok := BookmarkURL(task); ok {
		_ = window.app.OpenURL(target)
	}
}

func iconResource(kind IconKind) fyne.Resource {
	switch kind {
	case IconDone:
		return theme.ConfirmIcon()
	case IconInProgress:
		return theme.HistoryIcon()
	default:
		return theme.RadioButtonIcon()
	}
}
