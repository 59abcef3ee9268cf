package breakview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodorotasks/internal/core/model"
	"pomodorotasks/internal/core/pomodoro"
)

const (
	windowWidthFraction  = float32(0.18)
	windowHeightFraction = float32(0.20)
	defaultScreenWidth   = float32(1920)
	defaultScreenHeight  = float32(1080)
)

var (
	accentColor = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	textColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window shows the countdown of a running break.
type Window struct {
	window     fyne.Window
	background *canvas.Rectangle
	title      *canvas.Text
	subtitle   *canvas.Text
	countdown  *canvas.Text
	stopButton *widget.Button
	visible    bool
	onStop     func()
}

// New creates a hidden break window.
func New(app fyne.App) *Window {
	window := app.NewWindow("Break")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	view := &Window{
		window:     window,
		background: canvas.NewRectangle(color.NRGBA{A: 220}),
		title:      newText(21, textColor),
		subtitle:   newText(14, textColor),
		countdown:  newText(28, accentColor),
	}
	view.stopButton = widget.NewButton("Stop", func() {
		if view.onStop != nil {
			view.onStop()
		}
	})

	content := container.NewVBox(
		view.title,
		view.subtitle,
		view.countdown,
		container.NewHBox(layout.NewSpacer(), view.stopButton),
	)
	window.SetContent(container.NewStack(view.background, container.NewPadded(content)))
	window.SetCloseIntercept(view.Hide)
	return view
}

// SetOnStop sets the Stop button handler.
func (view *Window) SetOnStop(handler func()) {
	view.onStop = handler
}

// Update mirrors status. The window shows itself for a running or paused
// break and hides otherwise. Must be called on the fyne thread.
func (view *Window) Update(status model.Status) {
	caption, ok := CaptionFor(status)
	if !ok {
		view.Hide()
		return
	}

	view.title.Text = caption.Title
	view.subtitle.Text = caption.Subtitle
	view.countdown.Text = caption.Countdown
	view.title.Refresh()
	view.subtitle.Refresh()
	view.countdown.Refresh()

	if !view.visible {
		view.visible = true
		view.resizeToScreenFraction()
		view.window.Show()
	}
}

// Hide closes the window.
func (view *Window) Hide() {
	view.visible = false
	view.window.Hide()
}

func (view *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := view.window.Canvas().Size()
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * windowWidthFraction
	height := screenSize.Height * windowHeightFraction
	minSize := view.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}
	view.window.Resize(fyne.NewSize(width, height))
	view.window.CenterOnScreen()
}

// Caption is the text shown for a break.
type Caption struct {
	Title     string
	Subtitle  string
	Countdown string
}

// CaptionFor returns the caption of a break status. ok is false when no break
// is in progress.
func CaptionFor(status model.Status) (Caption, bool) {
	if status.State == model.StateIdle || !status.SessionKind.IsBreak() || status.AwaitingDecision {
		return Caption{}, false
	}

	caption := Caption{
		Title:     pomodoro.Icon(status.SessionKind) + " " + pomodoro.Label(status.SessionKind),
		Subtitle:  "Step away from the screen",
		Countdown: pomodoro.FormatTime(status.RemainingTime),
	}
	if status.SessionKind == model.SessionLongBreak {
		caption.Subtitle = "Take a real rest"
	}
	if status.State == model.StatePaused {
		caption.Countdown += " ⏸"
	}
	return caption, true
}

func newText(size float32, fill color.Color) *canvas.Text {
	text := canvas.NewText("", fill)
	text.Alignment = fyne.TextAlignLeading
	text.TextStyle = fyne.TextStyle{Bold: true}
	text.TextSize = size
	return text
}
