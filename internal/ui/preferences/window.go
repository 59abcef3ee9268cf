package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	work          *widget.Entry
	shortBreak    *widget.Entry
	longBreak     *widget.Entry
	interval      *widget.Entry
	warnings      *widget.Entry
	notifications *widget.Check
	silent        *widget.Check
	breakWindow   *widget.Check
	sound         *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Pomodoro Tasks Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		work:          widget.NewEntry(),
		shortBreak:    widget.NewEntry(),
		longBreak:     widget.NewEntry(),
		interval:      widget.NewEntry(),
		warnings:      widget.NewEntry(),
		notifications: widget.NewCheck("Show session prompts", nil),
		silent:        widget.NewCheck("Silent start/pause/stop messages", nil),
		breakWindow:   widget.NewCheck("Show break window", nil),
		sound:         widget.NewCheck("Play warning sound", nil),
	}
	prefs.warnings.SetPlaceHolder("e.g. 5, 1")
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Focus session"), prefs.work, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), prefs.shortBreak, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), prefs.longBreak, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break every"), prefs.interval, widget.NewLabel("pomodoros")),
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.notifications,
		prefs.silent,
		container.NewHBox(widget.NewLabel("Warn at"), prefs.warnings, widget.NewLabel("min left")),
		prefs.sound,
		prefs.breakWindow,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 460))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.work.SetText(fmt.Sprintf("%d", int(settings.WorkDuration.Minutes())))
	prefs.shortBreak.SetText(fmt.Sprintf("%d", int(settings.ShortBreakDuration.Minutes())))
	prefs.longBreak.SetText(fmt.Sprintf("%d", int(settings.LongBreakDuration.Minutes())))
	prefs.interval.SetText(strconv.Itoa(settings.LongBreakInterval))
	prefs.warnings.SetText(FormatMinutes(settings.WarningMinutes))
	prefs.notifications.SetChecked(settings.Notifications)
	prefs.silent.SetChecked(settings.SilentActions)
	prefs.breakWindow.SetChecked(settings.BreakWindow)
	prefs.sound.SetChecked(settings.Sound)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.work.Text); ok {
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.shortBreak.Text); ok {
		settings.ShortBreakDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.longBreak.Text); ok {
		settings.LongBreakDuration = time.Duration(minutes) * time.Minute
	}
	if count, ok := parsePositiveInt(prefs.interval.Text); ok {
		settings.LongBreakInterval = count
	}
	settings.WarningMinutes = ParseMinutes(prefs.warnings.Text)

	settings.Notifications = prefs.notifications.Checked
	settings.SilentActions = prefs.silent.Checked
	settings.BreakWindow = prefs.breakWindow.Checked
	settings.Sound = prefs.sound.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

// ParseMinutes reads a comma separated list of positive minutes. Invalid
// entries are skipped.
func ParseMinutes(value string) []int {
	var minutes []int
	for _, field := range strings.Split(value, ",") {
		if parsed, ok := parsePositiveInt(strings.TrimSpace(field)); ok {
			minutes = append(minutes, parsed)
		}
	}
	return minutes
}

// FormatMinutes is the inverse of ParseMinutes.
func FormatMinutes(minutes []int) string {
	fields := make([]string, 0, len(minutes))
	for _, value := range minutes {
		fields = append(fields, strconv.Itoa(value))
	}
	return strings.Join(fields, ", ")
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
