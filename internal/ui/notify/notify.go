// Package notify shows timer messages as desktop notifications and asks the
// end-of-session question in a small prompt window.
package notify

import (
	"context"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const title = "Pomodoro Tasks"

// PromptFunc shows message with one button per option and calls answer with
// the picked option, or with "" when the prompt is closed. It returns a
// function that dismisses the prompt.
type PromptFunc func(message string, options []string, answer func(string)) (dismiss func())

// Notifier delivers timer messages through fyne.
type Notifier struct {
	send   func(*fyne.Notification)
	prompt PromptFunc
	// do runs fn on the fyne thread and waits for it.
	do func(fn func())
}

// New creates a notifier bound to app.
func New(app fyne.App) *Notifier {
	return &Notifier{
		send:   app.SendNotification,
		prompt: windowPrompt(app),
		do:     fyne.DoAndWait,
	}
}

// Info shows an informational notification.
func (notifier *Notifier) Info(message string) {
	notifier.send(fyne.NewNotification(title, message))
}

// Warn shows a warning notification.
func (notifier *Notifier) Warn(message string) {
	log.Printf("notify: %s", message)
	notifier.send(fyne.NewNotification(title+" ⚠", message))
}

// Choose blocks until an option is picked, the prompt is closed, or ctx is done.
func (notifier *Notifier) Choose(ctx context.Context, message string, options ...string) (string, error) {
	answers := make(chan string, 1)
	var once sync.Once
	answer := func(choice string) {
		once.Do(func() { answers <- choice })
	}

	var dismiss func()
	notifier.do(func() {
		dismiss = notifier.prompt(message, options, answer)
	})

	select {
	case choice := <-answers:
		return choice, nil
	case <-ctx.Done():
		if dismiss != nil {
			notifier.do(dismiss)
		}
		return "", ctx.Err()
	}
}

func windowPrompt(app fyne.App) PromptFunc {
	return func(message string, options []string, answer func(string)) func() {
		window := app.NewWindow(title)
		closed := false
		closeWindow := func() {
			if closed {
				return
			}
			closed = true
			window.Close()
		}

		buttons := container.NewHBox(layout.NewSpacer())
		for index, option := range options {
			choice := option
			button := widget.NewButton(choice, func() {
				answer(choice)
				closeWindow()
			})
			if index == 0 {
				button.Importance = widget.HighImportance
			}
			buttons.Add(button)
		}

		label := widget.NewLabel(message)
		label.Wrapping = fyne.TextWrapWord
		window.SetContent(container.NewBorder(nil, buttons, nil, nil, label))
		window.SetCloseIntercept(func() {
			answer("")
			closeWindow()
		})
		window.Resize(fyne.NewSize(380, 140))
		window.CenterOnScreen()
		window.Show()
		window.RequestFocus()
		return closeWindow
	}
}
