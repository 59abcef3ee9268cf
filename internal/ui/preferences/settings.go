package preferences

import (
	"slices"
	"time"

	"pomodorotasks/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	LongBreakInterval  int

	Notifications  bool
	SilentActions  bool
	WarningMinutes []int

	BreakWindow bool
	Sound       bool
}

// DefaultSettings returns default settings for Pomodoro Tasks.
func DefaultSettings() Settings {
	config := model.DefaultTimerConfig()
	return Settings{
		WorkDuration:       config.WorkDuration,
		ShortBreakDuration: config.ShortBreakDuration,
		LongBreakDuration:  config.LongBreakDuration,
		LongBreakInterval:  config.LongBreakInterval,
		Notifications:      config.Notifications,
		SilentActions:      config.SilentActions,
		WarningMinutes:     config.WarningMinutes,
		BreakWindow:        true,
		Sound:              true,
	}
}

// TimerConfig converts settings to the timer configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkDuration:       settings.WorkDuration,
		ShortBreakDuration: settings.ShortBreakDuration,
		LongBreakDuration:  settings.LongBreakDuration,
		LongBreakInterval:  settings.LongBreakInterval,
		Notifications:      settings.Notifications,
		SilentActions:      settings.SilentActions,
		WarningMinutes:     slices.Clone(settings.WarningMinutes),
	}.Normalized()
}
