package model

import "time"

const (
	DefaultWorkDuration       = 25 * time.Minute
	DefaultShortBreakDuration = 5 * time.Minute
	DefaultLongBreakDuration  = 15 * time.Minute
	DefaultLongBreakInterval  = 4
)

// TimerConfig contains runtime settings for the pomodoro state machine.
type TimerConfig struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration

	// LongBreakInterval is the number of completed work sessions between long breaks.
	LongBreakInterval int

	// Notifications enables the prompts shown when a session expires.
	Notifications bool
	// SilentActions suppresses informational messages for direct commands.
	SilentActions bool
	// WarningMinutes lists the remaining minutes of a work session that trigger a warning.
	WarningMinutes []int
}

// DefaultTimerConfig returns the stock pomodoro cadence.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:       DefaultWorkDuration,
		ShortBreakDuration: DefaultShortBreakDuration,
		LongBreakDuration:  DefaultLongBreakDuration,
		LongBreakInterval:  DefaultLongBreakInterval,
		Notifications:      true,
		WarningMinutes:     []int{1},
	}
}

// Normalized replaces unusable values with defaults.
func (config TimerConfig) Normalized() TimerConfig {
	if config.WorkDuration < time.Minute {
		config.WorkDuration = DefaultWorkDuration
	}
	if config.ShortBreakDuration < time.Minute {
		config.ShortBreakDuration = DefaultShortBreakDuration
	}
	if config.LongBreakDuration < time.Minute {
		config.LongBreakDuration = DefaultLongBreakDuration
	}
	if config.LongBreakInterval <= 0 {
		config.LongBreakInterval = DefaultLongBreakInterval
	}

	warnings := make([]int, 0, len(config.WarningMinutes))
	for _, minutes := range config.WarningMinutes {
		if minutes > 0 {
			warnings = append(warnings, minutes)
		}
	}
	config.WarningMinutes = warnings
	return config
}
