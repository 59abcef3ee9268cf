package main

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"pomodorotasks/internal/core/model"
	"pomodorotasks/internal/panel"
	"pomodorotasks/internal/storage"
	"pomodorotasks/internal/ui/preferences"
)

var errInvalidSettings = errors.New("invalid settings")

type configTarget interface {
	UpdateConfig(config model.TimerConfig)
}

// settingsStore owns the current preferences. Saving applies them to the
// timer, persists them and notifies the UI.
type settingsStore struct {
	mu       sync.Mutex
	dir      string
	current  preferences.Settings
	timer    configTarget
	onChange func(preferences.Settings)
}

func newSettingsStore(dir string, settings preferences.Settings, timer configTarget) *settingsStore {
	return &settingsStore{dir: dir, current: settings, timer: timer}
}

func (store *settingsStore) Current() preferences.Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	settings := store.current
	settings.WarningMinutes = slices.Clone(settings.WarningMinutes)
	return settings
}

func (store *settingsStore) Save(settings preferences.Settings) error {
	store.mu.Lock()
	store.current = settings
	onChange := store.onChange
	store.mu.Unlock()

	store.timer.UpdateConfig(settings.TimerConfig())
	if onChange != nil {
		onChange(settings)
	}
	if err := storage.SaveSettings(store.dir, settings); err != nil {
		log.Printf("settings: %v", err)
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// saveOrWarn returns a save handler for the preferences window that reports
// failures through warn.
func (store *settingsStore) saveOrWarn(warn func(message string)) func(preferences.Settings) {
	return func(settings preferences.Settings) {
		if err := store.Save(settings); err != nil {
			warn(fmt.Sprintf("Could not save settings: %v", err))
		}
	}
}

// PanelSettings implements panel.SettingsHandler.
func (store *settingsStore) PanelSettings() panel.Settings {
	settings := store.Current()
	return panel.Settings{
		FocusTime:     int(settings.WorkDuration / time.Minute),
		ShortBreak:    int(settings.ShortBreakDuration / time.Minute),
		LongBreak:     int(settings.LongBreakDuration / time.Minute),
		Notifications: settings.Notifications,
	}
}

// ApplyPanelSettings implements panel.SettingsHandler.
func (store *settingsStore) ApplyPanelSettings(edited panel.Settings) error {
	if edited.FocusTime <= 0 || edited.ShortBreak <= 0 || edited.LongBreak <= 0 {
		return fmt.Errorf("%w: durations must be positive minutes", errInvalidSettings)
	}

	settings := store.Current()
	settings.WorkDuration = time.Duration(edited.FocusTime) * time.Minute
	settings.ShortBreakDuration = time.Duration(edited.ShortBreak) * time.Minute
	settings.LongBreakDuration = time.Duration(edited.LongBreak) * time.Minute
	settings.Notifications = edited.Notifications
	return store.Save(settings)
}
