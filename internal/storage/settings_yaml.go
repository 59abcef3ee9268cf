package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pomodorotasks/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes       int   `yaml:"work_minutes"`
	ShortBreakMinutes int   `yaml:"short_break_minutes"`
	LongBreakMinutes  int   `yaml:"long_break_minutes"`
	LongBreakInterval int   `yaml:"long_break_interval"`
	ShowNotifications *bool `yaml:"show_notifications,omitempty"`
	SilentActions     bool  `yaml:"silent_actions"`
	WarningMinutes    []int `yaml:"warning_minutes,flow"`
	BreakWindow       *bool `yaml:"break_window,omitempty"`
	WarningSound      *bool `yaml:"warning_sound,omitempty"`
}

// LoadSettings reads user preferences from dir/settings.yaml.
// If the file does not exist, default settings are returned.
func LoadSettings(dir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(filepath.Join(dir, settingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to dir/settings.yaml.
func SaveSettings(dir string, settings preferences.Settings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		WorkMinutes:       int(settings.WorkDuration / time.Minute),
		ShortBreakMinutes: int(settings.ShortBreakDuration / time.Minute),
		LongBreakMinutes:  int(settings.LongBreakDuration / time.Minute),
		LongBreakInterval: settings.LongBreakInterval,
		ShowNotifications: &settings.Notifications,
		SilentActions:     settings.SilentActions,
		WarningMinutes:    settings.WarningMinutes,
		BreakWindow:       &settings.BreakWindow,
		WarningSound:      &settings.Sound,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, settingsFileName), serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkDuration = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreakDuration = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreakDuration = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.LongBreakInterval > 0 {
		settings.LongBreakInterval = fileData.LongBreakInterval
	}

	if fileData.WarningMinutes != nil {
		warnings := make([]int, 0, len(fileData.WarningMinutes))
		for _, minutes := range fileData.WarningMinutes {
			if minutes > 0 {
				warnings = append(warnings, minutes)
			}
		}
		settings.WarningMinutes = warnings
	}

	if fileData.ShowNotifications != nil {
		settings.Notifications = *fileData.ShowNotifications
	}
	if fileData.BreakWindow != nil {
		settings.BreakWindow = *fileData.BreakWindow
	}
	if fileData.WarningSound != nil {
		settings.Sound = *fileData.WarningSound
	}
	settings.SilentActions = fileData.SilentActions
}
