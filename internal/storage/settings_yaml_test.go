package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pomodorotasks/internal/ui/preferences"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettings(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if diff := cmp.Diff(preferences.DefaultSettings(), settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	want := preferences.Settings{
		WorkDuration:       50 * time.Minute,
		ShortBreakDuration: 10 * time.Minute,
		LongBreakDuration:  30 * time.Minute,
		LongBreakInterval:  3,
		Notifications:      false,
		SilentActions:      true,
		WarningMinutes:     []int{5, 1},
		BreakWindow:        false,
		Sound:              true,
	}

	if err := SaveSettings(dir, want); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}
	got, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsIgnoresInvalidValues(t *testing.T) {
	dir := t.TempDir()
	content := "work_minutes: -5\nshort_break_minutes: 7\nlong_break_interval: 0\nwarning_minutes: [0, 2]\n"
	if err := os.WriteFile(filepath.Join(dir, settingsFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	want := preferences.DefaultSettings()
	want.ShortBreakDuration = 7 * time.Minute
	want.WarningMinutes = []int{2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, settingsFileName), []byte("work_minutes: [1"), 0o644); err != nil {
		t.Fatal(err)
	}
	settings, err := LoadSettings(dir)
	if err == nil {
		t.Fatal("LoadSettings() expected error for malformed yaml")
	}
	if diff := cmp.Diff(preferences.DefaultSettings(), settings); diff != "" {
		t.Errorf("fallback settings mismatch (-want +got):\n%s", diff)
	}
}
