package platform

import (
	"fmt"
	"os"
	"strings"
)

// Autostart registers the application to launch at login.
type Autostart struct {
	AppName  string
	ExecPath string
}

// NewAutostart describes the running executable.
func NewAutostart(appName string) (*Autostart, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return &Autostart{AppName: appName, ExecPath: execPath}, nil
}

// Enable installs the login entry.
func (autostart *Autostart) Enable() error {
	if autostart.AppName == "" {
		return fmt.Errorf("enable autostart: app name is empty")
	}
	if autostart.ExecPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	if err := autostart.enable(); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

// Disable removes the login entry. A missing entry is not an error.
func (autostart *Autostart) Disable() error {
	if autostart.AppName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}
	if err := autostart.disable(); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func slug(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		name = "pomodoro-tasks"
	}
	return strings.ReplaceAll(name, " ", "-")
}
