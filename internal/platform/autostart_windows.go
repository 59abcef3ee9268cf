//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (autostart *Autostart) enable() error {
	command := exec.Command("reg", "add", registryRunKey,
		"/v", autostart.AppName,
		"/t", "REG_SZ",
		"/d", quoteWindowsPath(autostart.ExecPath)+" run",
		"/f",
	)
	if output, err := command.CombinedOutput(); err != nil {
		return fmt.Errorf("reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (autostart *Autostart) disable() error {
	command := exec.Command("reg", "delete", registryRunKey, "/v", autostart.AppName, "/f")
	if output, err := command.CombinedOutput(); err != nil {
		return fmt.Errorf("reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func quoteWindowsPath(execPath string) string {
	return fmt.Sprintf(`"%s"`, strings.Trim(execPath, `"`))
}
