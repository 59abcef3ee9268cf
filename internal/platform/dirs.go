package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Dirs groups the per-user locations the app writes to.
type Dirs struct {
	Config  string
	Data    string
	State   string
	Runtime string
}

// ResolveDirs returns the XDG locations for appName. A non-empty dataOverride
// places every location under that directory, which keeps tests and portable
// installs self-contained.
func ResolveDirs(appName, dataOverride string) Dirs {
	name := slug(appName)
	if dataOverride != "" {
		return Dirs{
			Config:  dataOverride,
			Data:    dataOverride,
			State:   filepath.Join(dataOverride, "state"),
			Runtime: filepath.Join(dataOverride, "run"),
		}
	}

	runtime := xdg.RuntimeDir
	if runtime == "" {
		runtime = os.TempDir()
	}
	return Dirs{
		Config:  filepath.Join(xdg.ConfigHome, name),
		Data:    filepath.Join(xdg.DataHome, name),
		State:   filepath.Join(xdg.StateHome, name),
		Runtime: filepath.Join(runtime, name),
	}
}

// Ensure creates every directory.
func (dirs Dirs) Ensure() error {
	for _, dir := range []string{dirs.Config, dirs.Data, dirs.State, dirs.Runtime} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
