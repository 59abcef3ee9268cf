// Package logging routes the standard logger to stderr and a rotating file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file written inside the state directory.
const FileName = "pomodoro-tasks.log"

// Setup points the standard logger at stderr and a rotating log file in dir.
// The returned closer flushes and closes the file.
func Setup(dir string) (io.Closer, error) {
	return setup(dir, os.Stderr)
}

func setup(dir string, console io.Writer) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(dir, FileName),
		MaxSize:    10,
		MaxAge:     14,
		MaxBackups: 3,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(console, fileLogger))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return fileLogger, nil
}
