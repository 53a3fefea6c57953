// Package log configures the process-wide logrus logger. The TUI owns
// the terminal, so log output goes to a file in the config directory.
package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup points logrus at a log file under dir and applies level.
// Unknown levels fall back to info; a failed file open silently discards
// logs rather than scribbling over the UI.
func Setup(dir, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logrus.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "sharedeck.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.SetOutput(io.Discard)
		return
	}
	logrus.SetOutput(f)
}

// SetupCLI keeps logs on stderr for non-interactive commands.
func SetupCLI(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
}
