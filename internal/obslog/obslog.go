// Package obslog configures the process-wide logrus logger used for
// operator-facing diagnostics: executor job lifecycle, watcher debounce
// flushes, and reducer-rejected stale completions. It is distinct from
// RepoState.Diagnostics, which is user-facing state surfaced in AppState.
package obslog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus.Logger writing JSON lines to stderr at level, falling
// back to info if level doesn't parse.
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Component returns a logger entry tagged with a "component" field, the
// convention every executor/watch/store caller in this module uses so log
// lines can be filtered by subsystem.
func Component(l *logrus.Logger, name string) *logrus.Entry {
	return l.WithField("component", name)
}
