// Package definition holds the small ambient interfaces the gossip
// engine depends on but that are not part of its dissemination
// contract: a levelled Logger and a protocol-version compatibility
// Gate.
package definition

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// Logger is the levelled logging interface every component in
// pkg/gossip logs through instead of calling log/fmt directly.
// Mirrors the teacher's definition.Logger method set.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})

	// ToggleDebug turns debug-level logging on or off and returns the
	// new value, same convention as the teacher's DefaultLogger.
	ToggleDebug(enabled bool) bool
}

// DefaultLogger is the logrus-backed implementation used when the
// caller does not supply its own Logger. It writes through a
// go-colorable writer, and the message text of Infof, Warnf and
// Errorf is colorized with fatih/color (cyan, yellow, red); Debugf and
// Fatalf messages are not. fatih/color itself decides whether to emit
// color codes, leaving the text plain when stdout is not a terminal.
type DefaultLogger struct {
	entry *logrus.Entry
}

// NewDefaultLogger builds a DefaultLogger writing to stderr, since
// stdout is reserved for the wire protocol under the Maelstrom
// runtime (spec.md 6).
func NewDefaultLogger(name string) *DefaultLogger {
	logger := logrus.New()
	logger.SetOutput(colorable.NewColorable(os.Stderr))
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return &DefaultLogger{entry: logger.WithField("node", name)}
}

func (l *DefaultLogger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *DefaultLogger) Infof(format string, v ...interface{}) {
	l.entry.Infof(colorize(color.FgCyan, format), v...)
}

func (l *DefaultLogger) Warnf(format string, v ...interface{}) {
	l.entry.Warnf(colorize(color.FgYellow, format), v...)
}

func (l *DefaultLogger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(colorize(color.FgRed, format), v...)
}

func (l *DefaultLogger) Fatalf(format string, v ...interface{}) {
	l.entry.Fatalf(format, v...)
}

func (l *DefaultLogger) ToggleDebug(enabled bool) bool {
	if enabled {
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	}
	return enabled
}

func colorize(attr color.Attribute, format string) string {
	return color.New(attr).Sprint(format)
}
