// Package logger builds the logrus logger used by the command line tools.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file written inside the configured logs directory.
const FileName = "vpctl.log"

// Config is the subset of the application configuration the logger reads.
type Config interface {
	GetLogLevel() string
	GetLogDirectory() string
	GetLogMaxSizeMB() int
	GetLogMaxBackups() int
	GetLogMaxAgeDays() int
}

// New returns a logger writing to stdout and, when a logs directory is set,
// to a rotated file in it. Terminals get text output, everything else JSON.
func New(cfg Config) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput is New with an explicit console writer.
func NewWithOutput(cfg Config, console io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(ParseLevel(cfg.GetLogLevel()))

	if isTerminal(console) {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	out := console
	if dir := cfg.GetLogDirectory(); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			l.SetOutput(console)
			l.WithError(err).Warn("logs directory unavailable, logging to console only")
			return l
		}
		out = io.MultiWriter(console, &lumberjack.Logger{
			Filename:   filepath.Join(dir, FileName),
			MaxSize:    cfg.GetLogMaxSizeMB(),
			MaxBackups: cfg.GetLogMaxBackups(),
			MaxAge:     cfg.GetLogMaxAgeDays(),
			Compress:   true,
		})
	}
	l.SetOutput(out)
	return l
}

// ParseLevel maps a configured level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
