// Package log wraps log/slog with a rotating file destination and a nil-
// tolerant call surface, so library code can log unconditionally and tests
// can pass a discard logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// New creates a JSON logger writing to a rotating file under dir, which
// defaults to the user config directory.
func New(level string, dir string) *Logger {
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "unable to find user config dir: %v\n", err)
			dir = "."
		}
		dir = filepath.Join(dir, "movingmap")
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "movingmap.slog"),
		MaxSize:    32, // MB
		MaxBackups: 1,
	}
	if level == "debug" {
		w.MaxSize = 256
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	l := &Logger{
		Logger:  slog.New(h),
		LogFile: w.Filename,
		Start:   time.Now(),
	}

	l.Info("starting",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))

	return l
}

// Discard returns a logger that throws everything away; tests use it.
func Discard() *Logger {
	h := slog.NewTextHandler(io.Discard, nil)
	return &Logger{Logger: slog.New(h), Start: time.Now()}
}

// The wrappers below tolerate a nil *Logger so that components need not
// guard every call site.

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil {
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil {
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l != nil {
		l.Logger.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l != nil {
		l.Logger.Error(msg, args...)
	}
}
