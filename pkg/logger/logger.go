package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	LevelWarn LogLevel = iota - 1
	LevelInfo
	LevelDebug
	LevelTrace
)

var levelNames = map[LogLevel]string{
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
	LevelTrace: "trace",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts the names printed by LogLevel.String, in any case.
// "verbose" is an alias for debug.
func ParseLevel(s string) (LogLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "verbose" {
		return LevelDebug, nil
	}
	for level, levelName := range levelNames {
		if levelName == name {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (want warn, info, debug or trace)", s)
}

// Logger prints operator-facing lines. Warn always prints; Info, Debug and
// Trace print when the level is at least theirs.
type Logger struct {
	*log.Logger
	level LogLevel
}

type Option func(*Logger)

func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.Logger = log.New(w, l.Logger.Prefix(), l.Logger.Flags())
	}
}

func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Logger.Writer(), prefix, l.Logger.Flags())
	}
}

func WithFlags(flags int) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Logger.Writer(), l.Logger.Prefix(), flags)
	}
}

func WithLevel(level LogLevel) Option {
	return func(l *Logger) {
		l.level = level
	}
}

func New(options ...Option) *Logger {
	l := &Logger{
		Logger: log.New(os.Stdout, "", log.LstdFlags),
		level:  LevelInfo,
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

// SetVerbose raises the level to debug, or drops a debug or trace level
// back to info.
func (l *Logger) SetVerbose(verbose bool) {
	switch {
	case verbose && l.level < LevelDebug:
		l.level = LevelDebug
	case !verbose && l.level > LevelInfo:
		l.level = LevelInfo
	}
}

func (l *Logger) Enabled(level LogLevel) bool {
	return level <= l.level
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.printf("WARN: ", format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.Enabled(LevelInfo) {
		l.printf("INFO: ", format, args...)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.Enabled(LevelDebug) {
		l.printf("DEBUG: ", format, args...)
	}
}

func (l *Logger) Trace(format string, args ...interface{}) {
	if l.Enabled(LevelTrace) {
		l.printf("TRACE: ", format, args...)
	}
}

func (l *Logger) printf(prefix, format string, args ...interface{}) {
	l.Logger.Printf(prefix+format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.Logger.Fatalf("FATAL: "+format, args...)
}
