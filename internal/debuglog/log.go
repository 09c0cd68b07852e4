package debuglog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF":
		return LevelOff
	default:
		return LevelInfo // Default to INFO
	}
}

func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelInfo:
		return logrus.InfoLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.PanicLevel
	}
}

// Options controls where log output goes and how the file is rotated.
type Options struct {
	// Path of the log file. Defaults to ~/.cyberx/cyberx.log.
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

var (
	mu           sync.Mutex
	currentLevel = LevelOff
	logger       = newDiscardLogger()
	sink         *lumberjack.Logger
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	return l
}

// Setup configures the logging system. It is meant to be called once by the
// host application; nothing is written until it is.
func Setup(level LogLevel, opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	closeSinkLocked()
	currentLevel = level

	if level == LevelOff {
		logger.SetOutput(io.Discard)
		logger.SetLevel(logrus.PanicLevel)
		return nil
	}

	logPath := opts.Path
	if logPath == "" {
		home, _ := os.UserHomeDir()
		logPath = filepath.Join(home, ".cyberx", "cyberx.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// lumberjack opens lazily; open once here so bad paths fail at setup
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	f.Close()

	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	sink = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSize,
		MaxBackups: opts.MaxBackups,
	}
	logger.SetOutput(sink)
	logger.SetLevel(level.logrusLevel())
	return nil
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	logger.SetLevel(level.logrusLevel())
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// Close flushes and closes the log file if open. Logging is disabled afterwards.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := closeSinkLocked()
	logger.SetOutput(io.Discard)
	return err
}

func closeSinkLocked() error {
	if sink == nil {
		return nil
	}
	err := sink.Close()
	sink = nil
	return err
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

// FieldLogger attaches key-value fields to every message.
type FieldLogger struct {
	entry *logrus.Entry
}

// WithFields returns a new logger with the specified fields
func WithFields(fields map[string]interface{}) *FieldLogger {
	return &FieldLogger{entry: logger.WithFields(logrus.Fields(fields))}
}

// WithField is shorthand for a single field.
func WithField(key string, value interface{}) *FieldLogger {
	return &FieldLogger{entry: logger.WithField(key, value)}
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	fl.entry.Debugf(format, args...)
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	fl.entry.Infof(format, args...)
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	fl.entry.Warnf(format, args...)
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	fl.entry.Errorf(format, args...)
}
