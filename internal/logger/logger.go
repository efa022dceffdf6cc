package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines the time tracker logging contract.
// Implementations should support standard log levels and be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Config holds logger configuration.
type Config struct {
	Debug bool
	// File, when set, receives a rotated copy of every log line.
	File string
}

// CharmLogger adapts charmbracelet/log to the Logger contract.
type CharmLogger struct {
	logger *log.Logger
	closer io.Closer
}

// New creates a CharmLogger writing to stderr and, if configured, to a rotating file.
func New(cfg Config) *CharmLogger {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)
	if cfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, fileWriter)
		closer = fileWriter
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	return &CharmLogger{
		logger: log.NewWithOptions(w, log.Options{
			ReportCaller:    cfg.Debug,
			CallerOffset:    1,
			ReportTimestamp: true,
			Level:           level,
			Prefix:          "timetracker",
		}),
		closer: closer,
	}
}

func (l *CharmLogger) Info(msg string, args ...any) {
	l.logger.Infof(msg, args...)
}

func (l *CharmLogger) Warn(msg string, args ...any) {
	l.logger.Warnf(msg, args...)
}

func (l *CharmLogger) Error(msg string, args ...any) {
	l.logger.Errorf(msg, args...)
}

func (l *CharmLogger) Debug(msg string, args ...any) {
	l.logger.Debugf(msg, args...)
}

// Close releases the log file, if any.
func (l *CharmLogger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Default provides a global default logger writing to stderr.
var Default Logger = New(Config{})
