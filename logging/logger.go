// Package logging wraps zerolog with key/value field helpers and a process wide default
// logger.
package logging

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var ErrUnknownFormat = errors.New("unknown log format")

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Logger wraps zerolog.Logger and carries fields attached with With
type Logger struct {
	zl     zerolog.Logger
	fields map[string]interface{}
}

var global = NewConsole(os.Stderr, zerolog.InfoLevel)

// New creates a logger writing to w in the given format ("json" or "console") at the
// named level. An empty level defaults to info.
func New(w io.Writer, level, format string) (*Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q, %w", level, err)
		}
	}

	switch strings.ToLower(format) {
	case FormatConsole, "pretty":
		return NewConsole(w, lvl), nil
	case FormatJSON, "":
		return NewWithWriter(w, lvl), nil
	default:
		return nil, fmt.Errorf("got %q, %w", format, ErrUnknownFormat)
	}
}

// NewWithWriter creates a JSON logger with a custom writer
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	zl := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{
		zl:     zl,
		fields: make(map[string]interface{}),
	}
}

// NewConsole creates a logger with human readable console output
func NewConsole(w io.Writer, level zerolog.Level) *Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}, level)
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{
		zl:     zerolog.Nop(),
		fields: make(map[string]interface{}),
	}
}

// SetGlobal replaces the default logger
func SetGlobal(logger *Logger) {
	if logger == nil {
		return
	}
	global = logger
}

// Global returns the default logger
func Global() *Logger {
	return global
}

// OrGlobal returns l unless it is nil
func OrGlobal(l *Logger) *Logger {
	if l == nil {
		return global
	}
	return l
}

func (l *Logger) emit(e *zerolog.Event, msg string, fields []interface{}) {
	for k, v := range l.fields {
		e.Interface(k, v)
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		if err, ok := fields[i+1].(error); ok {
			e.Str(key, err.Error())
			continue
		}
		e.Interface(key, fields[i+1])
	}
	e.Msg(msg)
}

// Debug logs a debug message with key/value pairs
func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info logs an info message with key/value pairs
func (l *Logger) Info(msg string, fields ...interface{}) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn logs a warning message with key/value pairs
func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error logs an error message with key/value pairs
func (l *Logger) Error(msg string, fields ...interface{}) {
	l.emit(l.zl.Error(), msg, fields)
}

// With creates a child logger with additional fields
func (l *Logger) With(fields ...interface{}) *Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields)/2)
	maps.Copy(newFields, l.fields)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		newFields[key] = fields[i+1]
	}

	return &Logger{
		zl:     l.zl,
		fields: newFields,
	}
}

// Level reports the minimum level emitted by the logger
func (l *Logger) Level() zerolog.Level {
	return l.zl.GetLevel()
}
