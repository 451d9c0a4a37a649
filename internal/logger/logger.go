// Package logger provides component-scoped logging with verbose gating.
// Debug and Info lines are emitted only when the verbose check passes;
// warnings and errors always print.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Logger writes timestamped, component-tagged lines to stderr.
type Logger struct {
	component string
	verbose   func() bool
	writer    io.Writer
}

// Field is a key-value pair appended to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// NewWithCallback creates a logger whose verbosity is decided per line by
// the callback. A nil callback means never verbose.
func NewWithCallback(component string, verbose func() bool) *Logger {
	return &Logger{
		component: component,
		verbose:   verbose,
		writer:    os.Stderr,
	}
}

// WithComponent returns a logger tagged with a different component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component: component,
		verbose:   l.verbose,
		writer:    l.writer,
	}
}

// SetWriter redirects output, mainly for tests.
func (l *Logger) SetWriter(w io.Writer) {
	l.writer = w
}

func (l *Logger) isVerbose() bool {
	return l.verbose != nil && l.verbose()
}

// Debug logs a debug line when verbose.
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.isVerbose() {
		l.log("DEBUG", msg, nil, args...)
	}
}

// Info logs an informational line when verbose.
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.isVerbose() {
		l.log("INFO", msg, nil, args...)
	}
}

// Warn logs a warning. Always shown.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log("WARN", msg, nil, args...)
}

// Error logs an error. Always shown.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.log("ERROR", msg, nil, args...)
}

// InfoWithFields logs an informational line with structured fields when
// verbose.
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.isVerbose() {
		l.log("INFO", msg, fields, args...)
	}
}

func (l *Logger) log(level, msg string, fields []Field, args ...interface{}) {
	component := l.component
	if component == "" {
		component = "main"
	}

	line := fmt.Sprintf("[%s] %s [%s] %s",
		time.Now().Format("15:04:05.000"), level, component, fmt.Sprintf(msg, args...))

	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		line += " [" + strings.Join(parts, " ") + "]"
	}

	// Nothing sensible to do if the logger's own write fails.
	_, _ = fmt.Fprintln(l.writer, line)
}

// F builds an arbitrary field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Err builds an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
