// Package engine drives the municipal cadastral form in a live browser page.
// It provides the low-level interaction primitives (event simulation, bounded
// condition waits, heuristic control location) and the two composite drivers
// (dropdown selection, lookup-modal search) that the section handlers build on.
package engine

import "fmt"

// Logger is the observability interface used across the engine.
type Logger interface {
	Printf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// SimpleLogger is a basic logger implementation writing to stdout.
type SimpleLogger struct{}

func (sl *SimpleLogger) Printf(format string, v ...interface{}) {
	fmt.Printf(format+"\n", v...)
}

func (sl *SimpleLogger) Errorf(format string, v ...interface{}) {
	fmt.Printf("ERROR: "+format+"\n", v...)
}

// Severity tags for operator-facing progress lines. The console log is the
// only feedback the operator gets during a run, so every material action
// emits one of these.
const (
	TagInfo    = "ℹ️ "
	TagSuccess = "✅"
	TagWarning = "⚠️ "
	TagError   = "❌"
)

// Info logs an informational progress line.
func Info(l Logger, format string, v ...interface{}) {
	l.Printf(TagInfo+" "+format, v...)
}

// Success logs a completed-action line.
func Success(l Logger, format string, v ...interface{}) {
	l.Printf(TagSuccess+" "+format, v...)
}

// Warning logs a recoverable problem. Warnings never abort a run.
func Warning(l Logger, format string, v ...interface{}) {
	l.Printf(TagWarning+" "+format, v...)
}

// Error logs a failure that was swallowed at this level.
func Error(l Logger, format string, v ...interface{}) {
	l.Errorf(TagError+" "+format, v...)
}
