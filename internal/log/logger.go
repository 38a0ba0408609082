// Package log wraps slog with a component attribute so each pipeline stage
// tags its own lines.
package log

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with a component name attached to every record.
type Logger struct {
	*slog.Logger
	component string
}

// New creates a text-handler logger writing to stdout at the given level.
func New(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler), component: "app"}
}

// FromSlog wraps an existing slog logger, e.g. a test writer. A nil logger
// falls back to the process default.
func FromSlog(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{Logger: l, component: "app"}
}

// WithComponent returns a logger whose records carry the component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With("component", component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the wrapped logger as the process default.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
