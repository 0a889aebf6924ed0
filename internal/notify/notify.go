// Package notify sends operational alerts about auto-apply runs and orders.
package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Level is the severity of an event.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelAlert   Level = "alert"
)

// Field is one labeled detail of an event.
type Field struct {
	Key   string
	Value string
}

// Event is a single notification.
type Event struct {
	Level  Level
	Title  string
	Fields []Field
}

// With returns a copy of e with an extra field. Empty values are skipped.
func (e Event) With(key, value string) Event {
	if value == "" {
		return e
	}
	fields := make([]Field, len(e.Fields), len(e.Fields)+1)
	copy(fields, e.Fields)
	e.Fields = append(fields, Field{Key: key, Value: value})
	return e
}

// String renders the event as a single log line.
func (e Event) String() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s=%s", f.Key, f.Value))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("[%s] %s", e.Level, e.Title)
	}
	return fmt.Sprintf("[%s] %s (%s)", e.Level, e.Title, strings.Join(parts, ", "))
}

// Notifier delivers events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier writes events to the standard logger.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, event Event) error {
	log.Printf("[notify] %s", event)
	return nil
}

// Send delivers an event and logs delivery failures. A nil notifier is a no-op.
func Send(ctx context.Context, n Notifier, event Event) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, event); err != nil {
		log.Printf("[notify] Warning: failed to deliver %q: %v", event.Title, err)
	}
}
