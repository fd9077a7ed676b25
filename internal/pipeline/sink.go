package pipeline

import (
	"time"

	"github.com/shopcheck/credo/internal/models"
)

// EventSink receives progress events in the exact order stages execute.
// Implementations must not block for long; the pipeline emits inline.
type EventSink interface {
	Emit(ev models.Event)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(ev models.Event)

// Emit calls f.
func (f SinkFunc) Emit(ev models.Event) { f(ev) }

// emit sends a named, timestamped event to the sink, if one is attached.
func emit(sink EventSink, name, message string) {
	if sink == nil {
		return
	}
	sink.Emit(models.Event{
		Event:   name,
		Message: message,
		At:      time.Now().UTC(),
	})
}
