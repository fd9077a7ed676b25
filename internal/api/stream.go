package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopcheck/credo/internal/models"
	"github.com/shopcheck/credo/internal/pipeline"
)

// StreamAnalyze runs an analysis while streaming progress events over SSE.
// The stream always ends with a "done" event carrying the full result. A
// client disconnect stops the writes but not the analysis itself; the
// pipeline runs to completion on its own budget.
func (h *Handler) StreamAnalyze(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := make(chan models.Event, 16)
	go func() {
		defer close(events)
		sink := pipeline.SinkFunc(func(ev models.Event) {
			select {
			case events <- ev:
			default:
				// Drop rather than block the pipeline on a slow consumer.
			}
		})
		result := h.analyzer.Analyze(r.Context(), rawURL, sink)
		events <- models.Event{
			Event:  models.EventDone,
			At:     time.Now().UTC(),
			Result: result,
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("url", rawURL).Msg("Stream client disconnected")
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev models.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Event, data)
	return err
}
