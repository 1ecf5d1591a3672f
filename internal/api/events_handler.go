package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"medibook/internal/service"
)

// EventsHandler streams schedule-change events over SSE so open booking pages
// can refresh when a doctor's calendar changes underneath them.
type EventsHandler struct {
	Push *service.PushService
}

func NewEventsHandler(push *service.PushService) *EventsHandler {
	return &EventsHandler{Push: push}
}

func (h *EventsHandler) StreamDoctorSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID := mux.Vars(r)["id"]
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, cancel, err := h.Push.Subscribe(r.Context(), doctorID)
	if err != nil {
		log.Error().Err(err).Str("doctor", doctorID).Msg("could not subscribe to schedule events")
		http.Error(w, "subscription failed", http.StatusInternalServerError)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
