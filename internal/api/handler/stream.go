package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/signullgame/signull/internal/api/response"
	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/services/room"
)

// pingPeriod is the time between SSE keepalive comments
const pingPeriod = 30 * time.Second

// StreamHandler streams committed room snapshots over SSE
type StreamHandler struct {
	controller *room.Controller
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(controller *room.Controller) *StreamHandler {
	return &StreamHandler{
		controller: controller,
	}
}

// Events handles GET /api/v1/rooms/{code}/events.
// Each committed mutation arrives as a "room-update" event carrying the
// spectator projection; a "room-closed" event ends the stream when the room
// is torn down.
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// The room must exist before the stream opens
	initial, err := h.controller.GetRoom(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	snapshots, cancel := h.controller.Subscribe(code)
	defer cancel()

	// Send the current state immediately so the client never starts blind
	if !writeRoomEvent(w, flusher, initial) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			if snapshot == nil {
				// Teardown tombstone
				_, _ = w.Write([]byte("event: room-closed\ndata: {}\n\n"))
				flusher.Flush()
				return
			}
			if !writeRoomEvent(w, flusher, snapshot) {
				return
			}

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// writeRoomEvent writes one snapshot as an SSE event, reporting whether the
// connection is still usable
func writeRoomEvent(w http.ResponseWriter, flusher http.Flusher, snapshot *model.Room) bool {
	data, err := json.Marshal(response.RoomFromModel(snapshot))
	if err != nil {
		return false
	}
	if _, err := w.Write([]byte("event: room-update\ndata: ")); err != nil {
		return false
	}
	if _, err := w.Write(data); err != nil {
		return false
	}
	if _, err := w.Write([]byte("\n\n")); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
