package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearth-home/hearth-core/internal/state"
)

// handleListDevices returns all known devices in first-seen order.
// An optional ?kind= query parameter filters by device kind.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	kind := state.Kind(r.URL.Query().Get("kind"))

	switch kind {
	case "", state.KindClimate, state.KindLock, state.KindLight, state.KindAlarm:
	default:
		writeBadRequest(w, "unknown device kind: "+string(kind))
		return
	}

	devices := s.store.List(kind)
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleGetDevice returns the last-known state of one device.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, state.ErrDeviceNotFound) {
			writeNotFound(w, "device not found: "+id)
			return
		}
		writeInternalError(w, "failed to load device")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}
