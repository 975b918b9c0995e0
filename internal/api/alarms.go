package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleAlarmEvents returns recent events for one alarm, newest first.
// An optional ?limit= query parameter caps the result size.
func (s *Server) handleAlarmEvents(w http.ResponseWriter, r *http.Request) {
	if s.alarmLog == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "alarm log not available")
		return
	}

	alarmID := chi.URLParam(r, "id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	events := s.alarmLog.Query(alarmID, limit)

	resp := map[string]any{
		"alarm_id": alarmID,
		"events":   events,
		"count":    len(events),
	}
	if latest, ok := s.alarmLog.Latest(alarmID); ok {
		resp["latest"] = latest
	}
	writeJSON(w, http.StatusOK, resp)
}

// alarmTestRequest is the request body for POST /alarms/{id}/test.
type alarmTestRequest struct {
	Start bool `json:"start"`
}

// handleAlarmTest toggles test mode on one smoke alarm.
func (s *Server) handleAlarmTest(w http.ResponseWriter, r *http.Request) {
	if s.commander == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "command dispatch not available")
		return
	}

	alarmID := chi.URLParam(r, "id")

	var req alarmTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.commander.SendAlarmTest(r.Context(), alarmID, req.Start); err != nil {
		writeError(w, http.StatusBadGateway, ErrCodeInternal, "command delivery failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"alarm_id": alarmID,
		"start":    req.Start,
	})
}
