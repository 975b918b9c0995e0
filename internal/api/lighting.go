package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearth-home/hearth-core/internal/state"
)

// handleLightingSample generates one ambient sample for a light and, when
// the light has auto mode enabled, pushes it to the device.
func (s *Server) handleLightingSample(w http.ResponseWriter, r *http.Request) {
	if s.lighting == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "lighting controller not available")
		return
	}

	lightID := chi.URLParam(r, "id")

	sample, err := s.lighting.Sample(lightID)
	if err != nil {
		if errors.Is(err, state.ErrDeviceNotFound) {
			writeNotFound(w, "light not found: "+lightID)
			return
		}
		writeInternalError(w, "sampling failed")
		return
	}

	sent := false
	if sample.ShouldSend && s.commander != nil {
		if err := s.commander.SendAutoAdjust(r.Context(), lightID, sample.RoomBrightness); err != nil {
			s.logger.Warn("auto-adjust send failed", "light_id", lightID, "error", err)
		} else {
			sent = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"room_brightness": sample.RoomBrightness,
		"should_send":     sample.ShouldSend,
		"sent":            sent,
	})
}

// lightingControlRequest is the request body for POST /lighting/{id}/control.
type lightingControlRequest struct {
	Power      *bool    `json:"power,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
	ColorTemp  *float64 `json:"color_temp,omitempty"`
	AutoMode   *bool    `json:"auto_mode,omitempty"`
}

// handleLightingControl publishes an attribute-change command to a light.
// The store is not touched here; the change lands when the device reports
// it back.
func (s *Server) handleLightingControl(w http.ResponseWriter, r *http.Request) {
	if s.commander == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "command dispatch not available")
		return
	}

	lightID := chi.URLParam(r, "id")

	var req lightingControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	changes := make(map[string]any)
	if req.Power != nil {
		changes["power"] = *req.Power
	}
	if req.Brightness != nil {
		changes["brightness"] = *req.Brightness
	}
	if req.ColorTemp != nil {
		changes["color_temp"] = *req.ColorTemp
	}
	if req.AutoMode != nil {
		changes["auto_mode"] = *req.AutoMode
	}
	if len(changes) == 0 {
		writeBadRequest(w, "no attributes to change")
		return
	}

	if err := s.commander.SendDeviceControl(r.Context(), state.KindLight, lightID, changes); err != nil {
		writeError(w, http.StatusBadGateway, ErrCodeInternal, "command delivery failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"light_id": lightID,
		"changes":  changes,
	})
}
