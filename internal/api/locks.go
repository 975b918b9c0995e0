package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearth-home/hearth-core/internal/lock"
)

// lockCommandRequest is the request body for POST /locks/{id}/command.
// The actor never comes from the body; it is the authenticated subject.
type lockCommandRequest struct {
	Action    string `json:"action"`
	Method    string `json:"method"`
	PIN       string `json:"pin,omitempty"`
	FaceImage string `json:"face_image,omitempty"`
	Username  string `json:"username,omitempty"`
	Secret    string `json:"secret,omitempty"`
}

// handleLockCommand validates and dispatches a lock/unlock command.
//
// Validation failures return 422 with the rejection reason so the UI can
// surface it without a second round-trip; transport failures return 502.
func (s *Server) handleLockCommand(w http.ResponseWriter, r *http.Request) {
	if s.dispatcher == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "command dispatch not available")
		return
	}

	lockID := chi.URLParam(r, "id")

	var req lockCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	form := &lock.FormData{
		PIN:       req.PIN,
		FaceImage: req.FaceImage,
		Username:  req.Username,
		Secret:    req.Secret,
	}

	cmd, err := s.dispatcher.Dispatch(
		r.Context(),
		lockID,
		lock.Action(req.Action),
		lock.Method(req.Method),
		actorFromContext(r.Context()),
		form,
	)
	if err != nil {
		var vErr *lock.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, vErr.Reason)
		case errors.Is(err, lock.ErrUnknownAction), errors.Is(err, lock.ErrUnknownMethod):
			writeBadRequest(w, err.Error())
		case errors.Is(err, lock.ErrMissingActor):
			writeUnauthorized(w, "no actor identity in token")
		default:
			writeError(w, http.StatusBadGateway, ErrCodeInternal, "command delivery failed")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"command_id": cmd.CommandID,
		"lock_id":    cmd.LockID,
		"action":     cmd.Action,
		"method":     cmd.Method,
		"actor":      cmd.Actor,
	})
}
