package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// Device state reads
			r.Route("/devices", func(r chi.Router) {
				r.Get("/", s.handleListDevices)
				r.Get("/{id}", s.handleGetDevice)
			})

			// Lock command dispatch
			r.Post("/locks/{id}/command", s.handleLockCommand)

			// Lighting control and ambient sampling
			r.Route("/lighting/{id}", func(r chi.Router) {
				r.Post("/sample", s.handleLightingSample)
				r.Post("/control", s.handleLightingControl)
			})

			// Alarm history and test mode
			r.Route("/alarms/{id}", func(r chi.Router) {
				r.Get("/events", s.handleAlarmEvents)
				r.Post("/test", s.handleAlarmTest)
			})

			// WebSocket (token via header or query parameter)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status and remote connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"version": s.version,
		"devices": s.store.Count(),
	}
	if s.guard != nil {
		resp["connectivity"] = s.guard.Status()
	}
	writeJSON(w, http.StatusOK, resp)
}
