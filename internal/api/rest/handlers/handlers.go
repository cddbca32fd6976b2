// Package handlers implements the REST API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/websocket"
	"github.com/taskdeck/taskdeck/pkg/logger"
	"github.com/taskdeck/taskdeck/pkg/metrics"
)

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Health    *HealthHandler
	Schedule  *ScheduleHandler
	Translate *TranslateHandler
	WebSocket *websocket.Handler
}

// HealthCheckers holds all health check dependencies
type HealthCheckers struct {
	DB    HealthChecker
	Redis HealthChecker
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	log *logger.Logger,
	scheduleService ScheduleService,
	hub *websocket.Hub,
	m *metrics.Metrics,
	healthCheckers *HealthCheckers,
	version string,
) *Handlers {
	var wsHandler *websocket.Handler
	if hub != nil {
		wsHandler = websocket.NewHandler(hub, log.Logger)
	}

	return &Handlers{
		Health:    NewHealthHandler(log, healthCheckers.DB, healthCheckers.Redis, version),
		Schedule:  NewScheduleHandler(log, scheduleService, hub),
		Translate: NewTranslateHandler(log, m),
		WebSocket: wsHandler,
	}
}

// ErrorResponse is the JSON shape of an error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// RespondError writes a JSON error response.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}
