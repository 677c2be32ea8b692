package http

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// pauser is the slice of the scheduler the control surface needs.
type pauser interface {
	TogglePause() bool
	Paused() bool
}

// ControlHandler exposes runtime control of the trading loop.
type ControlHandler struct {
	scheduler pauser
	log       *logrus.Logger
}

func NewControlHandler(scheduler pauser, log *logrus.Logger) *ControlHandler {
	return &ControlHandler{scheduler: scheduler, log: log}
}

type pauseResponse struct {
	Paused bool `json:"paused"`
}

// Pause handles POST /api/pause (toggle) and GET /api/pause (current state).
func (h *ControlHandler) Pause(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		writeJSON(w, pauseResponse{Paused: h.scheduler.TogglePause()})
	case http.MethodGet:
		writeJSON(w, pauseResponse{Paused: h.scheduler.Paused()})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
