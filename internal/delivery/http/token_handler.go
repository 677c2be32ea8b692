package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"tradebot/internal/repository"
)

// TokenHandler manages device token registration for trade alerts.
type TokenHandler struct {
	tokens *repository.TokenRepository
	log    *logrus.Logger
}

func NewTokenHandler(tokens *repository.TokenRepository, log *logrus.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, log: log}
}

type TokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type TokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// RegisterToken handles POST /api/tokens/register.
func (h *TokenHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}
	if req.Platform == "" {
		req.Platform = "android"
	}

	h.tokens.RegisterToken(req.Token, req.Platform, time.Now().Unix())
	h.log.WithField("platform", req.Platform).Info("device token registered")

	writeJSON(w, TokenResponse{
		Success: true,
		Message: "token registered",
		Count:   h.tokens.GetTokenCount(),
	})
}

// UnregisterToken handles POST /api/tokens/unregister.
func (h *TokenHandler) UnregisterToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	h.tokens.UnregisterToken(req.Token)
	h.log.Info("device token unregistered")

	writeJSON(w, TokenResponse{
		Success: true,
		Message: "token unregistered",
		Count:   h.tokens.GetTokenCount(),
	})
}
