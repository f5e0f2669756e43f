package api

import (
	"encoding/json"
	"net/http"

	"github.com/dennisdiepolder/hopwhistle/internal/auth"
	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/rs/zerolog"
)

// SessionHandler exposes login, logout and the current session to the UI.
// Logout and current are expected behind auth.RequireSession.
type SessionHandler struct {
	auth   *auth.Service
	logger zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(authService *auth.Service, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		auth:   authService,
		logger: logger.With().Str("component", "session_api").Logger(),
	}
}

// HandleLogin handles POST /api/session/login
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeDetail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.auth.Login(r.Context(), creds, auth.SessionToken(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	auth.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, user)
}

// HandleLogout handles POST /api/session/logout
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	auth.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleCurrent handles GET /api/session
func (h *SessionHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
