package websocket

import (
	"net/http"

	"github.com/dennisdiepolder/hopwhistle/internal/config"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// TokenFunc extracts the gateway session token from an upgrade request
type TokenFunc func(r *http.Request) string

// Handler handles WebSocket upgrade requests
type Handler struct {
	hub      *Hub
	token    TokenFunc
	config   *config.Config
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. Browsers must send an Origin
// from the allowed list.
func NewHandler(hub *Hub, token TokenFunc, cfg *config.Config, logger zerolog.Logger) *Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}

	return &Handler{
		hub:    hub,
		token:  token,
		config: cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// ServeHTTP upgrades the connection. The hub sends the current session before
// any later change events.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := NewClient(h.hub, conn, h.token(r), h.config, h.logger)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}
	client.Start()
}
