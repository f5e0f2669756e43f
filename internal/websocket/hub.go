package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/rs/zerolog"
)

// Recorder receives connection and broadcast counts (e.g. metrics)
type Recorder interface {
	RecordWebSocketConnect()
	RecordWebSocketDisconnect()
	RecordWebSocketMessage()
}

type nopRecorder struct{}

func (nopRecorder) RecordWebSocketConnect()    {}
func (nopRecorder) RecordWebSocketDisconnect() {}
func (nopRecorder) RecordWebSocketMessage()    {}

// Option configures a Hub
type Option func(*Hub)

// WithSnapshot makes the hub send the session returned by fn to each client
// as its first message
func WithSnapshot(fn func() *types.User) Option {
	return func(h *Hub) { h.snapshot = fn }
}

// WithAudience restricts every message to clients whose token equals the one
// returned by fn at broadcast time. Other clients are disconnected.
func WithAudience(fn func() string) Option {
	return func(h *Hub) { h.audience = fn }
}

type message struct {
	data     []byte
	audience string
}

// Hub maintains the set of active clients and broadcasts session events to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound messages for all clients
	broadcast chan message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex to protect clients map
	mu sync.RWMutex

	logger   zerolog.Logger
	recorder Recorder
	snapshot func() *types.User
	audience func() string
}

// NewHub creates a new Hub. recorder may be nil.
func NewHub(logger zerolog.Logger, recorder Recorder, opts ...Option) *Hub {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	h := &Hub{
		broadcast:  make(chan message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
		recorder:   recorder,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the hub's main loop until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if !h.admits(client, h.currentAudience()) {
				close(client.send)
				h.logger.Warn().Str("client_id", client.id).Msg("client session no longer valid")
				continue
			}
			h.sendSnapshot(client)

			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.recorder.RecordWebSocketConnect()
			h.logger.Info().
				Str("client_id", client.id).
				Int("total_clients", total).
				Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.recorder.RecordWebSocketDisconnect()
				h.logger.Info().
					Str("client_id", client.id).
					Int("total_clients", len(h.clients)).
					Msg("client disconnected")
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.broadcastRaw(msg)
		}
	}
}

// Broadcast sends a message to all connected clients. It is dropped once the
// hub has stopped.
func (h *Hub) Broadcast(data []byte) {
	msg := message{data: data, audience: h.currentAudience()}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Register adds a client and queues the current session snapshot for it; it
// returns false once the hub has stopped
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client; it is a no-op once the hub has stopped
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastSession encodes and broadcasts the session event for user
func (h *Hub) BroadcastSession(user *types.User) {
	data, err := json.Marshal(types.NewSessionEvent(user))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal session event")
		return
	}
	h.recorder.RecordWebSocketMessage()
	h.Broadcast(data)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) currentAudience() string {
	if h.audience == nil {
		return ""
	}
	return h.audience()
}

func (h *Hub) admits(client *Client, audience string) bool {
	return h.audience == nil || (audience != "" && client.token == audience)
}

// sendSnapshot runs on the hub goroutine so no change event can be delivered
// to the client ahead of it
func (h *Hub) sendSnapshot(client *Client) {
	if h.snapshot == nil {
		return
	}
	data, err := json.Marshal(types.NewSessionEvent(h.snapshot()))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal session snapshot")
		return
	}
	select {
	case client.send <- data:
	default:
	}
}

// broadcastRaw sends a raw message to all clients admitted by its audience
func (h *Hub) broadcastRaw(msg message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !h.admits(client, msg.audience) {
			close(client.send)
			delete(h.clients, client)
			h.recorder.RecordWebSocketDisconnect()
			h.logger.Info().
				Str("client_id", client.id).
				Msg("session superseded, closing connection")
			continue
		}
		select {
		case client.send <- msg.data:
		default:
			// Client's send buffer is full, close and remove it
			close(client.send)
			delete(h.clients, client)
			h.recorder.RecordWebSocketDisconnect()
			h.logger.Warn().
				Str("client_id", client.id).
				Msg("client send buffer full, closing connection")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
		h.recorder.RecordWebSocketDisconnect()
	}
}
