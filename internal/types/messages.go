package types

import "time"

// SessionEvent is pushed to dashboard websocket clients on every session change
type SessionEvent struct {
	Type          string    `json:"type"` // always "session"
	Authenticated bool      `json:"authenticated"`
	User          *User     `json:"user"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewSessionEvent builds the event for the given user (nil means logged out)
func NewSessionEvent(user *User) SessionEvent {
	return SessionEvent{
		Type:          "session",
		Authenticated: user != nil,
		User:          user,
		Timestamp:     time.Now().UTC(),
	}
}
