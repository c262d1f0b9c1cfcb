package audit

import "time"

// Event is an immutable, append-only record of a session change.
//
// Invariants:
// - Events are never updated or deleted.
// - Identifiers come from the advisory claims and may be empty.
// - ip capture is best-effort; do not block session flows on audit failures.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`

	UserID    string `json:"user_id,omitempty"`
	SocietyID string `json:"society_id,omitempty"`

	// IPAddress is the client IP as resolved by gin.
	IPAddress string `json:"ip_address,omitempty"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventTypeSessionStored  EventType = "session_stored"
	EventTypeSessionCleared EventType = "session_cleared"
)
