package widget

import (
	"context"
	"time"
)

// Session is an embeddable-widget chat session tied to one persona. Sessions
// are created and expired by the database; this core only validates and
// appends to them.
type Session struct {
	ID        uint
	PublicID  string
	PersonaID string
	ExpiresAt time.Time
}

// Message is one persisted widget chat turn.
type Message struct {
	ID        uint
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// Repository persists widget chat traffic.
type Repository interface {
	InsertMessage(ctx context.Context, msg *Message) error
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
}
