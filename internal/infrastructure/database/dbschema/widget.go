package dbschema

import (
	"time"

	"persona-server/internal/domain/widget"
)

// WidgetSession is an embeddable-widget chat session. Sessions are issued
// and expired server side; handlers only validate against them.
type WidgetSession struct {
	BaseModel
	PublicID  string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	PersonaID string    `gorm:"type:varchar(64);not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (s *WidgetSession) EtoD() *widget.Session {
	if s == nil {
		return nil
	}
	return &widget.Session{
		ID:        s.ID,
		PublicID:  s.PublicID,
		PersonaID: s.PersonaID,
		ExpiresAt: s.ExpiresAt,
	}
}

// WidgetMessage is one persisted widget chat turn.
type WidgetMessage struct {
	BaseModel
	SessionID string `gorm:"type:varchar(64);not null;index"`
	Role      string `gorm:"type:varchar(16);not null"`
	Content   string `gorm:"type:text;not null"`
}

func NewSchemaWidgetMessage(msg *widget.Message) *WidgetMessage {
	return &WidgetMessage{
		SessionID: msg.SessionID,
		Role:      msg.Role,
		Content:   msg.Content,
	}
}

func (m *WidgetMessage) EtoD() *widget.Message {
	if m == nil {
		return nil
	}
	return &widget.Message{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
