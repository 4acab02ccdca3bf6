package persona

import (
	"context"
	"time"
)

// VoiceSettings configure text-to-speech playback for a persona.
type VoiceSettings struct {
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
	Pitch float64 `json:"pitch"`
}

// Record is a stored persona configuration owned by a user.
type Record struct {
	ID           uint          `json:"-"`
	PublicID     string        `json:"id"`
	OwnerID      string        `json:"ownerId"`
	Name         string        `json:"name"`
	Personality  []string      `json:"personality"`
	Knowledge    []string      `json:"knowledge"`
	Tone         string        `json:"tone"`
	Instructions string        `json:"instructions,omitempty"`
	Voice        VoiceSettings `json:"voice"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Repository provides access to stored personas.
type Repository interface {
	FindByPublicID(ctx context.Context, publicID string) (*Record, error)
}
