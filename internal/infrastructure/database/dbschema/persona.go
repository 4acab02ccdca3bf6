package dbschema

import (
	"persona-server/internal/domain/persona"
)

// Persona is the persisted persona configuration.
type Persona struct {
	BaseModel
	PublicID     string   `gorm:"type:varchar(64);not null;uniqueIndex"`
	OwnerID      string   `gorm:"type:varchar(64);not null;index"`
	Name         string   `gorm:"type:varchar(255);not null"`
	Personality  []string `gorm:"serializer:json"`
	Knowledge    []string `gorm:"serializer:json"`
	Tone         string   `gorm:"type:varchar(100);not null"`
	Instructions string   `gorm:"type:text"`
	Voice        string   `gorm:"type:varchar(50)"`
	VoiceSpeed   float64  `gorm:"default:1"`
	VoicePitch   float64  `gorm:"default:1"`
}

// EtoD converts a schema persona back to the domain representation.
func (p *Persona) EtoD() *persona.Record {
	if p == nil {
		return nil
	}
	return &persona.Record{
		ID:           p.ID,
		PublicID:     p.PublicID,
		OwnerID:      p.OwnerID,
		Name:         p.Name,
		Personality:  p.Personality,
		Knowledge:    p.Knowledge,
		Tone:         p.Tone,
		Instructions: p.Instructions,
		Voice: persona.VoiceSettings{
			Voice: p.Voice,
			Speed: p.VoiceSpeed,
			Pitch: p.VoicePitch,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
