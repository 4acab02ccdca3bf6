package dbschema

import (
	"time"

	"persona-server/internal/domain/tokenusage"
	"persona-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(
		Persona{},
		Plan{},
		Subscription{},
		WidgetSession{},
		WidgetMessage{},
		tokenusage.TokenUsage{},
	)
}

// BaseModel carries the shared surrogate key and timestamps.
type BaseModel struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
