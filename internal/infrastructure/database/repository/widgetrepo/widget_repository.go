package widgetrepo

import (
	"context"

	"gorm.io/gorm"

	"persona-server/internal/domain/widget"
	"persona-server/internal/infrastructure/database/dbschema"
	"persona-server/internal/utils/platformerrors"
)

type WidgetGormRepository struct {
	db *gorm.DB
}

var _ widget.Repository = (*WidgetGormRepository)(nil)

func NewWidgetGormRepository(db *gorm.DB) widget.Repository {
	return &WidgetGormRepository{db: db}
}

func (repo *WidgetGormRepository) InsertMessage(ctx context.Context, msg *widget.Message) error {
	entity := dbschema.NewSchemaWidgetMessage(msg)
	if err := repo.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert widget message",
			err,
			"e3f7a1c9-5b8d-42e6-a0f4-d2c8b6e9f153",
		)
	}
	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

func (repo *WidgetGormRepository) RecentMessages(ctx context.Context, sessionID string, limit int) ([]widget.Message, error) {
	var entities []dbschema.WidgetMessage
	err := repo.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entities).
		Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load widget messages",
			err,
			"b8d2f6a4-7e1c-49b3-85d0-c4e9a2f7b618",
		)
	}

	// Oldest first so they can be replayed straight into a prompt.
	messages := make([]widget.Message, 0, len(entities))
	for i := len(entities) - 1; i >= 0; i-- {
		messages = append(messages, *entities[i].EtoD())
	}
	return messages, nil
}
