package tokenusagerepo

import (
	"context"

	"gorm.io/gorm"

	"persona-server/internal/domain/tokenusage"
	"persona-server/internal/utils/platformerrors"
)

type TokenUsageGormRepository struct {
	db *gorm.DB
}

var _ tokenusage.Repository = (*TokenUsageGormRepository)(nil)

func NewTokenUsageGormRepository(db *gorm.DB) tokenusage.Repository {
	return &TokenUsageGormRepository{db: db}
}

func (repo *TokenUsageGormRepository) Create(ctx context.Context, usage *tokenusage.TokenUsage) error {
	if err := repo.db.WithContext(ctx).Create(usage).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to record token usage",
			err,
			"6b4d8e2a-9f1c-45b7-82e3-d0a5c7f9b246",
		)
	}
	return nil
}
