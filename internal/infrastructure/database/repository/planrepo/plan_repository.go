package planrepo

import (
	"context"

	"gorm.io/gorm"

	"persona-server/internal/domain/billing"
	"persona-server/internal/infrastructure/database/dbschema"
	"persona-server/internal/utils/platformerrors"
)

type PlanGormRepository struct {
	db *gorm.DB
}

var _ billing.PlanRepository = (*PlanGormRepository)(nil)

func NewPlanGormRepository(db *gorm.DB) billing.PlanRepository {
	return &PlanGormRepository{db: db}
}

func (repo *PlanGormRepository) FindByPublicID(ctx context.Context, publicID string) (*billing.Plan, error) {
	var entity dbschema.Plan
	err := repo.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find plan by public ID",
			err,
			"d4b9e7f2-8a1c-4e63-b0d5-7f2a9c4e1b68",
		)
	}
	return entity.EtoD(), nil
}

func (repo *PlanGormRepository) FindByStripePriceID(ctx context.Context, priceID string) (*billing.Plan, error) {
	var entity dbschema.Plan
	err := repo.db.WithContext(ctx).
		Where("stripe_price_id = ?", priceID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find plan by price ID",
			err,
			"5e8a2c91-6d4f-4b07-a3e9-c1f8b5d2e746",
		)
	}
	return entity.EtoD(), nil
}
