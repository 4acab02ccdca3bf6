package subscriptionrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"persona-server/internal/domain/billing"
	"persona-server/internal/infrastructure/database/dbschema"
	"persona-server/internal/utils/platformerrors"
)

type SubscriptionGormRepository struct {
	db *gorm.DB
}

var _ billing.SubscriptionRepository = (*SubscriptionGormRepository)(nil)

func NewSubscriptionGormRepository(db *gorm.DB) billing.SubscriptionRepository {
	return &SubscriptionGormRepository{db: db}
}

func (repo *SubscriptionGormRepository) FindByEmail(ctx context.Context, email string) (*billing.Subscription, error) {
	var entity dbschema.Subscription
	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
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
			"failed to find subscription by email",
			err,
			"1f6c3d82-9b4e-47a1-8e0d-b2c5f7a9d314",
		)
	}
	return entity.EtoD(), nil
}

func (repo *SubscriptionGormRepository) Upsert(ctx context.Context, sub *billing.Subscription) error {
	schemaSub := dbschema.NewSchemaSubscription(sub)

	assignments := map[string]any{
		"user_id":                schemaSub.UserID,
		"stripe_customer_id":     schemaSub.StripeCustomerID,
		"stripe_subscription_id": schemaSub.StripeSubscriptionID,
		"plan_public_id":         schemaSub.PlanPublicID,
		"status":                 schemaSub.Status,
		"token_limit":            schemaSub.TokenLimit,
		"current_period_end":     schemaSub.CurrentPeriodEnd,
		"updated_at":             gorm.Expr("NOW()"),
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(schemaSub).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to upsert subscription",
			err,
			"7a2e9f54-1c8b-4d36-90e7-f3d6a8b1c529",
		)
	}
	return nil
}

func (repo *SubscriptionGormRepository) MarkCanceled(ctx context.Context, stripeSubscriptionID string) error {
	err := repo.db.WithContext(ctx).
		Model(&dbschema.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Updates(map[string]any{
			"status":     billing.StatusCanceled,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to mark subscription canceled",
			err,
			"c9d5b3e7-4f2a-41c8-b6e0-a8f1d7c2e935",
		)
	}
	return nil
}
