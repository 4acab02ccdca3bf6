package dbschema

import (
	"time"

	"persona-server/internal/domain/billing"
)

// Subscription is the billing state of one user, kept in sync from
// provider webhook events.
type Subscription struct {
	BaseModel
	UserID               string    `gorm:"type:varchar(64);not null;index"`
	Email                string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	StripeCustomerID     string    `gorm:"type:varchar(255);index"`
	StripeSubscriptionID string    `gorm:"type:varchar(255);index"`
	PlanPublicID         string    `gorm:"type:varchar(64);not null"`
	Status               string    `gorm:"type:varchar(32);not null"`
	TokenLimit           int64     `gorm:"not null"`
	CurrentPeriodEnd     time.Time `gorm:""`
}

func NewSchemaSubscription(sub *billing.Subscription) *Subscription {
	return &Subscription{
		BaseModel:            BaseModel{ID: sub.ID},
		UserID:               sub.UserID,
		Email:                sub.Email,
		StripeCustomerID:     sub.StripeCustomerID,
		StripeSubscriptionID: sub.StripeSubscriptionID,
		PlanPublicID:         sub.PlanPublicID,
		Status:               sub.Status,
		TokenLimit:           sub.TokenLimit,
		CurrentPeriodEnd:     sub.CurrentPeriodEnd,
	}
}

func (s *Subscription) EtoD() *billing.Subscription {
	if s == nil {
		return nil
	}
	return &billing.Subscription{
		ID:                   s.ID,
		UserID:               s.UserID,
		Email:                s.Email,
		StripeCustomerID:     s.StripeCustomerID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		PlanPublicID:         s.PlanPublicID,
		Status:               s.Status,
		TokenLimit:           s.TokenLimit,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
	}
}
