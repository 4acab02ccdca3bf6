package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a purchasable subscription tier backed by a billing-provider price.
type Plan struct {
	ID            uint
	PublicID      string
	Name          string
	StripePriceID string
	TokenLimit    int64
	MonthlyPrice  decimal.Decimal
}

// Subscription statuses tracked from webhook events.
const (
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// Subscription is the billing state of one user.
type Subscription struct {
	ID                   uint
	UserID               string
	Email                string
	StripeCustomerID     string
	StripeSubscriptionID string
	PlanPublicID         string
	Status               string
	TokenLimit           int64
	CurrentPeriodEnd     time.Time
}

// PlanRepository provides access to purchasable plans.
type PlanRepository interface {
	FindByPublicID(ctx context.Context, publicID string) (*Plan, error)
	FindByStripePriceID(ctx context.Context, priceID string) (*Plan, error)
}

// SubscriptionRepository tracks per-user subscription state.
type SubscriptionRepository interface {
	FindByEmail(ctx context.Context, email string) (*Subscription, error)
	Upsert(ctx context.Context, sub *Subscription) error
	MarkCanceled(ctx context.Context, stripeSubscriptionID string) error
}
