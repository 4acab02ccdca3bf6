package billing

import (
	"context"
	"testing"

	"github.com/stripe/stripe-go/v76"

	"persona-server/internal/config"
	domainbilling "persona-server/internal/domain/billing"
	"persona-server/internal/utils/platformerrors"
)

func TestApplySubscriptionUpdatedMissingCustomer(t *testing.T) {
	service := NewService(&config.Config{}, nil, nil)

	// Provider payloads are not guaranteed to carry the customer object.
	err := service.applySubscriptionUpdated(context.Background(), &stripe.Subscription{ID: "sub_123"})
	if err == nil {
		t.Fatal("expected an error for a subscription event without a customer")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestStatusFromProvider(t *testing.T) {
	cases := []struct {
		status stripe.SubscriptionStatus
		want   string
	}{
		{stripe.SubscriptionStatusActive, domainbilling.StatusActive},
		{stripe.SubscriptionStatusTrialing, domainbilling.StatusActive},
		{stripe.SubscriptionStatusPastDue, domainbilling.StatusPastDue},
		{stripe.SubscriptionStatusUnpaid, domainbilling.StatusPastDue},
		{stripe.SubscriptionStatusCanceled, domainbilling.StatusCanceled},
		{stripe.SubscriptionStatusIncomplete, domainbilling.StatusCanceled},
	}
	for _, tc := range cases {
		if got := statusFromProvider(tc.status); got != tc.want {
			t.Fatalf("statusFromProvider(%s) = %q, want %q", tc.status, got, tc.want)
		}
	}
}
