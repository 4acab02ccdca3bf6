package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"persona-server/internal/config"
	domainbilling "persona-server/internal/domain/billing"
	"persona-server/internal/infrastructure/logger"
	"persona-server/internal/utils/platformerrors"
)

// Service drives the billing provider: checkout session creation and
// webhook-driven subscription state updates.
type Service struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
	plans         domainbilling.PlanRepository
	subscriptions domainbilling.SubscriptionRepository
}

func NewService(cfg *config.Config, plans domainbilling.PlanRepository, subscriptions domainbilling.SubscriptionRepository) *Service {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)
	return &Service{
		api:           api,
		webhookSecret: cfg.StripeWebhookSecret,
		successURL:    cfg.CheckoutSuccessURL,
		cancelURL:     cfg.CheckoutCancelURL,
		plans:         plans,
		subscriptions: subscriptions,
	}
}

// CreateCheckout verifies the requested plan, reuses an existing provider
// customer for the email when one exists, and returns the hosted checkout URL.
func (s *Service) CreateCheckout(ctx context.Context, userID, email, planID string) (string, error) {
	plan, err := s.plans.FindByPublicID(ctx, planID)
	if err != nil {
		return "", err
	}
	if plan == nil {
		return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "plan not found", nil, "",
			map[string]any{"plan_id": planID})
	}

	price, err := s.api.Prices.Get(plan.StripePriceID, nil)
	if err != nil || price == nil || !price.Active {
		return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeIntegration, "plan price is not purchasable", err, "",
			map[string]any{"plan_id": planID})
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(plan.StripePriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(userID),
	}

	if customerID := s.findCustomerByEmail(email); customerID != "" {
		params.Customer = stripe.String(customerID)
	} else {
		params.CustomerEmail = stripe.String(email)
	}

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeIntegration, "failed to create checkout session", err, "")
	}
	return session.URL, nil
}

func (s *Service) findCustomerByEmail(email string) string {
	iter := s.api.Customers.List(&stripe.CustomerListParams{
		Email:      stripe.String(email),
		ListParams: stripe.ListParams{Limit: stripe.Int64(1)},
	})
	for iter.Next() {
		return iter.Customer().ID
	}
	return ""
}

// HandleWebhook verifies the event signature and applies subscription state
// changes. Unrecognized event types are acknowledged and ignored. The event
// type is returned for metrics labelling.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (string, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeUnauthorized, "webhook signature verification failed", err, "")
	}

	eventType := string(event.Type)
	log := logger.GetLogger()
	switch eventType {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return eventType, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeValidation, "failed to decode checkout session event", err, "")
		}
		return eventType, s.applyCheckoutCompleted(ctx, &session)
	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return eventType, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeValidation, "failed to decode subscription event", err, "")
		}
		return eventType, s.applySubscriptionUpdated(ctx, &sub)
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return eventType, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeValidation, "failed to decode subscription event", err, "")
		}
		return eventType, s.subscriptions.MarkCanceled(ctx, sub.ID)
	default:
		log.Debug().Str("event_type", eventType).Msg("ignoring unhandled billing event")
		return eventType, nil
	}
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}
	if email == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation, "checkout session carries no customer email", nil, "")
	}

	sub := &domainbilling.Subscription{
		UserID: session.ClientReferenceID,
		Email:  email,
		Status: domainbilling.StatusActive,
	}
	if session.Customer != nil {
		sub.StripeCustomerID = session.Customer.ID
	}
	if session.Subscription != nil {
		sub.StripeSubscriptionID = session.Subscription.ID
	}

	if err := s.enrichFromSubscription(ctx, sub); err != nil {
		return err
	}
	return s.subscriptions.Upsert(ctx, sub)
}

// enrichFromSubscription resolves the plan and period end from the provider
// subscription, since the checkout event itself does not carry the price.
func (s *Service) enrichFromSubscription(ctx context.Context, sub *domainbilling.Subscription) error {
	if sub.StripeSubscriptionID == "" {
		return nil
	}
	providerSub, err := s.api.Subscriptions.Get(sub.StripeSubscriptionID, nil)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeIntegration, "failed to load provider subscription", err, "")
	}

	sub.CurrentPeriodEnd = time.Unix(providerSub.CurrentPeriodEnd, 0).UTC()
	if len(providerSub.Items.Data) > 0 && providerSub.Items.Data[0].Price != nil {
		plan, err := s.plans.FindByStripePriceID(ctx, providerSub.Items.Data[0].Price.ID)
		if err != nil {
			return err
		}
		if plan != nil {
			sub.PlanPublicID = plan.PublicID
			sub.TokenLimit = plan.TokenLimit
		}
	}
	return nil
}

func (s *Service) applySubscriptionUpdated(ctx context.Context, providerSub *stripe.Subscription) error {
	if providerSub.Customer == nil {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation, "subscription event carries no customer", nil, "",
			map[string]any{"subscription_id": providerSub.ID})
	}
	if providerSub.Customer.Email == "" {
		// Expanded customer data is not guaranteed on webhook payloads.
		cust, err := s.api.Customers.Get(providerSub.Customer.ID, nil)
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeIntegration, "failed to resolve subscription customer", err, "")
		}
		providerSub.Customer = cust
	}

	existing, err := s.subscriptions.FindByEmail(ctx, providerSub.Customer.Email)
	if err != nil {
		return err
	}

	sub := &domainbilling.Subscription{
		Email:                providerSub.Customer.Email,
		StripeCustomerID:     providerSub.Customer.ID,
		StripeSubscriptionID: providerSub.ID,
		Status:               statusFromProvider(providerSub.Status),
		CurrentPeriodEnd:     time.Unix(providerSub.CurrentPeriodEnd, 0).UTC(),
	}
	if existing != nil {
		sub.UserID = existing.UserID
		sub.PlanPublicID = existing.PlanPublicID
		sub.TokenLimit = existing.TokenLimit
	}

	if len(providerSub.Items.Data) > 0 && providerSub.Items.Data[0].Price != nil {
		plan, err := s.plans.FindByStripePriceID(ctx, providerSub.Items.Data[0].Price.ID)
		if err != nil {
			return err
		}
		if plan != nil {
			sub.PlanPublicID = plan.PublicID
			sub.TokenLimit = plan.TokenLimit
		}
	}
	return s.subscriptions.Upsert(ctx, sub)
}

func statusFromProvider(status stripe.SubscriptionStatus) string {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return domainbilling.StatusActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return domainbilling.StatusPastDue
	default:
		return domainbilling.StatusCanceled
	}
}
