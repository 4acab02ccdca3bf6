package billinghandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"persona-server/internal/config"
	"persona-server/internal/infrastructure/billing"
)

func TestWebhookRejectsBadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)

	service := billing.NewService(&config.Config{
		StripeSecretKey:     "sk_test_dummy",
		StripeWebhookSecret: "whsec_dummy",
	}, nil, nil)
	handler := NewBillingHandler(service)

	router := gin.New()
	router.POST("/v1/billing/webhook", handler.Webhook)

	req := httptest.NewRequest(http.MethodPost, "/v1/billing/webhook",
		strings.NewReader(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a forged signature, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestCreateCheckoutValidatesPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewBillingHandler(billing.NewService(&config.Config{}, nil, nil))
	router := gin.New()
	router.POST("/v1/billing/checkout", handler.CreateCheckout)

	req := httptest.NewRequest(http.MethodPost, "/v1/billing/checkout",
		strings.NewReader(`{"email":"someone@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", recorder.Code)
	}
}
