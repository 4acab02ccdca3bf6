package billinghandler

import (
	"io"

	"github.com/gin-gonic/gin"

	"persona-server/internal/infrastructure/billing"
	"persona-server/internal/infrastructure/metrics"
	"persona-server/internal/interfaces/httpserver/requests/billingreq"
	"persona-server/internal/interfaces/httpserver/responses"
	"persona-server/internal/utils/platformerrors"
)

// maxWebhookBody bounds the webhook payload read.
const maxWebhookBody = 1 << 16

// CheckoutResponse carries the hosted checkout URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// BillingHandler exposes checkout creation and the provider webhook.
type BillingHandler struct {
	service *billing.Service
}

func NewBillingHandler(service *billing.Service) *BillingHandler {
	return &BillingHandler{service: service}
}

// CreateCheckout handles POST /v1/billing/checkout.
func (h *BillingHandler) CreateCheckout(reqCtx *gin.Context) {
	var payload billingreq.CheckoutRequest
	if err := reqCtx.ShouldBindJSON(&payload); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid checkout request: "+err.Error(), "")
		return
	}

	url, err := h.service.CreateCheckout(reqCtx.Request.Context(), payload.UserID, payload.Email, payload.PlanID)
	if err != nil {
		responses.HandleError(reqCtx, err, "checkout creation failed")
		return
	}
	reqCtx.JSON(200, CheckoutResponse{URL: url})
}

// Webhook handles POST /v1/billing/webhook. A bad signature is a 400 so the
// provider stops retrying; processing failures are 500 so it retries.
func (h *BillingHandler) Webhook(reqCtx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(reqCtx.Request.Body, maxWebhookBody))
	if err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "failed to read webhook payload", "")
		return
	}

	signature := reqCtx.GetHeader("Stripe-Signature")
	eventType, err := h.service.HandleWebhook(reqCtx.Request.Context(), payload, signature)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized) {
			metrics.RecordBillingEvent("unverified", "bad_signature")
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "webhook signature verification failed", "")
			return
		}
		metrics.RecordBillingEvent(eventType, "error")
		responses.HandleError(reqCtx, err, "webhook processing failed")
		return
	}
	metrics.RecordBillingEvent(eventType, "ok")
	reqCtx.JSON(200, gin.H{"received": true})
}
