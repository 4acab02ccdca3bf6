package billingreq

// CheckoutRequest starts a hosted checkout for a plan.
type CheckoutRequest struct {
	PlanID string `json:"planId" binding:"required"`
	UserID string `json:"userId" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
}
