package tokenusage

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenUsage represents a single token usage record
type TokenUsage struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	UserID           string          `gorm:"column:user_id;not null;index"`
	PersonaID        string          `gorm:"column:persona_id;index"`
	Model            string          `gorm:"column:model;not null;index"`
	PromptTokens     int             `gorm:"column:prompt_tokens;not null;default:0"`
	CompletionTokens int             `gorm:"column:completion_tokens;not null;default:0"`
	TotalTokens      int             `gorm:"column:total_tokens;not null;default:0"`
	EstimatedCostUSD decimal.Decimal `gorm:"column:estimated_cost_usd;type:decimal(10,6)"`
	RequestID        *string         `gorm:"column:request_id"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for TokenUsage
func (TokenUsage) TableName() string {
	return "token_usage"
}

// ModelPricing holds USD-per-token rates; unknown models fall back to a
// conservative default.
var ModelPricing = map[string]struct {
	PromptPrice     decimal.Decimal
	CompletionPrice decimal.Decimal
}{
	"gpt-4o":        {decimal.NewFromFloat(0.000005), decimal.NewFromFloat(0.000015)},
	"gpt-4o-mini":   {decimal.NewFromFloat(0.00000015), decimal.NewFromFloat(0.0000006)},
	"gpt-4-turbo":   {decimal.NewFromFloat(0.00001), decimal.NewFromFloat(0.00003)},
	"gpt-3.5-turbo": {decimal.NewFromFloat(0.0000005), decimal.NewFromFloat(0.0000015)},
}

// CalculateCost calculates estimated cost for token usage
func CalculateCost(model string, promptTokens, completionTokens int) decimal.Decimal {
	pricing, exists := ModelPricing[model]
	if !exists {
		pricing = struct {
			PromptPrice     decimal.Decimal
			CompletionPrice decimal.Decimal
		}{
			PromptPrice:     decimal.NewFromFloat(0.000003),
			CompletionPrice: decimal.NewFromFloat(0.000006),
		}
	}

	promptCost := pricing.PromptPrice.Mul(decimal.NewFromInt(int64(promptTokens)))
	completionCost := pricing.CompletionPrice.Mul(decimal.NewFromInt(int64(completionTokens)))

	return promptCost.Add(completionCost)
}
