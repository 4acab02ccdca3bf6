package dbschema

import (
	"github.com/shopspring/decimal"

	"persona-server/internal/domain/billing"
)

// Plan is a purchasable subscription tier.
type Plan struct {
	BaseModel
	PublicID      string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(255);not null"`
	StripePriceID string          `gorm:"type:varchar(255);not null;index"`
	TokenLimit    int64           `gorm:"not null"`
	MonthlyPrice  decimal.Decimal `gorm:"type:decimal(10,2)"`
}

func (p *Plan) EtoD() *billing.Plan {
	if p == nil {
		return nil
	}
	return &billing.Plan{
		ID:            p.ID,
		PublicID:      p.PublicID,
		Name:          p.Name,
		StripePriceID: p.StripePriceID,
		TokenLimit:    p.TokenLimit,
		MonthlyPrice:  p.MonthlyPrice,
	}
}
