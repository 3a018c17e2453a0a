package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromotionType string

const (
	PromotionPercentage PromotionType = "percentage"
	PromotionFixed      PromotionType = "fixed"
	PromotionFlash      PromotionType = "flash"
)

// Promotion is a seeded, read-only discount rule. An empty Category and Brand
// means the rule applies to every product.
type Promotion struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Type       PromotionType   `json:"type"`
	Value      decimal.Decimal `json:"value"`
	Category   string          `json:"category,omitempty"`
	Brand      string          `json:"brand,omitempty"`
	ValidUntil time.Time       `json:"valid_until,omitempty"`
}

// FlashSale pins an explicit price for one product. When active it overrides
// the promotion-derived price outright instead of stacking on it.
type FlashSale struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	FlashPrice decimal.Decimal `json:"flash_price"`
	ValidUntil time.Time       `json:"valid_until,omitempty"`
}

// AppliedPromotion is the snapshot recorded on pricing results and cart lines.
type AppliedPromotion struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Type  PromotionType   `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Result is the resolved price for one product under the active rule sets.
// DiscountPercent is always derived from the two prices, never stored
// independently.
type Result struct {
	OriginalPrice   decimal.Decimal    `json:"original_price"`
	FinalPrice      decimal.Decimal    `json:"final_price"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	Applied         []AppliedPromotion `json:"applied_promotions,omitempty"`
}

// Discounted reports whether the resolved price is below list.
func (r Result) Discounted() bool {
	return r.FinalPrice.LessThan(r.OriginalPrice)
}
