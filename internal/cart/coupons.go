package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// Coupon is one whitelist entry. Codes are matched case-insensitively; the
// whitelist is fixed at construction, not user-creatable.
type Coupon struct {
	Code      string          `json:"code"`
	Type      CouponType      `json:"type"`
	Value     decimal.Decimal `json:"value"`
	MinAmount decimal.Decimal `json:"min_amount"`
}

// AppliedCoupon is the snapshot stored on the ledger once a code is accepted.
type AppliedCoupon struct {
	Code      string          `json:"code"`
	Type      CouponType      `json:"type"`
	Value     decimal.Decimal `json:"value"`
	MinAmount decimal.Decimal `json:"min_amount"`
}

func (c AppliedCoupon) discountAgainst(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Type {
	case CouponPercentage:
		// Percentage coupons compute against the pre-coupon subtotal.
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
	case CouponFixed:
		return c.Value
	default:
		return decimal.Zero
	}
}

// DefaultCoupons is the storefront's built-in whitelist.
func DefaultCoupons() []Coupon {
	return []Coupon{
		{Code: "SAVE50", Type: CouponFixed, Value: decimal.NewFromInt(50), MinAmount: decimal.NewFromInt(200)},
		{Code: "DESC10", Type: CouponPercentage, Value: decimal.NewFromInt(10), MinAmount: decimal.NewFromInt(100)},
		{Code: "BIENVENIDO", Type: CouponFixed, Value: decimal.NewFromInt(25), MinAmount: decimal.NewFromInt(150)},
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
