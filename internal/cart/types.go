package cart

import (
	"github.com/dbackf/storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

// Line is one ledger entry per distinct product. UnitPrice is frozen at add
// time so promotion changes never silently reprice an in-progress cart.
type Line struct {
	ProductID         int64                      `json:"product_id"`
	Name              string                     `json:"name"`
	SKU               string                     `json:"sku"`
	Quantity          int                        `json:"quantity"`
	UnitPrice         decimal.Decimal            `json:"unit_price"`
	OriginalUnitPrice decimal.Decimal            `json:"original_unit_price"`
	Applied           []pricing.AppliedPromotion `json:"applied_promotions,omitempty"`
}

// LineTotal is quantity times the frozen unit price.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CustomerSelection pins the chosen customer and their tier discount. The
// percent is frozen at selection time, same rationale as line prices.
type CustomerSelection struct {
	CustomerID      int64           `json:"customer_id"`
	Name            string          `json:"name"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
}

// State is the session-owned ledger blob mirrored to storage after every
// mutation.
type State struct {
	Lines    []Line             `json:"lines"`
	Coupons  []AppliedCoupon    `json:"coupons,omitempty"`
	Customer *CustomerSelection `json:"customer,omitempty"`
}

// Empty reports whether the ledger holds no lines.
func (s State) Empty() bool {
	return len(s.Lines) == 0
}

func (s State) lineIndex(productID int64) int {
	for i, line := range s.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// Breakdown carries the derived totals. Promotion savings are already baked
// into the frozen unit prices, so GrandTotal subtracts only the customer and
// coupon figures from the subtotal; against the original-price sum all three
// discounts line up.
type Breakdown struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	OriginalSubtotal  decimal.Decimal `json:"original_subtotal"`
	PromotionDiscount decimal.Decimal `json:"promotion_discount"`
	CustomerDiscount  decimal.Decimal `json:"customer_discount"`
	CouponDiscount    decimal.Decimal `json:"coupon_discount"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
}

// Snapshot is what controllers render: the ledger plus derived totals.
type Snapshot struct {
	State
	Totals Breakdown `json:"totals"`
}

// Totals derives the breakdown from the current state.
func (s State) Totals() Breakdown {
	subtotal := decimal.Zero
	original := decimal.Zero
	for _, line := range s.Lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		subtotal = subtotal.Add(line.UnitPrice.Mul(qty))
		original = original.Add(line.OriginalUnitPrice.Mul(qty))
	}

	customerDiscount := decimal.Zero
	if s.Customer != nil && s.Customer.DiscountPercent.IsPositive() {
		customerDiscount = subtotal.Mul(s.Customer.DiscountPercent).Div(decimal.NewFromInt(100))
	}

	couponDiscount := decimal.Zero
	for _, coupon := range s.Coupons {
		couponDiscount = couponDiscount.Add(coupon.discountAgainst(subtotal))
	}

	grand := subtotal.Sub(customerDiscount).Sub(couponDiscount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return Breakdown{
		Subtotal:          subtotal,
		OriginalSubtotal:  original,
		PromotionDiscount: original.Sub(subtotal),
		CustomerDiscount:  customerDiscount,
		CouponDiscount:    couponDiscount,
		GrandTotal:        grand,
	}
}
