package pricing

import (
	"strings"
	"sync"
	"time"

	"github.com/dbackf/storefront/internal/backend"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Resolver computes final prices from the seeded promotion and flash-sale
// sets. Resolution is pure: same product and rule sets, same result.
type Resolver struct {
	mu         sync.RWMutex
	promotions []Promotion
	flash      map[int64]FlashSale
	now        func() time.Time
}

// NewResolver builds a resolver with empty rule sets.
func NewResolver() *Resolver {
	return &Resolver{
		flash: map[int64]FlashSale{},
		now:   time.Now,
	}
}

// SetPromotions replaces the active promotion set.
func (r *Resolver) SetPromotions(promotions []Promotion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promotions = append([]Promotion(nil), promotions...)
}

// SetFlashSales replaces the active flash-sale set.
func (r *Resolver) SetFlashSales(sales []FlashSale) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flash = make(map[int64]FlashSale, len(sales))
	for _, sale := range sales {
		r.flash[sale.ProductID] = sale
	}
}

// SetClock overrides the expiry clock; test hook.
func (r *Resolver) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Resolve returns the pricing result for one product. Percentage and fixed
// promotions fold left-to-right over the list price; an active flash sale then
// overrides the folded price entirely. Every contributing rule lands in the
// applied snapshot.
func (r *Resolver) Resolve(product backend.Product) Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	original := product.Price
	running := original
	var applied []AppliedPromotion

	for _, promo := range r.promotions {
		if !promo.active(now) || !promo.matches(product) {
			continue
		}
		switch promo.Type {
		case PromotionPercentage:
			running = running.Mul(one.Sub(promo.Value.Div(hundred)))
		case PromotionFixed:
			running = running.Sub(promo.Value)
			if running.IsNegative() {
				running = decimal.Zero
			}
		default:
			continue
		}
		applied = append(applied, AppliedPromotion{
			ID:    promo.ID,
			Name:  promo.Name,
			Type:  promo.Type,
			Value: promo.Value,
		})
	}

	if sale, ok := r.flash[product.ID]; ok && sale.activeAt(now) {
		running = sale.FlashPrice
		applied = append(applied, AppliedPromotion{
			ID:    sale.ProductID,
			Name:  sale.Name,
			Type:  PromotionFlash,
			Value: sale.FlashPrice,
		})
	}

	return Result{
		OriginalPrice:   original,
		FinalPrice:      running,
		DiscountPercent: discountPercent(original, running),
		Applied:         applied,
	}
}

func (p Promotion) active(now time.Time) bool {
	return p.ValidUntil.IsZero() || p.ValidUntil.After(now)
}

func (p Promotion) matches(product backend.Product) bool {
	if p.Category == "" && p.Brand == "" {
		return true
	}
	if p.Category != "" && strings.EqualFold(p.Category, product.Category.Name) {
		return true
	}
	if p.Brand != "" && strings.EqualFold(p.Brand, product.Brand.Name) {
		return true
	}
	return false
}

func (s FlashSale) activeAt(now time.Time) bool {
	return s.ValidUntil.IsZero() || s.ValidUntil.After(now)
}

func discountPercent(original, final decimal.Decimal) decimal.Decimal {
	if original.IsZero() || !final.LessThan(original) {
		return decimal.Zero
	}
	return one.Sub(final.Div(original)).Mul(hundred)
}
