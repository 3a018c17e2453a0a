package catalog

import (
	"sort"
	"strings"

	"github.com/dbackf/storefront/internal/backend"
	"github.com/dbackf/storefront/internal/pricing"
	"github.com/dbackf/storefront/pkg/pagination"
	"github.com/shopspring/decimal"
)

type SortKey string

const (
	SortName         SortKey = "name"
	SortPriceAsc     SortKey = "price-asc"
	SortPriceDesc    SortKey = "price-desc"
	SortStockDesc    SortKey = "stock-desc"
	SortRatingDesc   SortKey = "rating-desc"
	SortDiscountDesc SortKey = "discount-desc"
)

// ParseSortKey maps a query-string value onto a sort key, defaulting to name.
func ParseSortKey(value string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(value))) {
	case SortPriceAsc, SortPriceDesc, SortStockDesc, SortRatingDesc, SortDiscountDesc:
		return SortKey(strings.ToLower(strings.TrimSpace(value)))
	default:
		return SortName
	}
}

// QueryInput describes the browse filter knobs.
type QueryInput struct {
	Text          string
	BrandID       *int64
	CategoryID    *int64
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
	FavoritesOnly bool
	Favorites     map[int64]struct{}
	Sort          SortKey
	Page          pagination.Params
}

// Card is one product annotated with its resolved pricing.
type Card struct {
	Product backend.Product `json:"product"`
	Pricing pricing.Result  `json:"pricing"`
}

// QueryResult is the filtered, sorted page window over the snapshot.
type QueryResult struct {
	Items  []Card            `json:"items"`
	Window pagination.Window `json:"pagination"`
}

// Query filters, sorts, and pages the snapshot. Price bounds apply to the
// resolved final price, so a shopper filtering "under $100" sees what they
// will actually pay.
func (s *service) Query(input QueryInput) QueryResult {
	s.mu.RLock()
	products := s.products
	s.mu.RUnlock()

	text := strings.ToLower(strings.TrimSpace(input.Text))

	matched := make([]Card, 0, len(products))
	for _, product := range products {
		if !product.IsActive {
			continue
		}
		if input.FavoritesOnly {
			if _, ok := input.Favorites[product.ID]; !ok {
				continue
			}
		}
		if input.BrandID != nil && product.Brand.ID != *input.BrandID {
			continue
		}
		if input.CategoryID != nil && product.Category.ID != *input.CategoryID {
			continue
		}
		if text != "" && !matchesText(product, text) {
			continue
		}

		result := s.resolver.Resolve(product)
		if input.PriceMin != nil && result.FinalPrice.LessThan(*input.PriceMin) {
			continue
		}
		if input.PriceMax != nil && result.FinalPrice.GreaterThan(*input.PriceMax) {
			continue
		}

		matched = append(matched, Card{Product: product, Pricing: result})
	}

	sortCards(matched, input.Sort)

	window := pagination.Resolve(input.Page, len(matched))
	start, end := window.Bounds()
	return QueryResult{
		Items:  matched[start:end],
		Window: window,
	}
}

// matchesText reports a case-insensitive substring hit on name, SKU, or brand
// name; any one field is enough.
func matchesText(product backend.Product, text string) bool {
	return strings.Contains(strings.ToLower(product.Name), text) ||
		strings.Contains(strings.ToLower(product.SKU), text) ||
		strings.Contains(strings.ToLower(product.Brand.Name), text)
}

// sortCards orders in place; ties preserve prior relative order.
func sortCards(cards []Card, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Pricing.FinalPrice.LessThan(cards[j].Pricing.FinalPrice)
		})
	case SortPriceDesc:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Pricing.FinalPrice.GreaterThan(cards[j].Pricing.FinalPrice)
		})
	case SortStockDesc:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Product.Stock > cards[j].Product.Stock
		})
	case SortRatingDesc:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Product.Rating > cards[j].Product.Rating
		})
	case SortDiscountDesc:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Pricing.DiscountPercent.GreaterThan(cards[j].Pricing.DiscountPercent)
		})
	default:
		sort.SliceStable(cards, func(i, j int) bool {
			return strings.ToLower(cards[i].Product.Name) < strings.ToLower(cards[j].Product.Name)
		})
	}
}
