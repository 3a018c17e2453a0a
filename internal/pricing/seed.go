package pricing

import "github.com/shopspring/decimal"

// DefaultPromotions is the startup seed. Promotions are managed outside the
// backend catalog, so until an admin feed exists this is the source of truth.
func DefaultPromotions() []Promotion {
	return []Promotion{
		{
			ID:       1,
			Name:     "20% en Electrónica",
			Type:     PromotionPercentage,
			Value:    decimal.NewFromInt(20),
			Category: "Electrónica",
		},
		{
			ID:    2,
			Name:  "$15 menos en La Costeña",
			Type:  PromotionFixed,
			Value: decimal.NewFromInt(15),
			Brand: "La Costeña",
		},
	}
}

func DefaultFlashSales() []FlashSale {
	return nil
}
