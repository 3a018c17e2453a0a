package backend

import "github.com/shopspring/decimal"

// Product is the catalog entity as served by the dbackf API.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Brand    Brand           `json:"brand"`
	Category Category        `json:"category"`
	Stock    int             `json:"stock"`
	Rating   float64         `json:"rating"`
	IsActive bool            `json:"is_active"`
}

type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Customer carries the fields the storefront needs for selection and
// tier discounts.
type Customer struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DeliveryAddress string          `json:"address"`
	IsActive        bool            `json:"is_active"`
}

// WarehouseStock is one on-hand row for the warehouse-restricted variant.
type WarehouseStock struct {
	ID        int64 `json:"id"`
	Product   int64 `json:"product"`
	Warehouse int64 `json:"warehouse"`
	Quantity  int   `json:"quantity"`
}

// OrderPayload is the outbound order document. Built fresh from the cart
// ledger at submit time, never reused across retries.
type OrderPayload struct {
	Customer        int64           `json:"customer"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
}

type OrderItem struct {
	Product   int64           `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderConfirmation is the minimal creation response the storefront relies on.
type OrderConfirmation struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
