package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dbackf/storefront/internal/backend"
	"github.com/dbackf/storefront/internal/pricing"
	"github.com/dbackf/storefront/pkg/logger"
	"github.com/dbackf/storefront/pkg/metrics"
)

type catalogLoader interface {
	ListProducts(ctx context.Context) ([]backend.Product, error)
	ListBrands(ctx context.Context) ([]backend.Brand, error)
	ListCategories(ctx context.Context) ([]backend.Category, error)
	ListWarehouseStock(ctx context.Context, warehouseID int64) ([]backend.WarehouseStock, error)
}

type priceResolver interface {
	Resolve(product backend.Product) pricing.Result
}

// Service holds the in-memory catalog snapshot. Browsing never touches the
// network; Refresh is the only loader.
type Service interface {
	Refresh(ctx context.Context) error
	Query(input QueryInput) QueryResult
	Brands() []backend.Brand
	Categories() []backend.Category
	Product(id int64) (backend.Product, bool)
	Pricing(id int64) (pricing.Result, bool)
}

type service struct {
	loader      catalogLoader
	resolver    priceResolver
	warehouseID int64
	metrics     *metrics.StorefrontMetrics
	logg        *logger.Logger

	mu         sync.RWMutex
	products   []backend.Product
	brands     []backend.Brand
	categories []backend.Category
	byID       map[int64]backend.Product
}

// ServiceParams groups dependencies for the catalog service. WarehouseID > 0
// restricts the snapshot to products with on-hand stock at that location.
type ServiceParams struct {
	Loader      catalogLoader
	Resolver    priceResolver
	WarehouseID int64
	Metrics     *metrics.StorefrontMetrics
	Logger      *logger.Logger
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Loader == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	return &service{
		loader:      params.Loader,
		resolver:    params.Resolver,
		warehouseID: params.WarehouseID,
		metrics:     params.Metrics,
		logg:        params.Logger,
		byID:        map[int64]backend.Product{},
	}, nil
}

// Refresh replaces the snapshot wholesale from the backend.
func (s *service) Refresh(ctx context.Context) error {
	start := time.Now()

	products, err := s.loader.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	brands, err := s.loader.ListBrands(ctx)
	if err != nil {
		return fmt.Errorf("load brands: %w", err)
	}
	categories, err := s.loader.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	if s.warehouseID > 0 {
		stock, err := s.loader.ListWarehouseStock(ctx, s.warehouseID)
		if err != nil {
			return fmt.Errorf("load warehouse stock: %w", err)
		}
		products = restrictToWarehouse(products, stock)
	}

	byID := make(map[int64]backend.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	s.mu.Lock()
	s.products = products
	s.brands = brands
	s.categories = categories
	s.byID = byID
	s.mu.Unlock()

	s.metrics.ObserveCatalogRefresh(time.Since(start), len(products))
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"products":    len(products),
			"brands":      len(brands),
			"categories":  len(categories),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		s.logg.Info(ctx, "catalog.refreshed")
	}
	return nil
}

// restrictToWarehouse keeps products with positive on-hand quantity at the
// configured warehouse, using that quantity as the product's stock figure.
func restrictToWarehouse(products []backend.Product, stock []backend.WarehouseStock) []backend.Product {
	onHand := make(map[int64]int, len(stock))
	for _, row := range stock {
		if row.Quantity > 0 {
			onHand[row.Product] += row.Quantity
		}
	}

	restricted := make([]backend.Product, 0, len(products))
	for _, product := range products {
		qty, ok := onHand[product.ID]
		if !ok {
			continue
		}
		product.Stock = qty
		restricted = append(restricted, product)
	}
	return restricted
}

// Brands returns the loaded brand filter options.
func (s *service) Brands() []backend.Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]backend.Brand(nil), s.brands...)
}

// Categories returns the loaded category filter options.
func (s *service) Categories() []backend.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]backend.Category(nil), s.categories...)
}

// Product looks up one product from the snapshot.
func (s *service) Product(id int64) (backend.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.byID[id]
	return product, ok
}

// Pricing resolves the current price for one snapshot product.
func (s *service) Pricing(id int64) (pricing.Result, bool) {
	product, ok := s.Product(id)
	if !ok {
		return pricing.Result{}, false
	}
	return s.resolver.Resolve(product), true
}
