package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dbackf/storefront/internal/backend"
	"github.com/dbackf/storefront/internal/pricing"
	pkgerrors "github.com/dbackf/storefront/pkg/errors"
)

type productSource interface {
	Product(id int64) (backend.Product, bool)
	Pricing(id int64) (pricing.Result, bool)
}

type customerLoader interface {
	GetCustomer(ctx context.Context, id int64) (*backend.Customer, error)
}

// Service owns the per-session cart ledger: lines, applied coupons, and the
// customer selection. Every mutation mirrors the full state to the store
// before returning.
type Service interface {
	Get(ctx context.Context, sessionID string) (Snapshot, error)
	AddItem(ctx context.Context, sessionID string, productID int64, qty int) (Snapshot, error)
	SetQuantity(ctx context.Context, sessionID string, productID int64, qty int) (Snapshot, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) (Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
	ApplyCoupon(ctx context.Context, sessionID, code string) (Snapshot, error)
	RemoveCoupon(ctx context.Context, sessionID, code string) (Snapshot, error)
	SelectCustomer(ctx context.Context, sessionID string, customerID int64) (Snapshot, error)
	ClearCustomer(ctx context.Context, sessionID string) (Snapshot, error)
}

type service struct {
	store     Store
	products  productSource
	customers customerLoader
	coupons   map[string]Coupon
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store     Store
	Products  productSource
	Customers customerLoader
	Coupons   []Coupon
}

// NewService builds the cart service. A nil coupon list falls back to the
// built-in whitelist.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	coupons := params.Coupons
	if coupons == nil {
		coupons = DefaultCoupons()
	}
	byCode := make(map[string]Coupon, len(coupons))
	for _, coupon := range coupons {
		byCode[normalizeCode(coupon.Code)] = coupon
	}
	return &service{
		store:     params.Store,
		products:  params.Products,
		customers: params.Customers,
		coupons:   byCode,
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Snapshot, error) {
	if err := requireSession(sessionID); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(s.store.Load(ctx, sessionID)), nil
}

// AddItem merges into an existing line or creates one with the currently
// resolved price frozen in.
func (s *service) AddItem(ctx context.Context, sessionID string, productID int64, qty int) (Snapshot, error) {
	if err := requireSession(sessionID); err != nil {
		return Snapshot{}, err
	}
	if qty <= 0 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, ok := s.products.Product(productID)
	if !ok {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !product.IsActive {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	state := s.store.Load(ctx, sessionID)
	if idx := state.lineIndex(productID); idx >= 0 {
		state.Lines[idx].Quantity += qty
	} else {
		result, _ := s.products.Pricing(productID)
		state.Lines = append(state.Lines, Line{
			ProductID:         product.ID,
			Name:              product.Name,
			SKU:               product.SKU,
			Quantity:          qty,
			UnitPrice:         result.FinalPrice,
			OriginalUnitPrice: result.OriginalPrice,
			Applied:           result.Applied,
		})
	}

	return s.persist(ctx, sessionID, state)
}

// SetQuantity updates a line in place; zero or negative removes the line.
// No stock cap is enforced here, the backend stays the authority at order time.
func (s *service) SetQuantity(ctx context.Context, sessionID string, productID int64, qty int) (Snapshot, error) {
	if err := requireSession(sessionID); err != nil {
		return Snapshot{}, err
	}

	state := s.store.Load(ctx, sessionID)
	idx := state.lineIndex(productID)

	if qty <= 0 {
		if idx >= 0 {
			state.Lines = append(state.Lines[:idx], state.Lines[idx+1:]...)
		}
		return s.persist(ctx, sessionID, state)
	}

	if idx < 0 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}
	state.Lines[idx].Quantity = qty
	return s.persist(ctx, sessionID, state)
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID int64) (Snapshot, error) {
	return s.SetQuantity(ctx, sessionID, productID, 0)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	return s.store.Clear(ctx, sessionID)
}

// ApplyCoupon validates and appends a whitelist code. Rejections leave the
// ledger untouched.
func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (Snapshot, error) {
	if err := requireSession(sessionID); err != nil {
		return Snapshot{}, err
	}

	normalized := normalizeCode(code)
	coupon, ok := s.coupons[normalized]
	if !ok {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown coupon code")
	}

	state := s.store.Load(ctx, sessionID)
	for _, applied := range state.Coupons {
		if normalizeCode(applied.Code) == normalized {
			return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "coupon already applied")
		}
	}

	subtotal := state.Totals().Subtotal
	if subtotal.LessThan(coupon.MinAmount) {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cart subtotal below coupon minimum of %s", coupon.MinAmount))
	}

	state.Coupons = append(state.Coupons, AppliedCoupon{
		Code:      coupon.Code,
		Type:      coupon.Type,
		Value:     coupon.Value,
		MinAmount: coupon.MinAmount,
	})
	return s.persist(ctx, sessionID, state)
}

func (s *service) RemoveCoupon(ctx context.Context, sessionID, code string) (Snapshot, error) {
	if err := requireSession(sessionID); err != nil {
		return Snapshot{}, err
	}

	normalized := normalizeCode(code)
	state := s.store.Load(ctx, sessionID)
	kept := state.Coupons[:0]
	for _, applied := range state.Coupons {
		if normalizeCode(applied.Code) != normalized {
			kept = append(kept, applied)
		}
	}
	state.Coupons = kept
	return s.persist(ctx, sessionID, state)
}

// SelectCustomer resolves the customer against the backend and replaces any
// prior selection, freezing the discount percent.
func (s *service) SelectCustomer(ctx context.Context, sessionID string, customerID int64) (Snapshot, error) {
	if err := requireSession(sessionID); err != nil {
		return Snapshot{}, err
	}
	if customerID <= 0 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	customer, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode() == http.StatusNotFound {
			return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
		}
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if !customer.IsActive {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "customer is inactive")
	}

	state := s.store.Load(ctx, sessionID)
	state.Customer = &CustomerSelection{
		CustomerID:      customer.ID,
		Name:            customer.Name,
		DiscountPercent: customer.DiscountPercent,
		DeliveryAddress: customer.DeliveryAddress,
	}
	return s.persist(ctx, sessionID, state)
}

func (s *service) ClearCustomer(ctx context.Context, sessionID string) (Snapshot, error) {
	if err := requireSession(sessionID); err != nil {
		return Snapshot{}, err
	}
	state := s.store.Load(ctx, sessionID)
	state.Customer = nil
	return s.persist(ctx, sessionID, state)
}

func (s *service) persist(ctx context.Context, sessionID string, state State) (Snapshot, error) {
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return s.snapshot(state), nil
}

func (s *service) snapshot(state State) Snapshot {
	return Snapshot{State: state, Totals: state.Totals()}
}

func requireSession(sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
