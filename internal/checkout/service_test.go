package checkout

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dbackf/storefront/internal/backend"
	"github.com/dbackf/storefront/internal/cart"
	"github.com/dbackf/storefront/internal/pricing"
	pkgerrors "github.com/dbackf/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

type memStore struct {
	states map[string]cart.State
}

func newMemStore() *memStore {
	return &memStore{states: map[string]cart.State{}}
}

func (m *memStore) Load(ctx context.Context, sessionID string) cart.State {
	return m.states[sessionID]
}

func (m *memStore) Save(ctx context.Context, sessionID string, state cart.State) error {
	m.states[sessionID] = state
	return nil
}

func (m *memStore) Clear(ctx context.Context, sessionID string) error {
	delete(m.states, sessionID)
	return nil
}

type stubProducts struct {
	products map[int64]backend.Product
	results  map[int64]pricing.Result
}

func (s *stubProducts) Product(id int64) (backend.Product, bool) {
	product, ok := s.products[id]
	return product, ok
}

func (s *stubProducts) Pricing(id int64) (pricing.Result, bool) {
	result, ok := s.results[id]
	return result, ok
}

type stubCustomers struct {
	customer *backend.Customer
}

func (s *stubCustomers) GetCustomer(ctx context.Context, id int64) (*backend.Customer, error) {
	return s.customer, nil
}

type stubOrders struct {
	calls    int
	payloads []backend.OrderPayload
	reply    *backend.OrderConfirmation
	err      error
}

func (s *stubOrders) CreateOrder(ctx context.Context, payload backend.OrderPayload) (*backend.OrderConfirmation, error) {
	s.calls++
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

type stubLocker struct {
	held     map[string]bool
	acquires int
	releases int
}

func newStubLocker() *stubLocker {
	return &stubLocker{held: map[string]bool{}}
}

func (s *stubLocker) TryCheckoutLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	s.acquires++
	if s.held[sessionID] {
		return false, nil
	}
	s.held[sessionID] = true
	return true, nil
}

func (s *stubLocker) ReleaseCheckoutLock(ctx context.Context, sessionID string) error {
	s.releases++
	delete(s.held, sessionID)
	return nil
}

func price(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

type fixture struct {
	checkout Service
	cart     cart.Service
	store    *memStore
	orders   *stubOrders
	locker   *stubLocker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	products := &stubProducts{
		products: map[int64]backend.Product{
			1: {ID: 1, Name: "Cable HDMI", SKU: "HD-01", Price: price(100), IsActive: true},
		},
		results: map[int64]pricing.Result{
			1: {OriginalPrice: price(100), FinalPrice: price(80), DiscountPercent: price(20)},
		},
	}
	customers := &stubCustomers{customer: &backend.Customer{
		ID:              7,
		Name:            "Lupita",
		DiscountPercent: price(10),
		DeliveryAddress: "Av. Siempre Viva 742",
		IsActive:        true,
	}}

	cartSvc, err := cart.NewService(cart.ServiceParams{Store: store, Products: products, Customers: customers})
	if err != nil {
		t.Fatalf("cart.NewService: %v", err)
	}

	orders := &stubOrders{reply: &backend.OrderConfirmation{ID: 501, Status: "pending"}}
	locker := newStubLocker()

	svc, err := NewService(ServiceParams{
		Cart:          cartSvc,
		Store:         store,
		Orders:        orders,
		Locks:         locker,
		Notes:         "Pedido desde tienda online",
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	return &fixture{checkout: svc, cart: cartSvc, store: store, orders: orders, locker: locker}
}

func TestEmptyCartRejectedBeforeNetwork(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	_, err := fx.checkout.Submit(context.Background(), "s1")

	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if fx.orders.calls != 0 {
		t.Fatalf("expected no order call, got %d", fx.orders.calls)
	}
}

func TestMissingCustomerRejectedBeforeNetwork(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	ctx := context.Background()
	if _, err := fx.cart.AddItem(ctx, "s1", 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := fx.checkout.Submit(ctx, "s1")
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if fx.orders.calls != 0 {
		t.Fatalf("expected no order call, got %d", fx.orders.calls)
	}
	// Failed preconditions never consume the cart.
	if fx.store.Load(ctx, "s1").Empty() {
		t.Fatal("cart should be preserved")
	}
}

func TestSuccessfulSubmitClearsSessionState(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.cart.AddItem(ctx, "s1", 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := fx.cart.SelectCustomer(ctx, "s1", 7); err != nil {
		t.Fatalf("select customer: %v", err)
	}

	receipt, err := fx.checkout.Submit(ctx, "s1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.OrderID != 501 {
		t.Fatalf("expected order id 501, got %d", receipt.OrderID)
	}

	payload := fx.orders.payloads[0]
	if payload.Customer != 7 {
		t.Fatalf("expected customer 7, got %d", payload.Customer)
	}
	if payload.Status != "pending" {
		t.Fatalf("expected status pending, got %q", payload.Status)
	}
	if payload.DeliveryAddress != "Av. Siempre Viva 742" {
		t.Fatalf("unexpected delivery address %q", payload.DeliveryAddress)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(payload.Items))
	}
	item := payload.Items[0]
	if !item.UnitPrice.Equal(price(80)) || !item.LineTotal.Equal(price(160)) {
		t.Fatalf("frozen pricing not carried: unit %s line %s", item.UnitPrice, item.LineTotal)
	}
	// Subtotal 160 minus the 10% customer discount.
	if !payload.TotalAmount.Equal(price(144)) {
		t.Fatalf("expected total 144, got %s", payload.TotalAmount)
	}

	if !fx.store.Load(ctx, "s1").Empty() {
		t.Fatal("session state should be cleared after success")
	}
	if fx.locker.held["s1"] {
		t.Fatal("lock should be released after success")
	}
}

func TestBackendFailurePreservesState(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	ctx := context.Background()
	fx.orders.err = backend.NewAPIError(http.StatusBadRequest, []byte(`{"items":["insufficient stock for product 1"]}`))

	if _, err := fx.cart.AddItem(ctx, "s1", 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := fx.cart.SelectCustomer(ctx, "s1", 7); err != nil {
		t.Fatalf("select customer: %v", err)
	}

	_, err := fx.checkout.Submit(ctx, "s1")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if coded.Message() != "items: insufficient stock for product 1" {
		t.Fatalf("unexpected message %q", coded.Message())
	}

	state := fx.store.Load(ctx, "s1")
	if state.Empty() || state.Customer == nil {
		t.Fatal("failure must preserve the full session state")
	}
	if fx.locker.held["s1"] {
		t.Fatal("lock should be released after failure")
	}
}

func TestRetryRebuildsPayloadFresh(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	ctx := context.Background()
	fx.orders.err = backend.NewAPIError(http.StatusServiceUnavailable, []byte(`{}`))

	if _, err := fx.cart.AddItem(ctx, "s1", 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := fx.cart.SelectCustomer(ctx, "s1", 7); err != nil {
		t.Fatalf("select customer: %v", err)
	}
	if _, err := fx.checkout.Submit(ctx, "s1"); err == nil {
		t.Fatal("expected upstream failure")
	}

	// The shopper edits the cart and retries manually.
	if _, err := fx.cart.SetQuantity(ctx, "s1", 1, 3); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	fx.orders.err = nil
	if _, err := fx.checkout.Submit(ctx, "s1"); err != nil {
		t.Fatalf("retry: %v", err)
	}

	if fx.orders.calls != 2 {
		t.Fatalf("expected exactly 2 order calls, got %d", fx.orders.calls)
	}
	if fx.orders.payloads[1].Items[0].Quantity != 3 {
		t.Fatalf("retry payload should reflect the edited cart, got qty %d", fx.orders.payloads[1].Items[0].Quantity)
	}
}

func TestConcurrentSubmitRejected(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.cart.AddItem(ctx, "s1", 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := fx.cart.SelectCustomer(ctx, "s1", 7); err != nil {
		t.Fatalf("select customer: %v", err)
	}

	fx.locker.held["s1"] = true

	_, err := fx.checkout.Submit(ctx, "s1")
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if fx.orders.calls != 0 {
		t.Fatalf("concurrent submit must not reach the backend, got %d calls", fx.orders.calls)
	}
}
