package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dbackf/storefront/internal/backend"
	"github.com/dbackf/storefront/internal/cart"
	"github.com/dbackf/storefront/internal/catalog"
	checkoutsvc "github.com/dbackf/storefront/internal/checkout"
	"github.com/dbackf/storefront/internal/prefs"
	"github.com/dbackf/storefront/internal/pricing"
	"github.com/dbackf/storefront/pkg/config"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalog struct{}

func (stubCatalog) Refresh(ctx context.Context) error { return nil }
func (stubCatalog) Query(catalog.QueryInput) catalog.QueryResult {
	return catalog.QueryResult{}
}
func (stubCatalog) Brands() []backend.Brand        { return nil }
func (stubCatalog) Categories() []backend.Category { return nil }
func (stubCatalog) Product(int64) (backend.Product, bool) {
	return backend.Product{}, false
}
func (stubCatalog) Pricing(int64) (pricing.Result, bool) {
	return pricing.Result{}, false
}

type stubCart struct{}

func (stubCart) Get(context.Context, string) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}
func (stubCart) AddItem(context.Context, string, int64, int) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}
func (stubCart) SetQuantity(context.Context, string, int64, int) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}
func (stubCart) RemoveItem(context.Context, string, int64) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}
func (stubCart) Clear(context.Context, string) error { return nil }
func (stubCart) ApplyCoupon(context.Context, string, string) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}
func (stubCart) RemoveCoupon(context.Context, string, string) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}
func (stubCart) SelectCustomer(context.Context, string, int64) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}
func (stubCart) ClearCustomer(context.Context, string) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}

type stubCheckout struct{}

func (stubCheckout) Submit(context.Context, string) (*checkoutsvc.Receipt, error) {
	return &checkoutsvc.Receipt{OrderID: 1}, nil
}

type stubFavorites struct{}

func (stubFavorites) List(context.Context, string) ([]int64, error) { return nil, nil }
func (stubFavorites) Lookup(context.Context, string) (map[int64]struct{}, error) {
	return map[int64]struct{}{}, nil
}
func (stubFavorites) Add(context.Context, string, int64) ([]int64, error) {
	return nil, nil
}
func (stubFavorites) Remove(context.Context, string, int64) ([]int64, error) {
	return nil, nil
}

type stubPrefs struct{}

func (stubPrefs) Theme(context.Context, string) (prefs.Theme, error) {
	return prefs.ThemeLight, nil
}
func (stubPrefs) SetTheme(context.Context, string, prefs.Theme) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App:        config.AppConfig{Env: "test"},
		Storefront: config.StorefrontConfig{PageSize: 12},
	}
	return NewRouter(RouterParams{
		Config:    cfg,
		Sessions:  stubPinger{},
		Backend:   stubPinger{},
		Catalog:   stubCatalog{},
		Cart:      stubCart{},
		Checkout:  stubCheckout{},
		Favorites: stubFavorites{},
		Prefs:     stubPrefs{},
		Gatherer:  prometheus.NewRegistry(),
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, rec.Code)
		}
		if rec.Header().Get("X-Dbackf-Env") != "test" {
			t.Fatalf("%s missing env header", path)
		}
	}
}

func TestSessionHeaderMintedWhenAbsent(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("cart fetch returned %d", rec.Code)
	}
	if rec.Header().Get("X-Session-Id") == "" {
		t.Fatal("expected a minted session id header")
	}
}

func TestSessionHeaderEchoed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("X-Session-Id", "shopper-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Session-Id"); got != "shopper-42" {
		t.Fatalf("expected echoed session id, got %q", got)
	}
}

func TestMetricsEndpointRegistered(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics returned %d", rec.Code)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
