package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dbackf/storefront/api/controllers"
	"github.com/dbackf/storefront/api/middleware"
	"github.com/dbackf/storefront/internal/cart"
	"github.com/dbackf/storefront/internal/catalog"
	checkoutsvc "github.com/dbackf/storefront/internal/checkout"
	"github.com/dbackf/storefront/internal/favorites"
	"github.com/dbackf/storefront/internal/prefs"
	"github.com/dbackf/storefront/pkg/config"
	"github.com/dbackf/storefront/pkg/logger"
)

// RouterParams groups everything the HTTP surface needs.
type RouterParams struct {
	Config    *config.Config
	Logger    *logger.Logger
	Sessions  controllers.Pinger
	Backend   controllers.Pinger
	Catalog   catalog.Service
	Cart      cart.Service
	Checkout  checkoutsvc.Service
	Favorites favorites.Service
	Prefs     prefs.Service
	Gatherer  prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.Sessions, params.Backend))
	})

	if params.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(params.Catalog, params.Favorites, cfg.Storefront.PageSize, logg))
			r.Get("/brands", controllers.CatalogBrands(params.Catalog, logg))
			r.Get("/categories", controllers.CatalogCategories(params.Catalog, logg))
			r.Post("/refresh", controllers.CatalogRefresh(params.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(params.Cart, logg))
			r.Delete("/", controllers.CartClear(params.Cart, logg))
			r.Post("/items", controllers.CartAddItem(params.Cart, logg))
			r.Put("/items/{productID}", controllers.CartSetQuantity(params.Cart, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(params.Cart, logg))
			r.Post("/coupons", controllers.CartApplyCoupon(params.Cart, logg))
			r.Delete("/coupons/{code}", controllers.CartRemoveCoupon(params.Cart, logg))
			r.Put("/customer", controllers.CartSelectCustomer(params.Cart, logg))
			r.Delete("/customer", controllers.CartClearCustomer(params.Cart, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(params.Checkout, logg))

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(params.Favorites, logg))
			r.Post("/", controllers.FavoritesAdd(params.Favorites, logg))
			r.Delete("/{productID}", controllers.FavoritesRemove(params.Favorites, logg))
		})

		r.Route("/prefs", func(r chi.Router) {
			r.Get("/theme", controllers.ThemeGet(params.Prefs, logg))
			r.Put("/theme", controllers.ThemeSet(params.Prefs, logg))
		})
	})

	return r
}
