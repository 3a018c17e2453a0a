package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dbackf/storefront/api/routes"
	"github.com/dbackf/storefront/internal/backend"
	"github.com/dbackf/storefront/internal/cart"
	"github.com/dbackf/storefront/internal/catalog"
	checkoutsvc "github.com/dbackf/storefront/internal/checkout"
	"github.com/dbackf/storefront/internal/favorites"
	"github.com/dbackf/storefront/internal/prefs"
	"github.com/dbackf/storefront/internal/pricing"
	"github.com/dbackf/storefront/pkg/config"
	"github.com/dbackf/storefront/pkg/logger"
	"github.com/dbackf/storefront/pkg/metrics"
	"github.com/dbackf/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	backendClient, err := backend.NewClient(cfg.Backend, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build backend client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	resolver := pricing.NewResolver()
	resolver.SetPromotions(pricing.DefaultPromotions())
	resolver.SetFlashSales(pricing.DefaultFlashSales())

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Loader:      backendClient,
		Resolver:    resolver,
		WarehouseID: cfg.Backend.WarehouseID,
		Metrics:     storefrontMetrics,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	if err := catalogService.Refresh(context.Background()); err != nil {
		// Browsing starts empty; the refresh endpoint can recover later.
		logg.Warn(context.Background(), "initial catalog refresh failed")
	}

	cartStore := cart.NewRedisStore(redisClient, cfg.Storefront.SessionTTL, logg)
	cartService, err := cart.NewService(cart.ServiceParams{
		Store:     cartStore,
		Products:  catalogService,
		Customers: backendClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Cart:          cartService,
		Store:         cartStore,
		Orders:        backendClient,
		Locks:         redisClient,
		Notes:         cfg.Storefront.OrderNotes,
		PaymentMethod: cfg.Storefront.PaymentMethod,
		Metrics:       storefrontMetrics,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		KV:     redisClient,
		TTL:    cfg.Storefront.SessionTTL,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	prefsService, err := prefs.NewService(redisClient, cfg.Storefront.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create prefs service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:    cfg,
			Logger:    logg,
			Sessions:  redisClient,
			Backend:   backendClient,
			Catalog:   catalogService,
			Cart:      cartService,
			Checkout:  checkoutService,
			Favorites: favoritesService,
			Prefs:     prefsService,
			Gatherer:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
