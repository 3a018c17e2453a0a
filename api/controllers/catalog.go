package controllers

import (
	"net/http"
	"strings"

	"github.com/dbackf/storefront/api/middleware"
	"github.com/dbackf/storefront/api/responses"
	"github.com/dbackf/storefront/api/validators"
	"github.com/dbackf/storefront/internal/catalog"
	"github.com/dbackf/storefront/internal/favorites"
	pkgerrors "github.com/dbackf/storefront/pkg/errors"
	"github.com/dbackf/storefront/pkg/logger"
	"github.com/dbackf/storefront/pkg/pagination"
)

// CatalogList serves the filtered, sorted, paginated product grid.
func CatalogList(svc catalog.Service, favs favorites.Service, pageSize int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		brandID, err := validators.ParseQueryID(r, "brand")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryID(r, "category")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		priceMin, err := validators.ParseQueryDecimal(r, "price_min")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		priceMax, err := validators.ParseQueryDecimal(r, "price_max")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if priceMin != nil && priceMax != nil && priceMin.GreaterThan(*priceMax) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot exceed price_max"))
			return
		}
		favoritesOnly, err := validators.ParseQueryBool(r, "favorites")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		size, err := validators.ParseQueryInt(r, "page_size", pageSize, 1, pagination.MaxPageSize)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := catalog.QueryInput{
			Text:          strings.TrimSpace(r.URL.Query().Get("q")),
			BrandID:       brandID,
			CategoryID:    categoryID,
			PriceMin:      priceMin,
			PriceMax:      priceMax,
			FavoritesOnly: favoritesOnly,
			Sort:          catalog.ParseSortKey(r.URL.Query().Get("sort")),
			Page:          pagination.Params{Page: page, PageSize: size},
		}

		if favoritesOnly {
			sessionID := middleware.SessionIDFromContext(ctx)
			set, err := favs.Lookup(ctx, sessionID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.Favorites = set
		}

		responses.WriteSuccess(w, svc.Query(input))
	}
}

// CatalogBrands lists the brand filter options from the snapshot.
func CatalogBrands(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Brands())
	}
}

// CatalogCategories lists the category filter options from the snapshot.
func CatalogCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Categories())
	}
}

// CatalogRefresh reloads the snapshot from the backend on demand.
func CatalogRefresh(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		if err := svc.Refresh(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "refreshed"})
	}
}
