package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dbackf/storefront/api/middleware"
	"github.com/dbackf/storefront/api/responses"
	"github.com/dbackf/storefront/api/validators"
	"github.com/dbackf/storefront/internal/favorites"
	pkgerrors "github.com/dbackf/storefront/pkg/errors"
	"github.com/dbackf/storefront/pkg/logger"
)

type addFavoritePayload struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
}

// FavoritesList returns the session's marked product ids.
func FavoritesList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		ids, err := svc.List(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string][]int64{"product_ids": ids})
	}
}

// FavoritesAdd marks a product.
func FavoritesAdd(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		var payload addFavoritePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ids, err := svc.Add(ctx, middleware.SessionIDFromContext(ctx), payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string][]int64{"product_ids": ids})
	}
}

// FavoritesRemove unmarks a product.
func FavoritesRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		raw := chi.URLParam(r, "productID")
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || productID <= 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a positive integer"))
			return
		}

		ids, err := svc.Remove(ctx, middleware.SessionIDFromContext(ctx), productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string][]int64{"product_ids": ids})
	}
}
