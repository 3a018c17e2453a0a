package controllers

import (
	"net/http"

	"github.com/dbackf/storefront/api/middleware"
	"github.com/dbackf/storefront/api/responses"
	checkoutsvc "github.com/dbackf/storefront/internal/checkout"
	pkgerrors "github.com/dbackf/storefront/pkg/errors"
	"github.com/dbackf/storefront/pkg/logger"
)

// CheckoutSubmit places the order for the session's cart.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		receipt, err := svc.Submit(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
