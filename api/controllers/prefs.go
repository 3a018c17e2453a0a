package controllers

import (
	"net/http"

	"github.com/dbackf/storefront/api/middleware"
	"github.com/dbackf/storefront/api/responses"
	"github.com/dbackf/storefront/api/validators"
	"github.com/dbackf/storefront/internal/prefs"
	pkgerrors "github.com/dbackf/storefront/pkg/errors"
	"github.com/dbackf/storefront/pkg/logger"
)

type setThemePayload struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// ThemeGet reads the session's theme, defaulting to light.
func ThemeGet(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prefs service unavailable"))
			return
		}

		theme, err := svc.Theme(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"theme": string(theme)})
	}
}

// ThemeSet stores the session's theme.
func ThemeSet(svc prefs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prefs service unavailable"))
			return
		}

		var payload setThemePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.SetTheme(ctx, middleware.SessionIDFromContext(ctx), prefs.Theme(payload.Theme)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"theme": payload.Theme})
	}
}
