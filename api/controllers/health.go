package controllers

import (
	"context"
	"net/http"

	"github.com/dbackf/storefront/api/responses"
	"github.com/dbackf/storefront/pkg/config"
	pkgerrors "github.com/dbackf/storefront/pkg/errors"
	"github.com/dbackf/storefront/pkg/logger"
)

const envHeader = "X-Dbackf-Env"

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the session store and the dbackf backend.
func HealthReady(cfg *config.Config, logg *logger.Logger, sessions, backend Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		for name, dep := range map[string]Pinger{
			"redis":   sessions,
			"backend": backend,
		} {
			if dep == nil {
				checks[name] = "not configured"
				healthy = false
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
