package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dbackf/storefront/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// Session resolves the shopper's session id from the request header, minting
// one for first-time visitors. The id is always echoed back so the client can
// persist it.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionIDHeader)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
