package middleware

import (
	"net/http"
	"strings"

	"github.com/petfeliz/storefront-backend/api/responses"
	"github.com/petfeliz/storefront-backend/pkg/auth"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/logger"
)

const (
	headerAuthorization = "Authorization"
	headerGuestID       = "X-Guest-Id"
	bearerPrefix        = "Bearer "
)

// Session lifts the caller's identity headers into the request context. The
// bearer token stays opaque: it is forwarded upstream, never parsed here.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if header := r.Header.Get(headerAuthorization); strings.HasPrefix(header, bearerPrefix) {
				if token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)); token != "" {
					ctx = auth.WithBearerToken(ctx, token)
				}
			}

			if guestID := strings.TrimSpace(r.Header.Get(headerGuestID)); guestID != "" {
				ctx = auth.WithGuestID(ctx, guestID)
				if logg != nil {
					ctx = logg.WithGuestID(ctx, guestID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests lacking a bearer token.
func RequireSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAuthenticated(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireGuest rejects requests lacking the guest session header.
func RequireGuest(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.GuestID(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Guest-Id header required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
