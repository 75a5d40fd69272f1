package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/soportehq/support-metrics/internal/auth"
	"github.com/soportehq/support-metrics/internal/infrastructure/logging"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClientClaimsKey is the key used to store the API client claims in the
// request context.
const ClientClaimsKey contextKey = "clientClaims"

// ServiceTokenMiddleware validates the bearer service token from the
// Authorization header and stores the client claims in the context.
func ServiceTokenMiddleware(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Authorization header format must be Bearer {token}", http.StatusUnauthorized)
				return
			}

			tokenString := parts[1]
			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClientClaimsKey, claims)
			ctx = logging.WithClient(ctx, claims.Client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientClaims retrieves the API client claims from the context.
func GetClientClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClientClaimsKey).(*auth.Claims)
	return claims, ok
}
