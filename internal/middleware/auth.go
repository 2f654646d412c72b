package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/khawaidev/koye-ai-cli-start/internal/auth"
	"github.com/khawaidev/koye-ai-cli-start/internal/http/respond"
)

// contextKey is a private type so request-context values cannot collide.
type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFromContext retrieves the verified token claims attached by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// RequireAuth authenticates requests with a bearer token. Requests without a
// valid Authorization header are rejected before any provider call happens.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "missing or malformed Authorization header")
				return
			}
			claims, err := tokens.Verify(token)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
