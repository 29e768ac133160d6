package middleware

import (
	"net/http"
	"strings"

	"github.com/ayush/bookshelf/internal/api"
	"github.com/ayush/bookshelf/internal/auth"
)

// RequireAuth validates the Authorization header and injects the token
// claims into the request context. Every failure branch writes exactly
// one response.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				api.Error(w, http.StatusBadRequest, "Authorization header is required")
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				api.Error(w, http.StatusBadRequest, "Authentication token should contain 'Bearer [token]'")
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				api.Error(w, http.StatusBadRequest, "Invalid/Expired Token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}
