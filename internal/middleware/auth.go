package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/config"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/utils"
)

type contextKey string

// SessionContextKey holds the verified session token claims
const SessionContextKey contextKey = "session"

// AuthMiddleware verifies storefront session tokens
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateSessionToken(parts[1], cfg.Shopify.APIKey, cfg.Shopify.APISecret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
