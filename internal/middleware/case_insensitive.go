package middleware

import (
	"net/http"
	"strings"
)

// CaseInsensitiveMiddleware converts all URL paths to lowercase
// This allows API endpoints to be accessed regardless of case
// Example: /API/status and /api/status both work
func CaseInsensitiveMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.ToLower(r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
