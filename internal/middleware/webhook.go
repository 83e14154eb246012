package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/utils"
)

// WebhookMiddleware verifies the storefront's HMAC signature on webhook
// deliveries and drops redeliveries of already-processed events. The body is
// re-buffered so downstream handlers can read it normally.
func WebhookMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				http.Error(w, "Failed to read body", http.StatusBadRequest)
				return
			}
			r.Body.Close()

			signature := r.Header.Get("X-Shopify-Hmac-Sha256")
			if !verifyHMAC(body, signature, secret) {
				http.Error(w, "Invalid webhook signature", http.StatusUnauthorized)
				return
			}

			// Webhooks are redelivered on timeout; process each event once
			if utils.IsDuplicate(r.Header.Get("X-Shopify-Webhook-Id")) {
				w.WriteHeader(http.StatusOK)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func verifyHMAC(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
