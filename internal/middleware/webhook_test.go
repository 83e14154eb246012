package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec"

func sign(body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookMiddleware(t *testing.T) {
	var seenBody string
	handler := WebhookMiddleware(webhookSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seenBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid signature passes body through", func(t *testing.T) {
		body := `{"id":"1001"}`
		req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", strings.NewReader(body))
		req.Header.Set("X-Shopify-Hmac-Sha256", sign(body, webhookSecret))
		req.Header.Set("X-Shopify-Webhook-Id", "wh-valid-1")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, body, seenBody)
	})

	t.Run("invalid signature rejected", func(t *testing.T) {
		body := `{"id":"1002"}`
		req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", strings.NewReader(body))
		req.Header.Set("X-Shopify-Hmac-Sha256", sign(body, "wrong"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", strings.NewReader("{}"))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("redelivery acknowledged without reprocessing", func(t *testing.T) {
		body := `{"id":"1003"}`
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", strings.NewReader(body))
			req.Header.Set("X-Shopify-Hmac-Sha256", sign(body, webhookSecret))
			req.Header.Set("X-Shopify-Webhook-Id", "wh-dup-1")

			rec := httptest.NewRecorder()
			seenBody = ""
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			if i == 0 {
				assert.Equal(t, body, seenBody)
			} else {
				assert.Empty(t, seenBody)
			}
		}
	})
}
