package anaf

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, RPS: 1000}, zap.NewNop().Sugar())
}

func TestLookupCompanySuccess(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/companies/lookup", r.URL.Path)

		var req lookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "12345678", req.CIF)
		assert.True(t, req.IncludeInactiveCompanies)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"cif":     "12345678",
			"company": map[string]any{
				"name":     "EXEMPLU SRL",
				"county":   "Cluj",
				"locality": "Cluj-Napoca",
				"isActive": true,
			},
		})
	})

	company, err := client.LookupCompany(context.Background(), "12345678", true)
	require.NoError(t, err)
	assert.Equal(t, "EXEMPLU SRL", company.Name)
	assert.Equal(t, "Cluj", company.County)
	assert.True(t, company.IsActive)
}

func TestLookupCompanyAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":   false,
			"error":     "no company registered for this CIF",
			"errorType": ErrorTypeNotFound,
		})
	})

	_, err := client.LookupCompany(context.Background(), "99999999", false)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.NotFound())
}

func TestLookupCompanyStatusError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	})

	_, err := client.LookupCompany(context.Background(), "12345678", false)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestLookupCompanyMissingCompany(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "cif": "12345678"})
	})

	_, err := client.LookupCompany(context.Background(), "12345678", false)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.NotFound())
}

func TestLookupCompanyContextCancelled(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.LookupCompany(ctx, "12345678", false)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLookupCompanyNoBaseURL(t *testing.T) {
	client := NewClient(Config{}, zap.NewNop().Sugar())
	_, err := client.LookupCompany(context.Background(), "12345678", false)
	assert.Error(t, err)
}
