package sameday

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/delivery"
)

func testProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewProvider(Config{
		BaseURL:       server.URL,
		Username:      "user",
		Password:      "pass",
		PickupPointID: "101",
		ServiceID:     "7",
	}, zap.NewNop().Sugar())
	require.NoError(t, err)
	return p
}

func samedayMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/authenticate", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user", r.Header.Get("X-Auth-Username"))
		assert.Equal(t, "pass", r.Header.Get("X-Auth-Password"))
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "expire_at": "2099-01-01 00:00"})
	})
	return mux
}

func TestCreateAWB(t *testing.T) {
	mux := samedayMux(t)
	mux.HandleFunc("/api/awb", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-1", r.Header.Get("X-Auth-Token"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "101", r.PostForm.Get("pickupPoint"))
		assert.Equal(t, "7", r.PostForm.Get("service"))
		assert.Equal(t, "2.40", r.PostForm.Get("packageWeight"))
		assert.Equal(t, "150.00", r.PostForm.Get("cashOnDelivery"))
		assert.Equal(t, "Ana Pop", r.PostForm.Get("awbRecipient[name]"))
		assert.Equal(t, "Bucuresti, Sector 3", r.PostForm.Get("awbRecipient[cityString]"))
		json.NewEncoder(w).Encode(map[string]any{
			"awbNumber": "2SDAY123456",
			"awbCost":   map[string]any{"total": 19.5, "currency": "RON"},
		})
	})
	mux.HandleFunc("/api/awb/download/2SDAY123456/A6", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-fake"))
	})

	p := testProvider(t, mux)
	resp, err := p.CreateAWB(context.Background(), &delivery.AWBRequest{
		OrderNumber: "#1001",
		Recipient: delivery.Address{
			Name:   "Ana Pop",
			Street: "Bulevardul Unirii 45",
			City:   "Bucuresti, Sector 3",
			County: "Bucuresti",
			Phone:  "0712345678",
		},
		WeightKg:  2.4,
		CODAmount: 150.00,
	})
	require.NoError(t, err)
	assert.Equal(t, "2SDAY123456", resp.AWBNumber)
	assert.InDelta(t, 19.5, resp.Cost, 0.001)
	assert.Equal(t, []byte("%PDF-fake"), resp.LabelPDF)
}

func TestCreateAWBRejectsIncompleteAddress(t *testing.T) {
	p := testProvider(t, samedayMux(t))
	_, err := p.CreateAWB(context.Background(), &delivery.AWBRequest{
		Recipient: delivery.Address{Name: "Ana Pop"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "street is required")
}

func TestTokenReuse(t *testing.T) {
	authCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/authenticate", func(w http.ResponseWriter, r *http.Request) {
		authCalls++
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "expire_at": "2099-01-01 00:00"})
	})
	mux.HandleFunc("/api/awb/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	p := testProvider(t, mux)
	require.NoError(t, p.CancelAWB(context.Background(), "A1"))
	require.NoError(t, p.CancelAWB(context.Background(), "A2"))
	assert.Equal(t, 1, authCalls)
}

func TestGetStatus(t *testing.T) {
	mux := samedayMux(t)
	mux.HandleFunc("/api/client/awb/2SDAY123456/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"expeditionStatus": map[string]any{
				"statusId":    9,
				"status":      "Livrat",
				"statusLabel": "Colet livrat",
				"county":      "Cluj",
				"transitDate": "2026-08-20 14:30:00",
			},
			"expeditionHistory": []map[string]any{
				{"statusId": 2, "statusLabel": "In tranzit", "county": "Ilfov", "transitDate": "2026-08-19 08:00:00"},
			},
		})
	})

	p := testProvider(t, mux)
	status, err := p.GetStatus(context.Background(), "2SDAY123456")
	require.NoError(t, err)
	assert.Equal(t, "delivered", status.Status)
	assert.Equal(t, "Cluj", status.Location)
	require.Len(t, status.Events, 1)
	assert.Equal(t, "shipped", status.Events[0].Status)
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, "pending", MapStatus(1))
	assert.Equal(t, "shipped", MapStatus(2))
	assert.Equal(t, "delivered", MapStatus(9))
	assert.Equal(t, "cancelled", MapStatus(10))
	assert.Equal(t, "error", MapStatus(12))
	assert.Equal(t, "pending", MapStatus(999))
}
