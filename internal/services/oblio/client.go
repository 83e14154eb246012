// Package oblio issues and cancels invoices at the Oblio invoicing provider.
package oblio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/config"
)

// Client is the HTTP client for the Oblio API. Access tokens are cached and
// refreshed shortly before expiry.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *zap.SugaredLogger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a new Oblio client
func NewClient(cfg config.OblioConfig, logger *zap.SugaredLogger) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       logger,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// ClientInfo is the invoice recipient block
type ClientInfo struct {
	Name    string `json:"name"`
	CIF     string `json:"cif,omitempty"`
	RC      string `json:"rc,omitempty"` // trade registry number
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Product is one invoice line
type Product struct {
	Name          string  `json:"name"`
	Code          string  `json:"code,omitempty"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	MeasuringUnit string  `json:"measuringUnit"`
	Currency      string  `json:"currency"`
	VATIncluded   bool    `json:"vatIncluded"`
}

// InvoiceRequest is the document creation payload
type InvoiceRequest struct {
	CIF        string     `json:"cif"` // issuing company's tax code
	Client     ClientInfo `json:"client"`
	SeriesName string     `json:"seriesName"`
	IssueDate  string     `json:"issueDate,omitempty"`
	Language   string     `json:"language,omitempty"`
	Mentions   string     `json:"mentions,omitempty"`
	Products   []Product  `json:"products"`
	SendEmail  int        `json:"sendEmail,omitempty"`
}

// InvoiceResult is the issued document's identity at the provider
type InvoiceResult struct {
	SeriesName string `json:"seriesName"`
	Number     string `json:"number"`
	Link       string `json:"link"`
	Total      string `json:"total"`
}

type apiResponse struct {
	Status        int             `json:"status"`
	StatusMessage string          `json:"statusMessage"`
	Data          json.RawMessage `json:"data"`
}

// authorize returns a valid access token, reusing the cached one until
// shortly before it expires.
func (c *Client) authorize(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/authorize/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("authorization request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authorization failed with status %d: %s", resp.StatusCode, string(body))
	}

	var auth struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("failed to parse auth response: %w", err)
	}
	if auth.AccessToken == "" {
		return "", fmt.Errorf("authorization returned an empty token")
	}

	c.token = auth.AccessToken
	expiresIn := auth.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3600
	}
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return c.token, nil
}

// CreateInvoice issues an invoice document
func (c *Client) CreateInvoice(ctx context.Context, req *InvoiceRequest) (*InvoiceResult, error) {
	token, err := c.authorize(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/docs/invoice", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("invoice request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse invoice response: %w\nBody: %s", err, string(body))
	}
	if resp.StatusCode != http.StatusOK || parsed.Status != 200 {
		return nil, fmt.Errorf("invoice creation failed: %s (status %d)", parsed.StatusMessage, parsed.Status)
	}

	var result InvoiceResult
	if err := json.Unmarshal(parsed.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse invoice data: %w", err)
	}
	return &result, nil
}

// CancelInvoice cancels an issued document at the provider
func (c *Client) CancelInvoice(ctx context.Context, companyCIF, seriesName, number string) error {
	token, err := c.authorize(ctx)
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("cif", companyCIF)
	query.Set("seriesName", seriesName)
	query.Set("number", number)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/docs/invoice/cancel?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cancel request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to parse cancel response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Status != 200 {
		return fmt.Errorf("invoice cancellation failed: %s (status %d)", parsed.StatusMessage, parsed.Status)
	}
	return nil
}
