// Package anaf talks to the company-registry lookup service that fronts the
// national tax authority. The service answers with the company record for a
// CIF, or a typed error payload.
package anaf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
)

// Config holds configuration for the registry client.
type Config struct {
	BaseURL string  // lookup endpoint base, e.g. https://api.openapi.ro/v1
	APIKey  string  // optional bearer key
	Timeout int     // request timeout in seconds (default 10)
	RPS     float64 // sustained requests per second (default 1, the registry's limit)
}

// Client is the HTTP client for the registry. It owns a rate limiter because
// the public registry throttles aggressively; callers just see slow calls,
// never 429 storms.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
}

// NewClient creates a registry client with pooled connections and a hard
// request timeout. The orchestrator relies on this timeout existing.
func NewClient(cfg Config, logger *zap.SugaredLogger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10
	}
	if cfg.RPS == 0 {
		cfg.RPS = 1
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		logger:  logger,
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.Timeout) * time.Second,
			Transport: transport,
		},
	}
}

type lookupRequest struct {
	CIF                      string `json:"cif"`
	IncludeInactiveCompanies bool   `json:"includeInactiveCompanies"`
}

type lookupResponse struct {
	Success   bool            `json:"success"`
	CIF       string          `json:"cif"`
	Company   *models.Company `json:"company"`
	Error     string          `json:"error"`
	ErrorType string          `json:"errorType"`
}

// LookupCompany fetches the registry record for a canonical (digits-only)
// CIF. Transport failures, non-2xx statuses and registry-level errors come
// back as typed errors so the validation layer can classify them.
func (c *Client) LookupCompany(ctx context.Context, cif string, includeInactive bool) (*models.Company, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("registry base URL is not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	body, err := json.Marshal(lookupRequest{CIF: cif, IncludeInactiveCompanies: includeInactive})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/companies/lookup", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed lookupResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.logger.Warnw("registry returned malformed payload", "cif", cif, "body", string(raw))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !parsed.Success {
		return nil, &APIError{ErrorType: parsed.ErrorType, Message: parsed.Error}
	}
	if parsed.Company == nil {
		return nil, &APIError{ErrorType: ErrorTypeNotFound, Message: "registry returned no company record"}
	}

	return parsed.Company, nil
}
