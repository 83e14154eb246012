// Package sameday implements the carrier provider for Sameday Courier's REST
// API. Authentication tokens are cached per client and refreshed on expiry.
package sameday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/delivery"
)

// Config holds configuration for the Sameday provider
type Config struct {
	BaseURL       string // API base URL (defaults to https://api.sameday.ro)
	Username      string // API username
	Password      string // API password
	PickupPointID string // Default pickup point when the request carries none
	ServiceID     string // Default service when the request carries none
	Timeout       int    // Timeout in seconds (default: 30)
}

// Provider implements delivery.ProviderInterface for Sameday Courier
type Provider struct {
	config     Config
	httpClient *http.Client
	logger     *zap.SugaredLogger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewProvider creates a new Sameday provider
func NewProvider(config Config, logger *zap.SugaredLogger) (*Provider, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.sameday.ro"
	}
	if config.Timeout == 0 {
		config.Timeout = 30
	}
	if config.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if config.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	return &Provider{
		config: config,
		logger: logger,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

// Code returns the provider code
func (p *Provider) Code() string {
	return "sameday"
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "Sameday Courier"
}

type authResponse struct {
	Token    string `json:"token"`
	ExpireAt string `json:"expire_at"`
}

// authenticate returns a valid API token, reusing the cached one until
// shortly before it expires.
func (p *Provider) authenticate(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry.Add(-time.Minute)) {
		return p.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/api/authenticate", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("X-Auth-Username", p.config.Username)
	req.Header.Set("X-Auth-Password", p.config.Password)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("authentication request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authentication failed with status %d: %s", resp.StatusCode, string(body))
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("failed to parse auth response: %w", err)
	}
	if auth.Token == "" {
		return "", fmt.Errorf("authentication returned an empty token")
	}

	p.token = auth.Token
	p.tokenExpiry = time.Now().Add(23 * time.Hour)
	if expiry, err := time.Parse("2006-01-02 15:04", auth.ExpireAt); err == nil {
		p.tokenExpiry = expiry
	}
	return p.token, nil
}

// CreateAWB creates a new air waybill via Sameday
func (p *Provider) CreateAWB(ctx context.Context, req *delivery.AWBRequest) (*delivery.AWBResponse, error) {
	if err := p.ValidateAddress(ctx, &req.Recipient); err != nil {
		return nil, fmt.Errorf("recipient address invalid: %w", err)
	}

	token, err := p.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	form := p.buildAWBForm(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/api/awb", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("X-Auth-Token", token)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("AWB request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("AWB creation failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AWBNumber string `json:"awbNumber"`
		AWBCost   struct {
			Total    float64 `json:"total"`
			Currency string  `json:"currency"`
		} `json:"awbCost"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse AWB response: %w\nBody: %s", err, string(body))
	}
	if result.AWBNumber == "" {
		return nil, fmt.Errorf("carrier returned no AWB number: %s", string(body))
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(body, &raw)

	response := &delivery.AWBResponse{
		AWBNumber:   result.AWBNumber,
		Cost:        result.AWBCost.Total,
		Currency:    result.AWBCost.Currency,
		RawResponse: raw,
		CreatedAt:   time.Now(),
	}

	if label, err := p.downloadLabel(ctx, token, result.AWBNumber); err != nil {
		p.logger.Warnw("AWB created but label download failed", "awb", result.AWBNumber, "error", err)
	} else {
		response.LabelPDF = label
	}

	return response, nil
}

// downloadLabel fetches the A6 label PDF for an AWB
func (p *Provider) downloadLabel(ctx context.Context, token, awbNumber string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/api/awb/download/"+awbNumber+"/A6", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Auth-Token", token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("label download failed with status %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

// CancelAWB cancels an existing air waybill
func (p *Provider) CancelAWB(ctx context.Context, awbNumber string) error {
	token, err := p.authenticate(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.config.BaseURL+"/api/awb/"+awbNumber, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cancel request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("AWB cancellation failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// GetStatus retrieves the current status of a shipment
func (p *Provider) GetStatus(ctx context.Context, awbNumber string) (*delivery.TrackingStatus, error) {
	token, err := p.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/api/client/awb/"+awbNumber+"/status", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status lookup failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		ExpeditionStatus struct {
			StatusID    int    `json:"statusId"`
			Status      string `json:"status"`
			StatusLabel string `json:"statusLabel"`
			County      string `json:"county"`
			TransitDate string `json:"transitDate"`
		} `json:"expeditionStatus"`
		ExpeditionHistory []struct {
			StatusID    int    `json:"statusId"`
			Status      string `json:"status"`
			StatusLabel string `json:"statusLabel"`
			County      string `json:"county"`
			TransitDate string `json:"transitDate"`
		} `json:"expeditionHistory"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(body, &raw)

	status := &delivery.TrackingStatus{
		AWBNumber:   awbNumber,
		Status:      MapStatus(result.ExpeditionStatus.StatusID),
		StatusCode:  strconv.Itoa(result.ExpeditionStatus.StatusID),
		Location:    result.ExpeditionStatus.County,
		UpdatedAt:   parseTransitDate(result.ExpeditionStatus.TransitDate),
		RawResponse: raw,
	}
	for _, event := range result.ExpeditionHistory {
		status.Events = append(status.Events, delivery.TrackingEvent{
			Timestamp:   parseTransitDate(event.TransitDate),
			Status:      MapStatus(event.StatusID),
			StatusCode:  strconv.Itoa(event.StatusID),
			Location:    event.County,
			Description: event.StatusLabel,
		})
	}
	return status, nil
}

// ValidateAddress validates an address for Sameday
func (p *Provider) ValidateAddress(ctx context.Context, addr *delivery.Address) error {
	if addr == nil {
		return fmt.Errorf("address is required")
	}
	if addr.Name == "" {
		return fmt.Errorf("recipient name is required")
	}
	if addr.Street == "" {
		return fmt.Errorf("street is required")
	}
	if addr.City == "" {
		return fmt.Errorf("city is required")
	}
	if addr.County == "" {
		return fmt.Errorf("county is required")
	}
	if addr.Phone == "" {
		return fmt.Errorf("phone number is required")
	}
	return nil
}

// buildAWBForm converts an AWBRequest to Sameday's form encoding
func (p *Provider) buildAWBForm(req *delivery.AWBRequest) url.Values {
	serviceID := req.ServiceID
	if serviceID == "" {
		serviceID = p.config.ServiceID
	}
	pickupPoint := req.PickupPointID
	if pickupPoint == "" {
		pickupPoint = p.config.PickupPointID
	}
	parcels := req.Parcels
	if parcels < 1 {
		parcels = 1
	}

	form := url.Values{}
	form.Set("pickupPoint", pickupPoint)
	form.Set("service", serviceID)
	form.Set("packageType", "0")
	form.Set("packageNumber", strconv.Itoa(parcels))
	form.Set("packageWeight", strconv.FormatFloat(req.WeightKg, 'f', 2, 64))
	form.Set("cashOnDelivery", strconv.FormatFloat(req.CODAmount, 'f', 2, 64))
	form.Set("insuredValue", strconv.FormatFloat(req.InsuredValue, 'f', 2, 64))
	form.Set("thirdPartyPickup", "0")
	form.Set("awbPayment", "1") // sender pays

	form.Set("awbRecipient[name]", req.Recipient.Name)
	form.Set("awbRecipient[phoneNumber]", req.Recipient.Phone)
	form.Set("awbRecipient[address]", req.Recipient.Street)
	form.Set("awbRecipient[cityString]", req.Recipient.City)
	form.Set("awbRecipient[countyString]", req.Recipient.County)
	if req.Recipient.Zip != "" {
		form.Set("awbRecipient[postalCode]", req.Recipient.Zip)
	}
	if req.Recipient.Email != "" {
		form.Set("awbRecipient[email]", req.Recipient.Email)
	}
	if req.Recipient.CompanyCIF != "" {
		form.Set("awbRecipient[personType]", "1")
		form.Set("awbRecipient[companyCui]", req.Recipient.CompanyCIF)
	} else {
		form.Set("awbRecipient[personType]", "0")
	}

	if req.Reference != "" {
		form.Set("clientInternalReference", req.Reference)
	}
	if req.Contents != "" {
		form.Set("observation", req.Contents)
	}
	if req.OpenAtDelivery {
		form.Set("serviceTaxes[]", "openPackage")
	}
	return form
}

// MapStatus converts a Sameday status ID to a normalized status token
func MapStatus(statusID int) string {
	switch statusID {
	case 1, 4, 33: // parcel registered, picked up from sender
		return "pending"
	case 2, 3, 5, 6, 7, 17, 18: // in transit, in warehouse, out for delivery
		return "shipped"
	case 9: // delivered
		return "delivered"
	case 10, 16: // cancelled, returned to sender
		return "cancelled"
	case 11, 12, 13: // delivery failed, refused, wrong address
		return "error"
	default:
		return "pending"
	}
}

func parseTransitDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
