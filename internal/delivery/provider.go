package delivery

import (
	"context"
	"time"
)

// Address represents a physical address for pickup or delivery
type Address struct {
	Name       string `json:"name"`       // Company or person name
	Contact    string `json:"contact"`    // Contact person, when different from Name
	Street     string `json:"street"`     // Street and number
	City       string `json:"city"`       // Locality; "Bucuresti, Sector <n>" for the capital
	County     string `json:"county"`     // Canonical county token
	Zip        string `json:"zip"`        // Postal code
	Country    string `json:"country"`    // Country name (e.g., "Romania")
	Phone      string `json:"phone"`      // Phone number
	Email      string `json:"email"`      // Email address
	Notes      string `json:"notes"`      // Delivery instructions
	CompanyCIF string `json:"companyCIF"` // Tax code for business recipients, optional
}

// AWBRequest contains all data needed to create an air waybill
type AWBRequest struct {
	OrderNumber    string  `json:"orderNumber"`
	Sender         Address `json:"sender"`
	Recipient      Address `json:"recipient"`
	Parcels        int     `json:"parcels"`        // Number of parcels, minimum 1
	WeightKg       float64 `json:"weightKg"`       // Total weight in kg
	CODAmount      float64 `json:"codAmount"`      // Cash to collect at delivery, 0 for paid orders
	InsuredValue   float64 `json:"insuredValue"`   // Declared value
	Currency       string  `json:"currency"`       // Currency code (e.g., "RON")
	Contents       string  `json:"contents"`       // Content description
	Reference      string  `json:"reference"`      // Customer reference number
	ServiceID      string  `json:"serviceId"`      // Carrier service (provider-specific)
	PickupPointID  string  `json:"pickupPointId"`  // Pickup point (provider-specific)
	OpenAtDelivery bool    `json:"openAtDelivery"` // Recipient may inspect before paying
}

// AWBResponse contains the result from the carrier
type AWBResponse struct {
	AWBNumber   string                 `json:"awbNumber"`
	LabelPDF    []byte                 `json:"labelPDF,omitempty"` // PDF label data
	LabelURL    string                 `json:"labelURL,omitempty"` // URL to download label
	Cost        float64                `json:"cost"`
	Currency    string                 `json:"currency"`
	RawResponse map[string]interface{} `json:"rawResponse,omitempty"` // Original carrier response
	CreatedAt   time.Time              `json:"createdAt"`
}

// TrackingStatus represents the current status of a shipment
type TrackingStatus struct {
	AWBNumber   string                 `json:"awbNumber"`
	Status      string                 `json:"status"`     // Normalized status
	StatusCode  string                 `json:"statusCode"` // Carrier-specific status code
	Location    string                 `json:"location"`   // Current location
	UpdatedAt   time.Time              `json:"updatedAt"`  // Last update time
	Events      []TrackingEvent        `json:"events"`     // History of tracking events
	RawResponse map[string]interface{} `json:"rawResponse,omitempty"`
}

// TrackingEvent represents a single tracking event in the shipment history
type TrackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
	StatusCode  string    `json:"statusCode"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

// ProviderInterface defines the contract for all carrier providers.
// New carriers plug in by implementing this and registering themselves.
type ProviderInterface interface {
	// Code returns the unique code for this provider (e.g., "sameday", "fan")
	Code() string

	// Name returns the human-readable name of the provider
	Name() string

	// CreateAWB creates a new air waybill and returns tracking information
	CreateAWB(ctx context.Context, req *AWBRequest) (*AWBResponse, error)

	// CancelAWB cancels an existing air waybill
	CancelAWB(ctx context.Context, awbNumber string) error

	// GetStatus retrieves the current status of a shipment
	GetStatus(ctx context.Context, awbNumber string) (*TrackingStatus, error)

	// ValidateAddress validates an address for this carrier
	// Returns nil if valid, error if invalid
	ValidateAddress(ctx context.Context, addr *Address) error
}
