package models

import (
	"time"

	"gorm.io/datatypes"
)

// Shipment status constants
const (
	ShipmentStatusPending   = "pending"   // Queued for AWB creation
	ShipmentStatusShipped   = "shipped"   // AWB issued by the carrier
	ShipmentStatusDelivered = "delivered" // Delivered to customer
	ShipmentStatusError     = "error"     // Carrier call failed
	ShipmentStatusCancelled = "cancelled" // AWB cancelled
)

// Shipment links a storefront order to a carrier AWB. The order payload is
// snapshotted at creation time so the background worker can build the
// carrier request without re-fetching the order.
type Shipment struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference    string         `gorm:"uniqueIndex;not null" json:"reference"` // internal idempotency key
	OrderID      string         `gorm:"index" json:"orderId"`
	OrderName    string         `gorm:"index" json:"orderName"`
	ProviderCode string         `gorm:"index;not null" json:"providerCode"`
	Status       string         `gorm:"index;default:pending" json:"status"`
	AWBNumber    string         `gorm:"index" json:"awbNumber"`
	WeightKg     float64        `json:"weightKg"`
	CODAmount    float64        `json:"codAmount"`
	InsuredValue float64        `json:"insuredValue"`
	Cost         float64        `json:"cost"`
	Currency     string         `gorm:"default:RON" json:"currency"`
	ErrorMessage string         `gorm:"type:text" json:"errorMessage"`
	LabelURL     string         `json:"labelUrl"`
	LabelData    []byte         `gorm:"type:bytea" json:"-"` // PDF label
	OrderPayload datatypes.JSON `json:"-"`                   // order snapshot for the worker
	RawResponse  datatypes.JSON `json:"rawResponse,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	ShippedAt    *time.Time     `json:"shippedAt"`
	DeliveredAt  *time.Time     `json:"deliveredAt"`
}

func (Shipment) TableName() string { return "shipments" }

// ShipmentEvent stores tracking history for a shipment.
type ShipmentEvent struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ShipmentID  int64     `gorm:"index;not null" json:"shipmentId"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
	Status      string    `gorm:"not null" json:"status"`
	StatusCode  string    `json:"statusCode"` // carrier-specific status code
	Location    string    `json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	Shipment *Shipment `gorm:"foreignKey:ShipmentID" json:"shipment,omitempty"`
}

func (ShipmentEvent) TableName() string { return "shipment_events" }
