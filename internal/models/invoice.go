package models

import "time"

// Invoice status constants
const (
	InvoiceStatusIssued    = "issued"
	InvoiceStatusCancelled = "cancelled"
	InvoiceStatusError     = "error"
)

// Invoice records a document issued at the invoicing provider for an order.
type Invoice struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      string    `gorm:"index" json:"orderId"`
	OrderName    string    `gorm:"index" json:"orderName"`
	CIF          string    `gorm:"index" json:"cif"` // customer tax code, empty for consumer sales
	SeriesName   string    `json:"seriesName"`
	Number       string    `gorm:"index" json:"number"`
	Link         string    `json:"link"` // provider-hosted document URL
	Total        float64   `json:"total"`
	Currency     string    `gorm:"default:RON" json:"currency"`
	Status       string    `gorm:"index;default:issued" json:"status"`
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Invoice) TableName() string { return "invoices" }
