package models

import (
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/romanian"
)

// WeightUnit mirrors the storefront's weight unit enum.
type WeightUnit string

const (
	UnitKilograms WeightUnit = "KILOGRAMS"
	UnitGrams     WeightUnit = "GRAMS"
	UnitPounds    WeightUnit = "POUNDS"
	UnitOunces    WeightUnit = "OUNCES"
)

// Financial status tokens as the storefront reports them.
const (
	FinancialStatusPaid              = "paid"
	FinancialStatusPending           = "pending"
	FinancialStatusPartiallyPaid     = "partially_paid"
	FinancialStatusRefunded          = "refunded"
	FinancialStatusPartiallyRefunded = "partially_refunded"
	FinancialStatusVoided            = "voided"
)

// Weight is a line item's unit weight.
type Weight struct {
	Value float64    `json:"value"`
	Unit  WeightUnit `json:"unit"`
}

// LineItem is one order line. Weight is nil when the product has no weight
// data; the fulfillment calculator substitutes a fallback in that case.
type LineItem struct {
	Title    string  `json:"title,omitempty"`
	SKU      string  `json:"sku,omitempty"`
	Quantity int     `json:"quantity"`
	Price    string  `json:"price,omitempty"`
	Weight   *Weight `json:"weight,omitempty"`
}

// Customer carries the buyer's identity as entered at checkout.
type Customer struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// DisplayName joins first and last name, tolerating either being empty.
func (c *Customer) DisplayName() string {
	if c == nil {
		return ""
	}
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Order is the request-scoped order payload the storefront sends. Monetary
// fields arrive as decimal strings and stay strings until the fulfillment
// calculator parses them; a missing field defaults to zero there.
type Order struct {
	ID                     string            `json:"id"`
	Name                   string            `json:"name"`
	Email                  string            `json:"email,omitempty"`
	Phone                  string            `json:"phone,omitempty"`
	DisplayFinancialStatus string            `json:"displayFinancialStatus"`
	CurrentTotal           string            `json:"currentTotal,omitempty"`
	OriginalTotal          string            `json:"originalTotal,omitempty"`
	TotalOutstanding       string            `json:"totalOutstanding,omitempty"`
	TotalReceived          string            `json:"totalReceived,omitempty"`
	LineItems              []LineItem        `json:"lineItems"`
	ShippingAddress        *romanian.Address `json:"shippingAddress,omitempty"`
	BillingAddress         *romanian.Address `json:"billingAddress,omitempty"`
	Customer               *Customer         `json:"customer,omitempty"`
	Note                   string            `json:"note,omitempty"`
}
