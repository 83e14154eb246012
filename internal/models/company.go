package models

import (
	"time"

	"gorm.io/datatypes"
)

// Company is the registry's view of a Romanian company, as returned by the
// lookup service. Instances are copied, never shared: a later lookup for the
// same session must not mutate a record already handed to a caller.
type Company struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	Address            string `json:"address"`
	County             string `json:"county"`
	Locality           string `json:"locality"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	IsActive           bool   `json:"isActive"`
}

// Clone returns an independent copy of the record.
func (c *Company) Clone() *Company {
	if c == nil {
		return nil
	}
	dup := *c
	return &dup
}

// CompanyLookup caches a registry response so repeated validations of the
// same CIF do not burn the registry's rate budget.
type CompanyLookup struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CIF         string         `gorm:"uniqueIndex;not null" json:"cif"`
	Name        string         `gorm:"index" json:"name"`
	IsActive    bool           `json:"is_active"`
	RawResponse datatypes.JSON `json:"raw_response,omitempty"`
	FetchedAt   time.Time      `json:"fetched_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
