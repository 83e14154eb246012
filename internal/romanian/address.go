package romanian

import (
	"regexp"
	"strings"
)

// Address is a customer address as it arrives from the storefront. Any field
// may be empty and the whole struct may be nil; every function in this
// package degrades to empty-string output instead of failing.
type Address struct {
	Address1     string `json:"address1"`
	Address2     string `json:"address2,omitempty"`
	City         string `json:"city"`
	Province     string `json:"province"`
	ProvinceCode string `json:"provinceCode"`
	Zip          string `json:"zip"`
	Country      string `json:"country"`
}

// NormalizedAddress is the exact shape the invoicing provider expects.
type NormalizedAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

const (
	// Capital is the canonical spelling of Bucharest used by both the
	// carrier and the invoicing provider.
	Capital = "Bucuresti"

	// CapitalProvinceCode is the single-letter province code Shopify uses
	// for Bucharest.
	CapitalProvinceCode = "B"

	// DefaultBucharestSector is applied when an address is recognized as
	// Bucharest but carries no explicit sector token.
	DefaultBucharestSector = "2"
)

var sectorPattern = regexp.MustCompile(`(?i)sector\s?([1-6])`)

var bucharestSectors = []string{"1", "2", "3", "4", "5", "6"}

// ExtractBucharestSector scans free text for a "sector N" token with N in
// 1..6 (any case, optional space). The first occurrence wins. The second
// return value is false when no sector is present.
func ExtractBucharestSector(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	m := sectorPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsBucharestAddress reports whether addr points at the capital: the city or
// province normalizes to Bucharest, the province code is the capital's, or
// the street line itself mentions a sector. A nil address is not Bucharest.
func IsBucharestAddress(addr *Address) bool {
	if addr == nil {
		return false
	}
	if NormalizeCity(addr.City) == Capital {
		return true
	}
	if NormalizeCounty(addr.Province) == Capital {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(addr.ProvinceCode), CapitalProvinceCode) {
		return true
	}
	_, ok := ExtractBucharestSector(addr.Address1)
	return ok
}

// FormatLocality renders the locality the invoicing provider requires. For
// Bucharest this is always "Bucuresti, Sector <n>", with the sector read
// from the street line or falling back to DefaultBucharestSector. Every
// other address gets its normalized city name untouched.
func FormatLocality(addr *Address) string {
	if addr == nil {
		return ""
	}
	if IsBucharestAddress(addr) {
		sector, ok := ExtractBucharestSector(addr.Address1)
		if !ok {
			sector = DefaultBucharestSector
		}
		return Capital + ", Sector " + sector
	}
	return NormalizeCity(addr.City)
}

// FormatAddress maps an address onto the invoicing provider's record shape.
// A nil address yields a record of empty strings.
func FormatAddress(addr *Address) NormalizedAddress {
	if addr == nil {
		return NormalizedAddress{}
	}
	return NormalizedAddress{
		Street:  strings.TrimSpace(addr.Address1),
		City:    FormatLocality(addr),
		State:   NormalizeCounty(addr.Province),
		Zip:     strings.TrimSpace(addr.Zip),
		Country: strings.TrimSpace(addr.Country),
	}
}

// BucharestSectors returns the six sector labels in order.
func BucharestSectors() []string {
	out := make([]string, len(bucharestSectors))
	copy(out, bucharestSectors)
	return out
}

// IsValidBucharestSector reports whether value is exactly one of "1".."6".
func IsValidBucharestSector(value string) bool {
	for _, s := range bucharestSectors {
		if value == s {
			return true
		}
	}
	return false
}
