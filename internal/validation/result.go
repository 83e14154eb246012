// Package validation runs the CIF validation workflow: syntactic check,
// debounced registry lookup, error classification and presentation tags.
package validation

import (
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/romanian"
)

// State is the validation session's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSuccess
	StateFormatInvalid
	StateAPIError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSuccess:
		return "success"
	case StateFormatInvalid:
		return "format_invalid"
	case StateAPIError:
		return "api_error"
	default:
		return "unknown"
	}
}

// ErrorKind tags a failed result for callers that branch on failure class.
type ErrorKind string

const (
	ErrorKindInvalidFormat ErrorKind = "INVALID_FORMAT"
	ErrorKindAPIError      ErrorKind = "API_ERROR"
	ErrorKindNotFound      ErrorKind = "NOT_FOUND"
)

// Result is the outcome of one validation attempt. A new attempt supersedes
// the previous Result wholesale; results are never merged.
type Result struct {
	Valid     bool            `json:"valid"`
	CIF       string          `json:"cif,omitempty"` // canonical display form
	Company   *models.Company `json:"company,omitempty"`
	ErrorKind ErrorKind       `json:"errorKind,omitempty"`
	Message   string          `json:"message,omitempty"`
	Retryable bool            `json:"retryable,omitempty"`

	formatReason romanian.FormatReason
}

func successResult(displayCIF string, company *models.Company) *Result {
	return &Result{Valid: true, CIF: displayCIF, Company: company}
}

func formatFailure(check romanian.FormatCheck) *Result {
	return &Result{
		ErrorKind:    ErrorKindInvalidFormat,
		Message:      check.Message,
		formatReason: check.Reason,
	}
}

// StatusBadge maps a result to a presentation tag. A nil result means a
// lookup is still in flight.
func StatusBadge(r *Result) models.Badge {
	switch {
	case r == nil:
		return models.Badge{Text: "Checking CIF", Tone: models.ToneInfo}
	case r.Valid:
		return models.Badge{Text: "CIF valid", Tone: models.ToneSuccess}
	case r.ErrorKind == ErrorKindInvalidFormat:
		return models.Badge{Text: "Invalid CIF format", Tone: models.ToneCritical}
	case r.ErrorKind == ErrorKindNotFound:
		return models.Badge{Text: "Company not found", Tone: models.ToneAttention}
	default:
		return models.Badge{Text: "Validation failed", Tone: models.ToneCaution}
	}
}

// SuggestionsFor returns actionable hints for a format failure, selected by
// the rule that failed. Other failure kinds and successes get none.
func SuggestionsFor(r *Result) []string {
	if r == nil || r.ErrorKind != ErrorKindInvalidFormat {
		return nil
	}
	switch r.formatReason {
	case romanian.ReasonEmpty:
		return []string{"Enter the company CIF, for example RO12345678"}
	case romanian.ReasonNonNumeric:
		return []string{
			"Remove spaces and punctuation",
			"Use only digits after the RO prefix",
		}
	case romanian.ReasonTooShort:
		return []string{"Check the digit count, a CIF has at least 2 digits"}
	case romanian.ReasonTooLong:
		return []string{"Check the digit count, a CIF has at most 10 digits"}
	default:
		return nil
	}
}

// ClientData is the invoicing-ready company record derived from a successful
// lookup. Country is always the fixed label for the market this app serves.
type ClientData struct {
	Name               string `json:"name"`
	CIF                string `json:"cif"`
	RegistrationNumber string `json:"registrationNumber"`
	Address            string `json:"address"`
	County             string `json:"county"`
	City               string `json:"city"`
	Country            string `json:"country"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
}

// DeriveClientData builds the client record from a registry company. County
// and locality go through the carrier alias tables so downstream calls get
// canonical tokens.
func DeriveClientData(displayCIF string, company *models.Company) *ClientData {
	if company == nil {
		return nil
	}
	return &ClientData{
		Name:               company.Name,
		CIF:                displayCIF,
		RegistrationNumber: company.RegistrationNumber,
		Address:            company.Address,
		County:             romanian.NormalizeCounty(company.County),
		City:               romanian.NormalizeCity(company.Locality),
		Country:            "Romania",
		Email:              company.Email,
		Phone:              company.Phone,
	}
}
