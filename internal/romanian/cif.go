package romanian

import (
	"strings"
)

// FormatReason identifies which syntactic rule a CIF failed, so callers can
// show targeted hints instead of a generic "invalid" message.
type FormatReason int

const (
	ReasonOK FormatReason = iota
	ReasonEmpty
	ReasonTooShort
	ReasonTooLong
	ReasonNonNumeric
)

// A CIF is 2 to 10 digits after the optional RO prefix.
const (
	cifMinDigits = 2
	cifMaxDigits = 10
)

// FormatCheck is the outcome of a syntactic CIF validation. It never carries
// an error value; malformed input fails closed with a reason and message.
type FormatCheck struct {
	Valid   bool         `json:"valid"`
	Reason  FormatReason `json:"-"`
	Message string       `json:"message,omitempty"`
}

// StripCIF returns the canonical lookup form of a tax code: surrounding
// whitespace removed and the case-insensitive "RO" prefix dropped. The
// remainder is returned as-is, valid or not.
func StripCIF(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= 2 && strings.EqualFold(trimmed[:2], "RO") {
		trimmed = trimmed[2:]
	}
	return strings.TrimSpace(trimmed)
}

// FormatCIF returns the canonical display form "RO" + digits, regardless of
// whether the input already carried the prefix. Re-applying it is a no-op.
// Empty input stays empty.
func FormatCIF(raw string) string {
	stripped := StripCIF(raw)
	if stripped == "" {
		return ""
	}
	return "RO" + stripped
}

// ValidateCIF checks the syntax of a Romanian company tax code. Valid input
// is 2-10 ASCII digits after stripping whitespace and the optional RO
// prefix. It never calls out anywhere; remote existence checks are the
// validation orchestrator's job.
func ValidateCIF(raw string) FormatCheck {
	stripped := StripCIF(raw)
	switch {
	case stripped == "":
		return FormatCheck{
			Reason:  ReasonEmpty,
			Message: "Enter a company tax code (CIF).",
		}
	case !isASCIIDigits(stripped):
		return FormatCheck{
			Reason:  ReasonNonNumeric,
			Message: "A CIF contains only digits after the optional RO prefix.",
		}
	case len(stripped) < cifMinDigits:
		return FormatCheck{
			Reason:  ReasonTooShort,
			Message: "A CIF has at least 2 digits.",
		}
	case len(stripped) > cifMaxDigits:
		return FormatCheck{
			Reason:  ReasonTooLong,
			Message: "A CIF has at most 10 digits.",
		}
	}
	return FormatCheck{Valid: true, Reason: ReasonOK}
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
