package anaf

import "fmt"

// Error type tokens the registry uses in its error payloads.
const (
	ErrorTypeNotFound   = "not_found"
	ErrorTypeRateLimit  = "rate_limited"
	ErrorTypeValidation = "validation"
)

// StatusError is a non-2xx HTTP response from the registry.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry returned status %d: %s", e.StatusCode, e.Body)
}

// APIError is a well-formed registry response with success=false.
type APIError struct {
	ErrorType string
	Message   string
}

func (e *APIError) Error() string {
	if e.ErrorType == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.ErrorType, e.Message)
}

// NotFound reports whether the registry explicitly said the CIF has no
// record, as opposed to failing to answer.
func (e *APIError) NotFound() bool {
	return e.ErrorType == ErrorTypeNotFound
}
