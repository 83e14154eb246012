package validation

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/anaf"
)

// Kind classifies a remote lookup failure. Each kind carries a fixed
// user-readable message; only KindUnknown passes the raw error text through.
type Kind int

const (
	KindNetwork Kind = iota
	KindTimeout
	KindAuth
	KindPermission
	KindNotFound
	KindServer
	KindUnknown
)

var kindMessages = map[Kind]string{
	KindNetwork:    "Could not reach the validation service. Check your connection and try again.",
	KindTimeout:    "The validation service took too long to respond. Please try again.",
	KindAuth:       "The validation service rejected our credentials.",
	KindPermission: "We are not allowed to query this company record.",
	KindNotFound:   "No company is registered under this CIF.",
	KindServer:     "The validation service is having trouble. Please try again shortly.",
}

// ClassifyError maps a lookup error to a failure kind and message.
func ClassifyError(err error) (Kind, string) {
	if err == nil {
		return KindUnknown, ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout, kindMessages[KindTimeout]
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout, kindMessages[KindTimeout]
		}
		return KindNetwork, kindMessages[KindNetwork]
	}

	var statusErr *anaf.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized:
			return KindAuth, kindMessages[KindAuth]
		case statusErr.StatusCode == http.StatusForbidden:
			return KindPermission, kindMessages[KindPermission]
		case statusErr.StatusCode == http.StatusNotFound:
			return KindNotFound, kindMessages[KindNotFound]
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return KindServer, kindMessages[KindServer]
		case statusErr.StatusCode >= 500:
			return KindServer, kindMessages[KindServer]
		}
		return KindUnknown, statusErr.Error()
	}

	var apiErr *anaf.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.NotFound():
			return KindNotFound, kindMessages[KindNotFound]
		case apiErr.ErrorType == anaf.ErrorTypeRateLimit:
			return KindServer, kindMessages[KindServer]
		}
		return KindUnknown, apiErr.Error()
	}

	return KindUnknown, err.Error()
}

// remoteFailure builds the Result for a failed lookup. Every remote failure
// is retryable; the user keeps the retry affordance even for not-found,
// since registry data lags new registrations.
func remoteFailure(err error) *Result {
	kind, message := ClassifyError(err)
	errorKind := ErrorKindAPIError
	if kind == KindNotFound {
		errorKind = ErrorKindNotFound
	}
	return &Result{
		ErrorKind: errorKind,
		Message:   message,
		Retryable: true,
	}
}
