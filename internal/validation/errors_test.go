package validation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/anaf"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/romanian"
)

type fakeNetError struct{ timeout bool }

func (e *fakeNetError) Error() string   { return "fake net error" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("lookup: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", &fakeNetError{timeout: true}, KindTimeout},
		{"net failure", &fakeNetError{}, KindNetwork},
		{"401", &anaf.StatusError{StatusCode: 401}, KindAuth},
		{"403", &anaf.StatusError{StatusCode: 403}, KindPermission},
		{"404", &anaf.StatusError{StatusCode: 404}, KindNotFound},
		{"429", &anaf.StatusError{StatusCode: 429}, KindServer},
		{"500", &anaf.StatusError{StatusCode: 500}, KindServer},
		{"api not found", &anaf.APIError{ErrorType: anaf.ErrorTypeNotFound}, KindNotFound},
		{"api rate limited", &anaf.APIError{ErrorType: anaf.ErrorTypeRateLimit}, KindServer},
		{"unclassified", fmt.Errorf("something odd"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, message := ClassifyError(tt.err)
			assert.Equal(t, tt.want, kind)
			assert.NotEmpty(t, message)
		})
	}

	t.Run("unknown passes raw text through", func(t *testing.T) {
		_, message := ClassifyError(fmt.Errorf("quota exhausted on shard 7"))
		assert.Equal(t, "quota exhausted on shard 7", message)
	})
}

func TestRemoteFailureTagging(t *testing.T) {
	notFound := remoteFailure(&anaf.APIError{ErrorType: anaf.ErrorTypeNotFound})
	assert.Equal(t, ErrorKindNotFound, notFound.ErrorKind)
	assert.True(t, notFound.Retryable)

	server := remoteFailure(&anaf.StatusError{StatusCode: 502})
	assert.Equal(t, ErrorKindAPIError, server.ErrorKind)
	assert.True(t, server.Retryable)
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, models.Badge{Text: "Checking CIF", Tone: models.ToneInfo}, StatusBadge(nil))
	assert.Equal(t, models.Badge{Text: "CIF valid", Tone: models.ToneSuccess}, StatusBadge(&Result{Valid: true}))
	assert.Equal(t, models.Badge{Text: "Invalid CIF format", Tone: models.ToneCritical}, StatusBadge(&Result{ErrorKind: ErrorKindInvalidFormat}))
	assert.Equal(t, models.Badge{Text: "Company not found", Tone: models.ToneAttention}, StatusBadge(&Result{ErrorKind: ErrorKindNotFound}))
	assert.Equal(t, models.Badge{Text: "Validation failed", Tone: models.ToneCaution}, StatusBadge(&Result{ErrorKind: ErrorKindAPIError}))
}

func TestSuggestionsFor(t *testing.T) {
	empty := formatFailure(romanian.ValidateCIF(""))
	nonNumeric := formatFailure(romanian.ValidateCIF("RO12 34"))
	tooLong := formatFailure(romanian.ValidateCIF("12345678901"))

	assert.NotEmpty(t, SuggestionsFor(empty))
	assert.NotEmpty(t, SuggestionsFor(nonNumeric))
	require.Len(t, SuggestionsFor(tooLong), 1)
	assert.Contains(t, SuggestionsFor(tooLong)[0], "at most 10")

	assert.Empty(t, SuggestionsFor(nil))
	assert.Empty(t, SuggestionsFor(&Result{Valid: true}))
	assert.Empty(t, SuggestionsFor(&Result{ErrorKind: ErrorKindAPIError}))
}
