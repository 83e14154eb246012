package validation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/anaf"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
)

const testSettle = 20 * time.Millisecond

// recorder captures callback traffic so tests can await transitions without
// sleeping for fixed intervals.
type recorder struct {
	mu        sync.Mutex
	states    []State
	results   []*Result
	companies []*ClientData
	signal    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{signal: make(chan struct{}, 64)}
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnState: func(s State) {
			r.mu.Lock()
			r.states = append(r.states, s)
			r.mu.Unlock()
			r.signal <- struct{}{}
		},
		OnResult: func(res *Result) {
			r.mu.Lock()
			r.results = append(r.results, res)
			r.mu.Unlock()
			r.signal <- struct{}{}
		},
		OnCompany: func(c *ClientData) {
			r.mu.Lock()
			r.companies = append(r.companies, c)
			r.mu.Unlock()
			r.signal <- struct{}{}
		},
	}
}

func (r *recorder) waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		r.mu.Lock()
		ok := cond()
		r.mu.Unlock()
		if ok {
			return
		}
		select {
		case <-r.signal:
		case <-deadline:
			t.Fatal("timed out waiting for session transition")
		}
	}
}

// lastState must be called with r.mu held; waitFor holds the lock while
// evaluating its condition, so locking here again would self-deadlock.
func (r *recorder) lastState() State {
	if len(r.states) == 0 {
		return StateIdle
	}
	return r.states[len(r.states)-1]
}

func staticLookup(company *models.Company, err error) LookupFunc {
	return func(ctx context.Context, cif string) (*models.Company, error) {
		return company, err
	}
}

func TestSubmitEmptyInputResetsToIdle(t *testing.T) {
	rec := newRecorder()
	session := NewSession(staticLookup(nil, fmt.Errorf("must not be called")), testSettle, rec.callbacks(), zap.NewNop().Sugar())

	session.Submit("   ")

	// Transition is synchronous for empty input.
	assert.Equal(t, StateIdle, session.State())
	assert.Nil(t, session.Result())
	rec.mu.Lock()
	require.Len(t, rec.results, 1)
	assert.Nil(t, rec.results[0])
	rec.mu.Unlock()
}

func TestSubmitFormatInvalidSkipsLookup(t *testing.T) {
	called := false
	lookup := func(ctx context.Context, cif string) (*models.Company, error) {
		called = true
		return nil, nil
	}
	rec := newRecorder()
	session := NewSession(lookup, testSettle, rec.callbacks(), zap.NewNop().Sugar())

	session.Submit("RO12AB")
	rec.waitFor(t, func() bool { return len(rec.results) > 0 })

	assert.Equal(t, StateFormatInvalid, session.State())
	result := session.Result()
	require.NotNil(t, result)
	assert.Equal(t, ErrorKindInvalidFormat, result.ErrorKind)
	assert.False(t, result.Retryable)
	assert.False(t, called)
}

func TestSubmitSuccessEmitsCompany(t *testing.T) {
	company := &models.Company{
		Name:     "EXEMPLU SRL",
		County:   "Cluj",
		Locality: "Cluj-Napoca",
		IsActive: true,
	}
	rec := newRecorder()
	session := NewSession(staticLookup(company, nil), testSettle, rec.callbacks(), zap.NewNop().Sugar())

	session.Submit("ro12345678")
	rec.waitFor(t, func() bool { return len(rec.companies) > 0 })

	assert.Equal(t, StateSuccess, session.State())
	result := session.Result()
	require.NotNil(t, result)
	assert.True(t, result.Valid)
	assert.Equal(t, "RO12345678", result.CIF)
	require.NotNil(t, result.Company)
	assert.Equal(t, "EXEMPLU SRL", result.Company.Name)
	assert.NotSame(t, company, result.Company)

	rec.mu.Lock()
	data := rec.companies[0]
	rec.mu.Unlock()
	assert.Equal(t, "RO12345678", data.CIF)
	assert.Equal(t, "Romania", data.Country)
	assert.Equal(t, "Cluj", data.County)
}

func TestSubmitRemoteFailure(t *testing.T) {
	rec := newRecorder()
	session := NewSession(staticLookup(nil, &anaf.StatusError{StatusCode: 503, Body: "down"}), testSettle, rec.callbacks(), zap.NewNop().Sugar())

	session.Submit("12345678")
	rec.waitFor(t, func() bool { return rec.lastState() == StateAPIError })

	result := session.Result()
	require.NotNil(t, result)
	assert.Equal(t, ErrorKindAPIError, result.ErrorKind)
	assert.True(t, result.Retryable)
	assert.NotEmpty(t, result.Message)
	rec.mu.Lock()
	assert.Empty(t, rec.companies)
	rec.mu.Unlock()
}

func TestDebounceOnlyLastInputEvaluated(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	lookup := func(ctx context.Context, cif string) (*models.Company, error) {
		mu.Lock()
		seen = append(seen, cif)
		mu.Unlock()
		return &models.Company{Name: "X"}, nil
	}
	rec := newRecorder()
	session := NewSession(lookup, testSettle, rec.callbacks(), zap.NewNop().Sugar())

	session.Submit("12")
	session.Submit("123")
	session.Submit("1234")
	rec.waitFor(t, func() bool { return rec.lastState() == StateSuccess })

	// Earlier submissions were replaced before their timers fired.
	time.Sleep(3 * testSettle)
	mu.Lock()
	assert.Equal(t, []string{"1234"}, seen)
	mu.Unlock()
}

func TestStaleResultDiscarded(t *testing.T) {
	slow := make(chan struct{})
	lookup := func(ctx context.Context, cif string) (*models.Company, error) {
		if cif == "11111111" {
			<-slow // held until after the newer lookup finishes
			return &models.Company{Name: "STALE SRL"}, nil
		}
		return &models.Company{Name: "FRESH SRL"}, nil
	}
	rec := newRecorder()
	session := NewSession(lookup, testSettle, rec.callbacks(), zap.NewNop().Sugar())

	session.Submit("11111111")
	rec.waitFor(t, func() bool { return rec.lastState() == StateValidating })

	session.Submit("22222222")
	rec.waitFor(t, func() bool { return rec.lastState() == StateSuccess })

	close(slow)
	time.Sleep(50 * time.Millisecond)

	result := session.Result()
	require.NotNil(t, result)
	require.NotNil(t, result.Company)
	assert.Equal(t, "FRESH SRL", result.Company.Name)
	assert.Equal(t, StateSuccess, session.State())
}

func TestValidateNowBypassesDebounce(t *testing.T) {
	rec := newRecorder()
	session := NewSession(staticLookup(&models.Company{Name: "X"}, nil), time.Hour, rec.callbacks(), zap.NewNop().Sugar())

	session.Submit("12345678")
	session.ValidateNow()
	rec.waitFor(t, func() bool { return rec.lastState() == StateSuccess })

	assert.Equal(t, StateSuccess, session.State())
}

func TestValidateNowEmptyInputIsNoOp(t *testing.T) {
	rec := newRecorder()
	session := NewSession(staticLookup(nil, fmt.Errorf("must not be called")), testSettle, rec.callbacks(), zap.NewNop().Sugar())

	session.ValidateNow()

	assert.Equal(t, StateIdle, session.State())
	rec.mu.Lock()
	assert.Empty(t, rec.states)
	rec.mu.Unlock()
}

func TestValidateSynchronous(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		result, data := Validate(context.Background(), "RO12345678", staticLookup(&models.Company{Name: "EXEMPLU SRL"}, nil))
		require.NotNil(t, result)
		assert.True(t, result.Valid)
		require.NotNil(t, data)
		assert.Equal(t, "EXEMPLU SRL", data.Name)
	})

	t.Run("format failure", func(t *testing.T) {
		result, data := Validate(context.Background(), "abc", staticLookup(nil, nil))
		require.NotNil(t, result)
		assert.Equal(t, ErrorKindInvalidFormat, result.ErrorKind)
		assert.Nil(t, data)
	})

	t.Run("not found", func(t *testing.T) {
		err := &anaf.APIError{ErrorType: anaf.ErrorTypeNotFound, Message: "nothing"}
		result, data := Validate(context.Background(), "99", staticLookup(nil, err))
		require.NotNil(t, result)
		assert.Equal(t, ErrorKindNotFound, result.ErrorKind)
		assert.True(t, result.Retryable)
		assert.Nil(t, data)
	})
}
