package validation

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/romanian"
)

// DefaultSettleWindow is how long input must stay quiet before a submitted
// CIF is evaluated.
const DefaultSettleWindow = 500 * time.Millisecond

// LookupFunc resolves a canonical (digits-only) CIF against the registry.
type LookupFunc func(ctx context.Context, cif string) (*models.Company, error)

// Callbacks receive session events. All callbacks fire outside the session
// lock, on the goroutine that produced the transition; nil callbacks are
// skipped. OnCompany fires only on successful lookups, after OnResult.
type Callbacks struct {
	OnState   func(State)
	OnResult  func(*Result)
	OnCompany func(*ClientData)
}

// Session runs the validation workflow for one input stream. Rapid input is
// debounced through a single replaceable timer; evaluations are tagged with
// a monotonic sequence number and a completion applies only if it is still
// the newest, so a slow lookup can never overwrite a fresher outcome.
type Session struct {
	lookup LookupFunc
	settle time.Duration
	cb     Callbacks
	logger *zap.SugaredLogger

	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	input  string
	state  State
	result *Result
}

// NewSession creates an idle session. settle <= 0 uses DefaultSettleWindow.
func NewSession(lookup LookupFunc, settle time.Duration, cb Callbacks, logger *zap.SugaredLogger) *Session {
	if settle <= 0 {
		settle = DefaultSettleWindow
	}
	return &Session{
		lookup: lookup,
		settle: settle,
		cb:     cb,
		logger: logger,
		state:  StateIdle,
	}
}

// Submit records new raw input and schedules its evaluation after the settle
// window. A pending evaluation from earlier input is cancelled, never
// queued. Empty input resets to Idle synchronously with no remote call.
func (s *Session) Submit(raw string) {
	s.mu.Lock()
	s.input = raw
	s.stopTimerLocked()

	if strings.TrimSpace(raw) == "" {
		s.seq++ // invalidates any in-flight lookup
		s.state = StateIdle
		s.result = nil
		s.mu.Unlock()
		s.fireState(StateIdle)
		s.fireResult(nil)
		return
	}

	s.timer = time.AfterFunc(s.settle, func() {
		s.evaluate(raw)
	})
	s.mu.Unlock()
}

// ValidateNow evaluates the current input immediately, skipping the settle
// window. It is a no-op when the input is empty.
func (s *Session) ValidateNow() {
	s.mu.Lock()
	raw := s.input
	s.stopTimerLocked()
	s.mu.Unlock()

	if strings.TrimSpace(raw) == "" {
		return
	}
	s.evaluate(raw)
}

// Stop cancels any pending evaluation and invalidates in-flight lookups.
// The session can still be reused after a Stop.
func (s *Session) Stop() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.seq++
	s.mu.Unlock()
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the latest applied result, nil while Idle or Validating.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// evaluate runs the format check synchronously and, if it passes, starts the
// remote lookup on its own goroutine tagged with a fresh sequence number.
func (s *Session) evaluate(raw string) {
	s.mu.Lock()
	s.seq++
	id := s.seq

	check := romanian.ValidateCIF(raw)
	if !check.Valid {
		s.state = StateFormatInvalid
		s.result = formatFailure(check)
		result := s.result
		s.mu.Unlock()
		s.fireState(StateFormatInvalid)
		s.fireResult(result)
		return
	}

	s.state = StateValidating
	s.result = nil
	s.mu.Unlock()
	s.fireState(StateValidating)

	go s.complete(id, romanian.StripCIF(raw), romanian.FormatCIF(raw))
}

// complete performs the lookup and applies the outcome unless a newer
// evaluation has started meanwhile.
func (s *Session) complete(id uint64, canonicalCIF, displayCIF string) {
	company, err := s.lookup(context.Background(), canonicalCIF)

	s.mu.Lock()
	if id != s.seq {
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Debugw("discarding stale validation result", "cif", displayCIF)
		}
		return
	}

	var clientData *ClientData
	if err != nil {
		s.state = StateAPIError
		s.result = remoteFailure(err)
	} else {
		s.state = StateSuccess
		s.result = successResult(displayCIF, company.Clone())
		clientData = DeriveClientData(displayCIF, company)
	}
	state, result := s.state, s.result
	s.mu.Unlock()

	if err != nil && s.logger != nil {
		s.logger.Warnw("company lookup failed", "cif", displayCIF, "error", err)
	}

	s.fireState(state)
	s.fireResult(result)
	if clientData != nil {
		s.fireCompany(clientData)
	}
}

func (s *Session) fireState(state State) {
	if s.cb.OnState != nil {
		s.cb.OnState(state)
	}
}

func (s *Session) fireResult(r *Result) {
	if s.cb.OnResult != nil {
		s.cb.OnResult(r)
	}
}

func (s *Session) fireCompany(data *ClientData) {
	if s.cb.OnCompany != nil {
		s.cb.OnCompany(data)
	}
}

// Validate runs the full format-then-lookup sequence synchronously. It backs
// the one-shot HTTP endpoint, where debouncing belongs to the caller.
func Validate(ctx context.Context, raw string, lookup LookupFunc) (*Result, *ClientData) {
	check := romanian.ValidateCIF(raw)
	if !check.Valid {
		return formatFailure(check), nil
	}

	displayCIF := romanian.FormatCIF(raw)
	company, err := lookup(ctx, romanian.StripCIF(raw))
	if err != nil {
		return remoteFailure(err), nil
	}
	return successResult(displayCIF, company.Clone()), DeriveClientData(displayCIF, company)
}
