package checkout

import (
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

// Session is one checkout attempt. It lives in memory only; abandoning it
// before Submit leaves no trace in any store.
type Session struct {
	mu sync.Mutex

	ownerID       string
	state         domain.CheckoutState
	selection     domain.Selection
	shipping      domain.ShippingInfo
	termsAccepted bool
	orderID       uuid.UUID
}

func newSession() *Session {
	return &Session{state: domain.CheckoutStateUninitialized}
}

func (s *Session) State() domain.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) OwnerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerID
}

// Selection returns a copy of the frozen selection. It is empty once the
// session completes.
func (s *Session) Selection() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clone()
}

func (s *Session) Shipping() domain.ShippingInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

func (s *Session) TermsAccepted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.termsAccepted
}

// OrderID is uuid.Nil until the session completes.
func (s *Session) OrderID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderID
}

func (s *Session) SetShipping(info domain.ShippingInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.AcceptsDetails() {
		return &stateError{op: "SetShipping", state: s.state}
	}
	s.shipping = info
	return nil
}

func (s *Session) AcceptTerms(accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.AcceptsDetails() {
		return &stateError{op: "AcceptTerms", state: s.state}
	}
	s.termsAccepted = accepted
	return nil
}

type stateError struct {
	op    string
	state domain.CheckoutState
}

func (e *stateError) Error() string {
	return e.op + " in state " + e.state.String() + ": " + ErrInvalidState.Error()
}

func (e *stateError) Is(target error) bool {
	return target == ErrInvalidState
}
