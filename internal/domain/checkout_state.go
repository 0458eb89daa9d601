package domain

import "errors"

type CheckoutState string

// remember to add new states to the validCheckoutStates map
const (
	CheckoutStateUninitialized      CheckoutState = "uninitialized"
	CheckoutStateResolvingSelection CheckoutState = "resolving_selection"
	CheckoutStateSelectionError     CheckoutState = "selection_error"
	CheckoutStateEmptySelection     CheckoutState = "empty_selection"
	CheckoutStateAwaitingDetails    CheckoutState = "awaiting_details"
	CheckoutStateSubmitting         CheckoutState = "submitting"
	CheckoutStatePersisting         CheckoutState = "persisting"
	CheckoutStateClearingCart       CheckoutState = "clearing_cart"
	CheckoutStateCompleted          CheckoutState = "completed"
	CheckoutStateSubmissionError    CheckoutState = "submission_error"
)

var validCheckoutStates = map[CheckoutState]struct{}{
	CheckoutStateUninitialized:      {},
	CheckoutStateResolvingSelection: {},
	CheckoutStateSelectionError:     {},
	CheckoutStateEmptySelection:     {},
	CheckoutStateAwaitingDetails:    {},
	CheckoutStateSubmitting:         {},
	CheckoutStatePersisting:         {},
	CheckoutStateClearingCart:       {},
	CheckoutStateCompleted:          {},
	CheckoutStateSubmissionError:    {},
}

func ToCheckoutState(s string) (CheckoutState, error) {
	state := CheckoutState(s)
	if _, ok := validCheckoutStates[state]; ok {
		return state, nil
	}

	return "", errors.New("invalid checkout state")
}

// IsTerminal reports whether the attempt is over. SubmissionError is not
// terminal, the same session may be submitted again.
func (s CheckoutState) IsTerminal() bool {
	switch s {
	case CheckoutStateCompleted, CheckoutStateSelectionError, CheckoutStateEmptySelection:
		return true
	default:
		return false
	}
}

// AcceptsDetails reports whether shipping info and terms may be edited.
func (s CheckoutState) AcceptsDetails() bool {
	return s == CheckoutStateAwaitingDetails || s == CheckoutStateSubmissionError
}

func (s CheckoutState) String() string {
	return string(s)
}
