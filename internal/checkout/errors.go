package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSelection        = errors.New("selection cannot be resolved")
	ErrProductNotFound  = errors.New("product not found")
	ErrEmptySelection   = errors.New("nothing to checkout")
	ErrValidation       = errors.New("checkout details are invalid")
	ErrPersistence      = errors.New("order was not placed")
	ErrCartClear        = errors.New("cart line was not cleared")
	ErrTimeout          = errors.New("timeout")
	ErrInvalidState     = errors.New("invalid checkout state")
)

// ValidationError matches ErrValidation and lists what the user must fix.
type ValidationError struct {
	MissingFields    []string
	TermsNotAccepted bool
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.MissingFields) > 0 {
		parts = append(parts, "missing "+strings.Join(e.MissingFields, ", "))
	}
	if e.TermsNotAccepted {
		parts = append(parts, "terms not accepted")
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// external maps a failed external call to kind, adding ErrTimeout when the
// call ran out of time.
func external(kind error, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w: %w", op, kind, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
