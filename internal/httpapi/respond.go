package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/identity"
	"github.com/nikolayk812/storefront/internal/repository"
)

type ErrorResponse struct {
	Error            string   `json:"error"`
	Code             string   `json:"code"`
	Fields           []string `json:"fields,omitempty"`
	TermsNotAccepted bool     `json:"termsNotAccepted,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode response",
			"method", "respondJSON",
			"err", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// handleError maps domain errors to HTTP statuses. Server side failures are
// logged, unknown errors are reported as 500 without details.
func handleError(w http.ResponseWriter, log *slog.Logger, method string, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            verr.Error(),
			Code:             "validation_failed",
			Fields:           verr.MissingFields,
			TermsNotAccepted: verr.TermsNotAccepted,
		})
		return
	}

	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			"method", method,
			"status", status,
			"err", err)
	}

	respondError(w, status, code, publicMessage(err, http.StatusText(status)))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not_authenticated"
	case errors.Is(err, checkout.ErrProductNotFound), errors.Is(err, cart.ErrProductNotFound):
		return http.StatusNotFound, "product_not_found"
	case errors.Is(err, cart.ErrLineNotFound):
		return http.StatusNotFound, "cart_line_not_found"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, checkout.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, checkout.ErrSelection):
		return http.StatusBadGateway, "selection_failed"
	case errors.Is(err, checkout.ErrEmptySelection):
		return http.StatusConflict, "empty_selection"
	case errors.Is(err, checkout.ErrPersistence):
		return http.StatusServiceUnavailable, "order_not_placed"
	case errors.Is(err, checkout.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, cart.ErrAlreadyInCart):
		return http.StatusConflict, "already_in_cart"
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func publicMessage(err error, fallback string) string {
	for _, known := range []error{
		checkout.ErrNotAuthenticated,
		checkout.ErrProductNotFound,
		cart.ErrProductNotFound,
		cart.ErrLineNotFound,
		repository.ErrNotFound,
		checkout.ErrTimeout,
		checkout.ErrEmptySelection,
		checkout.ErrPersistence,
		checkout.ErrInvalidState,
		cart.ErrAlreadyInCart,
		repository.ErrAlreadyExists,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return fallback
}

func requireUser(w http.ResponseWriter, r *http.Request) (identity.User, bool) {
	user, ok := identity.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not_authenticated", checkout.ErrNotAuthenticated.Error())
		return identity.User{}, false
	}
	return user, true
}
