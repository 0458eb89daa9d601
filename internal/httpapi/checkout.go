package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
)

type checkoutHandler struct {
	checkout *checkout.Service
	log      *slog.Logger
}

type PreviewDTO struct {
	State    string      `json:"state"`
	Mode     string      `json:"mode"`
	Lines    []LineDTO   `json:"lines"`
	Total    MoneyDTO    `json:"total"`
	Shipping ShippingDTO `json:"shipping"`
}

// ShippingDTO carries the details pre-filled from the saved profile.
type ShippingDTO struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

func toShippingDTO(s domain.ShippingInfo) ShippingDTO {
	return ShippingDTO{
		FullName: s.FullName,
		Address:  s.Address,
		Phone:    s.Phone,
	}
}

// GET /api/checkout?item=
func (h *checkoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	sess, err := h.checkout.Begin(r.Context(), strings.TrimSpace(r.URL.Query().Get("item")))
	if err != nil {
		handleError(w, h.log, "checkoutHandler.Preview", err)
		return
	}

	selection := sess.Selection()

	respondJSON(w, http.StatusOK, PreviewDTO{
		State:    sess.State().String(),
		Mode:     string(selection.Mode),
		Lines:    toLineDTOs(selection.Lines),
		Total:    toMoneyDTO(selection.Total),
		Shipping: toShippingDTO(sess.Shipping()),
	})
}

type submitRequest struct {
	Item        string `json:"item"`
	FullName    string `json:"fullName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	AcceptTerms bool   `json:"acceptTerms"`
}

type ReceiptDTO struct {
	OrderID    uuid.UUID `json:"orderId"`
	Mode       string    `json:"mode"`
	Lines      []LineDTO `json:"lines"`
	Total      MoneyDTO  `json:"total"`
	PlacedAt   time.Time `json:"placedAt"`
	StrayLines []string  `json:"strayLines,omitempty"`
}

// POST /api/checkout
func (h *checkoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	ctx := r.Context()

	sess, err := h.checkout.Begin(ctx, strings.TrimSpace(req.Item))
	if err != nil {
		handleError(w, h.log, "checkoutHandler.Submit", err)
		return
	}

	// blank request fields fall back to the saved profile
	err = sess.SetShipping(domain.ShippingInfo{
		FullName: req.FullName,
		Address:  req.Address,
		Phone:    req.Phone,
	}.Merge(sess.Shipping()))
	if err == nil {
		err = sess.AcceptTerms(req.AcceptTerms)
	}
	if err != nil {
		handleError(w, h.log, "checkoutHandler.Submit", err)
		return
	}

	receipt, err := h.checkout.Submit(ctx, sess)
	if err != nil {
		handleError(w, h.log, "checkoutHandler.Submit", err)
		return
	}

	respondJSON(w, http.StatusCreated, ReceiptDTO{
		OrderID:    receipt.OrderID,
		Mode:       string(receipt.Mode),
		Lines:      toLineDTOs(receipt.Lines),
		Total:      toMoneyDTO(receipt.Total),
		PlacedAt:   receipt.PlacedAt,
		StrayLines: receipt.StrayLines,
	})
}
