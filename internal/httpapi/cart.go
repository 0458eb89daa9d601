package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
)

type cartHandler struct {
	cart *cart.Service
	log  *slog.Logger
}

// GET /api/cart
func (h *cartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	view, err := h.cart.Get(r.Context(), user.ID)
	if err != nil {
		handleError(w, h.log, "cartHandler.Get", err)
		return
	}

	respondJSON(w, http.StatusOK, CartDTO{
		Lines: toLineDTOs(view.Lines),
		Total: toMoneyDTO(view.Total),
	})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

// POST /api/cart/items
func (h *cartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil || req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_body", "productId is required")
		return
	}

	line, err := h.cart.Add(r.Context(), user.ID, req.ProductID)
	if err != nil {
		handleError(w, h.log, "cartHandler.Add", err)
		return
	}

	respondJSON(w, http.StatusCreated, toLineDTOs([]domain.CartLine{line})[0])
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

// PATCH /api/cart/items/{id}
func (h *cartHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req changeQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	quantity, err := h.cart.ChangeQuantity(r.Context(), user.ID, chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		handleError(w, h.log, "cartHandler.ChangeQuantity", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"quantity": quantity})
}

// DELETE /api/cart/items/{id}
func (h *cartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.cart.Remove(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		handleError(w, h.log, "cartHandler.Remove", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/cart
func (h *cartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.cart.Clear(r.Context(), user.ID); err != nil {
		handleError(w, h.log, "cartHandler.Clear", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
