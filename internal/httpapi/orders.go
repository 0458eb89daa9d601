package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/samber/lo"
)

type ordersHandler struct {
	orders port.OrderRepository
	log    *slog.Logger
}

// GET /api/orders
func (h *ordersHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.SearchOrders(r.Context(), domain.OrderFilter{OwnerIDs: []string{user.ID}})
	if err != nil {
		handleError(w, h.log, "ordersHandler.List", err)
		return
	}

	respondJSON(w, http.StatusOK, lo.Map(orders, func(o domain.Order, _ int) OrderDTO {
		return toOrderDTO(o)
	}))
}

// GET /api/orders/{id}, foreign orders look missing
func (h *ordersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a uuid")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err == nil && order.OwnerID != user.ID {
		err = repository.ErrNotFound
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		handleError(w, h.log, "ordersHandler.Get", err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(order))
}
