package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type productHandler struct {
	products port.ProductRepository
	currency currency.Unit
	log      *slog.Logger
}

// GET /api/products?category=&type=
func (h *productHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Type:     strings.TrimSpace(r.URL.Query().Get("type")),
	}

	products, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		handleError(w, h.log, "productHandler.List", err)
		return
	}

	respondJSON(w, http.StatusOK, lo.Map(products, func(p domain.Product, _ int) ProductDTO {
		return toProductDTO(p)
	}))
}

// GET /api/products/{id}
func (h *productHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, found, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		handleError(w, h.log, "productHandler.Get", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}

	respondJSON(w, http.StatusOK, toProductDTO(product))
}

type createProductRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

// POST /api/products, admins only
func (h *productHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !user.Admin {
		respondError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	var req createProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	unit := h.currency
	if req.Currency != "" {
		var err error
		if unit, err = currency.ParseISO(req.Currency); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_currency", err.Error())
			return
		}
	}

	product := domain.Product{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       domain.NewMoney(req.Price, unit),
		Image:       req.Image,
		Category:    req.Category,
		Type:        req.Type,
	}
	if err := product.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
		return
	}

	if err := h.products.InsertProduct(r.Context(), product); err != nil {
		handleError(w, h.log, "productHandler.Create", err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductDTO(product))
}
