package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/identity"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/text/currency"
)

// Asker answers free-form shopper questions.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

type Deps struct {
	Products port.ProductRepository
	Orders   port.OrderRepository
	Profiles port.ProfileRepository
	Cart     *cart.Service
	Checkout *checkout.Service
	Verifier *identity.Verifier

	// Asker is optional, /api/ask answers 503 without it.
	Asker Asker

	Currency currency.Unit
	Log      *slog.Logger
}

func (d Deps) validate() error {
	switch {
	case d.Products == nil:
		return errors.New("products is nil")
	case d.Orders == nil:
		return errors.New("orders is nil")
	case d.Profiles == nil:
		return errors.New("profiles is nil")
	case d.Cart == nil:
		return errors.New("cart is nil")
	case d.Checkout == nil:
		return errors.New("checkout is nil")
	case d.Verifier == nil:
		return errors.New("verifier is nil")
	}
	return nil
}

func NewRouter(d Deps) (http.Handler, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Currency == (currency.Unit{}) {
		d.Currency = currency.INR
	}

	products := &productHandler{products: d.Products, currency: d.Currency, log: d.Log}
	carts := &cartHandler{cart: d.Cart, log: d.Log}
	checkouts := &checkoutHandler{checkout: d.Checkout, log: d.Log}
	orders := &ordersHandler{orders: d.Orders, log: d.Log}
	profiles := &profileHandler{profiles: d.Profiles, log: d.Log}
	ask := &askHandler{asker: d.Asker, log: d.Log}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(d.Log))
	r.Use(middleware.Recoverer)
	r.Use(identity.Middleware(d.Verifier, d.Log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/{id}", products.Get)
			r.Post("/", products.Create)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.Get)
			r.Delete("/", carts.Clear)
			r.Post("/items", carts.Add)
			r.Patch("/items/{id}", carts.ChangeQuantity)
			r.Delete("/items/{id}", carts.Remove)
		})

		r.Get("/checkout", checkouts.Preview)
		r.Post("/checkout", checkouts.Submit)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.List)
			r.Get("/{id}", orders.Get)
		})

		r.Get("/profile", profiles.Get)
		r.Put("/profile", profiles.Put)

		r.Post("/ask", ask.Ask)
	})

	return r, nil
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
