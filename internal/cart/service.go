package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/currency"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrAlreadyInCart   = errors.New("already in cart")
	ErrLineNotFound    = errors.New("cart line not found")
)

type Service struct {
	products port.ProductRepository
	carts    port.CartRepository
	log      *slog.Logger

	// prices an empty cart
	currency currency.Unit
}

type Option func(*Service)

func WithCurrency(unit currency.Unit) Option {
	return func(s *Service) {
		s.currency = unit
	}
}

// View is a cart as shown to its owner.
type View struct {
	OwnerID string
	Lines   []domain.CartLine
	Total   domain.Money
}

func NewService(products port.ProductRepository, carts port.CartRepository, log *slog.Logger, opts ...Option) (*Service, error) {
	if products == nil {
		return nil, errors.New("products is nil")
	}
	if carts == nil {
		return nil, errors.New("carts is nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		products: products,
		carts:    carts,
		log:      log,
		currency: currency.INR,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Service) Get(ctx context.Context, ownerID string) (View, error) {
	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return View{}, fmt.Errorf("carts.GetCart: %w", err)
	}

	view := View{
		OwnerID: ownerID,
		Lines:   cart.Lines,
		Total:   domain.NewMoney(0, s.currency),
	}
	if len(cart.Lines) == 0 {
		return view, nil
	}

	view.Total, err = domain.Total(cart.Lines)
	if err != nil {
		return View{}, fmt.Errorf("domain.Total: %w", err)
	}

	return view, nil
}

// Add puts one unit of the product into the cart at its current price.
func (s *Service) Add(ctx context.Context, ownerID, productID string) (domain.CartLine, error) {
	product, found, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("products.GetProduct: %w", err)
	}
	if !found {
		return domain.CartLine{}, fmt.Errorf("product[%s]: %w", productID, ErrProductNotFound)
	}

	line := domain.NewCartLine(product)

	if err := s.carts.AddItem(ctx, ownerID, line); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return domain.CartLine{}, fmt.Errorf("product[%s]: %w", productID, ErrAlreadyInCart)
		}
		return domain.CartLine{}, fmt.Errorf("carts.AddItem: %w", err)
	}

	s.log.Info("cart line added",
		"method", "Service.Add",
		"owner_id", ownerID,
		"product_id", productID)

	return line, nil
}

// ChangeQuantity adds delta to the line quantity, never going below 1.
func (s *Service) ChangeQuantity(ctx context.Context, ownerID, productID string, delta int) (int, error) {
	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("carts.GetCart: %w", err)
	}

	var (
		current int
		found   bool
	)
	for _, line := range cart.Lines {
		if line.ProductID == productID {
			current, found = line.Quantity, true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("product[%s]: %w", productID, ErrLineNotFound)
	}

	quantity := clampQuantity(current, delta)
	if quantity == current {
		return quantity, nil
	}

	updated, err := s.carts.UpdateQuantity(ctx, ownerID, productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("carts.UpdateQuantity: %w", err)
	}
	if !updated {
		return 0, fmt.Errorf("product[%s]: %w", productID, ErrLineNotFound)
	}

	return quantity, nil
}

func (s *Service) Remove(ctx context.Context, ownerID, productID string) error {
	found, err := s.carts.DeleteItem(ctx, ownerID, productID)
	if err != nil {
		return fmt.Errorf("carts.DeleteItem: %w", err)
	}
	if !found {
		return fmt.Errorf("product[%s]: %w", productID, ErrLineNotFound)
	}

	s.log.Info("cart line removed",
		"method", "Service.Remove",
		"owner_id", ownerID,
		"product_id", productID)

	return nil
}

// Clear deletes every line concurrently and joins the failures.
func (s *Service) Clear(ctx context.Context, ownerID string) error {
	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("carts.GetCart: %w", err)
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)

	for _, line := range cart.Lines {
		g.Go(func() error {
			if _, err := s.carts.DeleteItem(ctx, ownerID, line.ProductID); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("product[%s]: %w", line.ProductID, err))
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(errs...)
}

// clampQuantity applies delta keeping the result within [1, domain.MaxQuantity].
func clampQuantity(current, delta int) int {
	if delta > domain.MaxQuantity-current {
		return domain.MaxQuantity
	}
	return max(current+delta, 1)
}
