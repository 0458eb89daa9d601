package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/sync/errgroup"
)

const DefaultTimeout = 10 * time.Second

// Service drives a user from purchase intent to a persisted order.
//
// The order is always written before any cart line is deleted, so a failed
// write never leaves an emptied cart without an order.
type Service struct {
	identity port.IdentityProvider
	products port.ProductRepository
	carts    port.CartRepository
	orders   port.OrderRepository
	profiles port.ProfileRepository

	timeout time.Duration
	clock   func() time.Time
	log     *slog.Logger
}

type Option func(*Service)

// WithTimeout bounds every external call made by the service.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithProfiles pre-fills the shipping details of new sessions from the
// user's saved profile.
func WithProfiles(profiles port.ProfileRepository) Option {
	return func(s *Service) {
		s.profiles = profiles
	}
}

func NewService(
	identity port.IdentityProvider,
	products port.ProductRepository,
	carts port.CartRepository,
	orders port.OrderRepository,
	opts ...Option,
) (*Service, error) {
	if identity == nil {
		return nil, errors.New("identity is nil")
	}
	if products == nil {
		return nil, errors.New("products is nil")
	}
	if carts == nil {
		return nil, errors.New("carts is nil")
	}
	if orders == nil {
		return nil, errors.New("orders is nil")
	}

	s := &Service{
		identity: identity,
		products: products,
		carts:    carts,
		orders:   orders,
		timeout:  DefaultTimeout,
		clock:    time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Receipt describes a placed order. StrayLines lists cart lines that could
// not be deleted after the order was written; the order stands regardless.
type Receipt struct {
	OrderID    uuid.UUID
	Total      domain.Money
	Mode       domain.SelectionMode
	Lines      []domain.CartLine
	PlacedAt   time.Time
	StrayLines []string
}

// Begin resolves what the user is buying. An empty productID selects the whole
// cart, otherwise the single product is bought with quantity 1 and the cart is
// left alone. The returned session is non-nil even on error and reports where
// the attempt stopped.
func (s *Service) Begin(ctx context.Context, productID string) (*Session, error) {
	sess := newSession()

	ownerID, ok := s.identity.CurrentUserID(ctx)
	if !ok || ownerID == "" {
		s.log.Info("checkout rejected",
			"method", "Service.Begin",
			"err", ErrNotAuthenticated)
		return sess, ErrNotAuthenticated
	}

	sess.ownerID = ownerID
	s.transition(sess, domain.CheckoutStateResolvingSelection)

	var (
		selection domain.Selection
		err       error
	)
	if productID != "" {
		selection, err = s.resolveBuyNow(ctx, productID)
	} else {
		selection, err = s.resolveCart(ctx, ownerID)
	}

	switch {
	case errors.Is(err, ErrEmptySelection):
		s.transition(sess, domain.CheckoutStateEmptySelection)
		return sess, err
	case err != nil:
		s.log.Warn("selection not resolved",
			"method", "Service.Begin",
			"owner_id", ownerID,
			"product_id", productID,
			"err", err)
		s.transition(sess, domain.CheckoutStateSelectionError)
		return sess, err
	}

	shipping := s.savedShipping(ctx, ownerID)

	sess.mu.Lock()
	sess.selection = selection
	sess.shipping = shipping
	sess.mu.Unlock()

	s.transition(sess, domain.CheckoutStateAwaitingDetails)

	return sess, nil
}

// Submit places the order for a session in AwaitingDetails or SubmissionError.
// Validation failures leave the session where it was without touching any
// store. Once the order write starts the caller's cancellation is ignored.
func (s *Service) Submit(ctx context.Context, sess *Session) (Receipt, error) {
	if sess == nil {
		return Receipt{}, errors.New("session is nil")
	}

	sess.mu.Lock()
	from := sess.state
	if !from.AcceptsDetails() {
		sess.mu.Unlock()
		return Receipt{}, &stateError{op: "Submit", state: from}
	}

	if verr := validate(sess.shipping, sess.termsAccepted); verr != nil {
		sess.mu.Unlock()
		s.log.Info("checkout details rejected",
			"method", "Service.Submit",
			"owner_id", sess.ownerID,
			"err", verr)
		return Receipt{}, verr
	}

	sess.state = domain.CheckoutStateSubmitting
	ownerID := sess.ownerID
	selection := sess.selection.Clone()
	shipping := sess.shipping
	sess.mu.Unlock()

	s.logTransition(ownerID, selection.Mode, from, domain.CheckoutStateSubmitting)

	ctx = context.WithoutCancel(ctx)

	s.transition(sess, domain.CheckoutStatePersisting)

	placedAt := s.clock()

	order, err := domain.NewOrder(ownerID, selection.Lines, shipping, placedAt)
	if err != nil {
		s.transition(sess, domain.CheckoutStateSubmissionError)
		return Receipt{}, fmt.Errorf("domain.NewOrder: %w: %w", ErrPersistence, err)
	}

	orderID, err := s.createOrder(ctx, order)
	if err != nil {
		s.log.Error("order not placed",
			"method", "Service.Submit",
			"owner_id", ownerID,
			"err", err)
		s.transition(sess, domain.CheckoutStateSubmissionError)
		return Receipt{}, err
	}

	receipt := Receipt{
		OrderID:  orderID,
		Total:    order.Total,
		Mode:     selection.Mode,
		Lines:    order.Lines,
		PlacedAt: placedAt,
	}

	if selection.Mode == domain.SelectionModeFullCart {
		s.transition(sess, domain.CheckoutStateClearingCart)
		receipt.StrayLines = s.clearCart(ctx, ownerID, selection.Lines)
	}

	sess.mu.Lock()
	sess.orderID = orderID
	sess.selection = domain.Selection{}
	sess.mu.Unlock()

	s.transition(sess, domain.CheckoutStateCompleted)

	s.log.Info("order placed",
		"method", "Service.Submit",
		"owner_id", ownerID,
		"order_id", orderID,
		"mode", selection.Mode,
		"total", order.Total.String(),
		"stray_lines", len(receipt.StrayLines))

	return receipt, nil
}

func (s *Service) resolveBuyNow(ctx context.Context, productID string) (domain.Selection, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	product, found, err := s.products.GetProduct(callCtx, productID)
	if err != nil {
		return domain.Selection{}, external(ErrSelection, "products.GetProduct", err)
	}
	if !found {
		return domain.Selection{}, fmt.Errorf("product[%s]: %w: %w", productID, ErrSelection, ErrProductNotFound)
	}

	lines := []domain.CartLine{domain.NewCartLine(product)}

	total, err := domain.Total(lines)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("domain.Total: %w: %w", ErrSelection, err)
	}

	return domain.Selection{
		Mode:      domain.SelectionModeBuyNow,
		ProductID: productID,
		Lines:     lines,
		Total:     total,
	}, nil
}

func (s *Service) resolveCart(ctx context.Context, ownerID string) (domain.Selection, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cart, err := s.carts.GetCart(callCtx, ownerID)
	if err != nil {
		return domain.Selection{}, external(ErrSelection, "carts.GetCart", err)
	}
	if len(cart.Lines) == 0 {
		return domain.Selection{}, ErrEmptySelection
	}

	lines := domain.CloneLines(cart.Lines)

	total, err := domain.Total(lines)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("domain.Total: %w: %w", ErrSelection, err)
	}

	return domain.Selection{
		Mode:  domain.SelectionModeFullCart,
		Lines: lines,
		Total: total,
	}, nil
}

// savedShipping loads the profile details, a failure only costs the pre-fill.
func (s *Service) savedShipping(ctx context.Context, ownerID string) domain.ShippingInfo {
	if s.profiles == nil {
		return domain.ShippingInfo{}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	profile, found, err := s.profiles.GetProfile(callCtx, ownerID)
	if err != nil {
		s.log.Warn("profile not loaded",
			"method", "Service.savedShipping",
			"owner_id", ownerID,
			"err", err)
		return domain.ShippingInfo{}
	}
	if !found {
		return domain.ShippingInfo{}
	}

	return profile.Shipping()
}

func (s *Service) createOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	orderID, err := s.orders.InsertOrder(callCtx, order)
	if err != nil {
		return uuid.Nil, external(ErrPersistence, "orders.InsertOrder", err)
	}

	return orderID, nil
}

// clearCart deletes every snapshot line concurrently. Failures are logged and
// returned as product ids, they never fail the checkout.
func (s *Service) clearCart(ctx context.Context, ownerID string, lines []domain.CartLine) []string {
	var (
		g     errgroup.Group
		mu    sync.Mutex
		stray []string
	)

	for _, line := range lines {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			found, err := s.carts.DeleteItem(callCtx, ownerID, line.ProductID)
			if err != nil {
				s.log.Warn("cart line left after checkout",
					"method", "Service.clearCart",
					"owner_id", ownerID,
					"product_id", line.ProductID,
					"err", external(ErrCartClear, "carts.DeleteItem", err))

				mu.Lock()
				stray = append(stray, line.ProductID)
				mu.Unlock()
				return nil
			}

			if !found {
				s.log.Debug("cart line already gone",
					"method", "Service.clearCart",
					"owner_id", ownerID,
					"product_id", line.ProductID)
			}
			return nil
		})
	}

	_ = g.Wait()

	sort.Strings(stray)
	return stray
}

func (s *Service) transition(sess *Session, to domain.CheckoutState) {
	sess.mu.Lock()
	from := sess.state
	sess.state = to
	ownerID := sess.ownerID
	mode := sess.selection.Mode
	sess.mu.Unlock()

	s.logTransition(ownerID, mode, from, to)
}

func (s *Service) logTransition(ownerID string, mode domain.SelectionMode, from, to domain.CheckoutState) {
	s.log.Info("checkout state",
		"owner_id", ownerID,
		"mode", mode,
		"from", from,
		"to", to)
}

func validate(shipping domain.ShippingInfo, termsAccepted bool) error {
	missing := shipping.MissingFields()
	if len(missing) == 0 && termsAccepted {
		return nil
	}

	return &ValidationError{
		MissingFields:    missing,
		TermsNotAccepted: !termsAccepted,
	}
}
