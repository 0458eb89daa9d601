// Package memory holds in-process implementations of the storage ports,
// used for local runs without Postgres and for unit tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/samber/lo"
)

type Products struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewProducts(products ...domain.Product) *Products {
	p := &Products{products: make(map[string]domain.Product)}
	for _, product := range products {
		p.products[product.ID] = product
	}
	return p
}

func (p *Products) GetProduct(ctx context.Context, productID string) (domain.Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, false, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	product, ok := p.products[productID]
	return product, ok, nil
}

func (p *Products) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	result := lo.Filter(lo.Values(p.products), func(product domain.Product, _ int) bool {
		return (filter.Category == "" || product.Category == filter.Category) &&
			(filter.Type == "" || product.Type == filter.Type)
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (p *Products) InsertProduct(ctx context.Context, product domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := product.Validate(); err != nil {
		return fmt.Errorf("product.Validate: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.products[product.ID]; ok {
		return fmt.Errorf("InsertProduct: %w", repository.ErrAlreadyExists)
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	p.products[product.ID] = product

	return nil
}

type Carts struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

func NewCarts() *Carts {
	return &Carts{carts: make(map[string][]domain.CartLine)}
}

func (c *Carts) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, err
	}
	if ownerID == "" {
		return domain.Cart{}, errors.New("ownerID is empty")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return domain.Cart{
		OwnerID: ownerID,
		Lines:   domain.CloneLines(c.carts[ownerID]),
	}, nil
}

func (c *Carts) AddItem(ctx context.Context, ownerID string, line domain.CartLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ownerID == "" {
		return errors.New("ownerID is empty")
	}
	if err := line.Validate(); err != nil {
		return fmt.Errorf("line.Validate: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if slices.ContainsFunc(c.carts[ownerID], func(l domain.CartLine) bool { return l.ProductID == line.ProductID }) {
		return fmt.Errorf("AddItem: %w", repository.ErrAlreadyExists)
	}
	if line.CreatedAt.IsZero() {
		line.CreatedAt = time.Now()
	}
	c.carts[ownerID] = append(c.carts[ownerID], line)

	return nil
}

func (c *Carts) UpdateQuantity(ctx context.Context, ownerID, productID string, quantity int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if quantity < 1 {
		return false, fmt.Errorf("quantity[%d] is less than 1", quantity)
	}
	if quantity > domain.MaxQuantity {
		return false, fmt.Errorf("quantity[%d] is greater than %d", quantity, domain.MaxQuantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	lines := c.carts[ownerID]
	idx := slices.IndexFunc(lines, func(l domain.CartLine) bool { return l.ProductID == productID })
	if idx < 0 {
		return false, nil
	}
	lines[idx].Quantity = quantity

	return true, nil
}

func (c *Carts) DeleteItem(ctx context.Context, ownerID, productID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	lines := c.carts[ownerID]
	idx := slices.IndexFunc(lines, func(l domain.CartLine) bool { return l.ProductID == productID })
	if idx < 0 {
		return false, nil
	}
	c.carts[ownerID] = slices.Delete(lines, idx, idx+1)

	return true, nil
}

type Orders struct {
	mu     sync.RWMutex
	orders []domain.Order
}

func NewOrders() *Orders {
	return &Orders{}
}

func (o *Orders) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	order, ok := lo.Find(o.orders, func(order domain.Order) bool { return order.ID == orderID })
	if !ok {
		return domain.Order{}, fmt.Errorf("GetOrder: %w", repository.ErrNotFound)
	}

	return cloneOrder(order), nil
}

func (o *Orders) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	result := lo.Filter(o.orders, func(order domain.Order, _ int) bool {
		return matches(filter, order)
	})
	result = lo.Map(result, func(order domain.Order, _ int) domain.Order { return cloneOrder(order) })
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PlacedAt.After(result[j].PlacedAt)
	})

	return result, nil
}

func (o *Orders) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if len(order.Lines) == 0 {
		return uuid.Nil, errors.New("no lines in order")
	}
	if order.OwnerID == "" {
		return uuid.Nil, errors.New("ownerID is empty")
	}

	total, err := domain.Total(order.Lines)
	if err != nil {
		return uuid.Nil, fmt.Errorf("domain.Total: %w", err)
	}

	order = cloneOrder(order)
	order.ID = uuid.New()
	order.Total = total
	order.CreatedAt = time.Now()
	if order.PlacedAt.IsZero() {
		order.PlacedAt = order.CreatedAt
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.orders = append(o.orders, order)

	return order.ID, nil
}

type Profiles struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

func NewProfiles() *Profiles {
	return &Profiles{profiles: make(map[string]domain.Profile)}
}

func (p *Profiles) GetProfile(ctx context.Context, ownerID string) (domain.Profile, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, false, err
	}
	if ownerID == "" {
		return domain.Profile{}, false, errors.New("ownerID is empty")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	profile, ok := p.profiles[ownerID]
	return profile, ok, nil
}

func (p *Profiles) UpsertProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}

	profile = profile.Trimmed()
	if profile.OwnerID == "" {
		return domain.Profile{}, errors.New("ownerID is empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if profile.Email == "" {
		profile.Email = p.profiles[profile.OwnerID].Email
	}
	profile.UpdatedAt = time.Now()
	p.profiles[profile.OwnerID] = profile

	return profile, nil
}

func matches(filter domain.OrderFilter, order domain.Order) bool {
	if len(filter.IDs) > 0 && !lo.Contains(filter.IDs, order.ID) {
		return false
	}
	if len(filter.OwnerIDs) > 0 && !lo.Contains(filter.OwnerIDs, order.OwnerID) {
		return false
	}
	if filter.PlacedAt != nil {
		if after := filter.PlacedAt.After; after != nil && order.PlacedAt.Before(*after) {
			return false
		}
		if before := filter.PlacedAt.Before; before != nil && order.PlacedAt.After(*before) {
			return false
		}
	}
	return true
}

func cloneOrder(order domain.Order) domain.Order {
	order.Lines = domain.CloneLines(order.Lines)
	return order
}

var (
	_ port.ProductRepository = (*Products)(nil)
	_ port.CartRepository    = (*Carts)(nil)
	_ port.OrderRepository   = (*Orders)(nil)
	_ port.ProfileRepository = (*Profiles)(nil)
)
