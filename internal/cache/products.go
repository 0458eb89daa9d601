package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/sync/singleflight"
)

// CachedProducts is a read-through cache in front of a product repository.
// Cache failures are logged and the repository answers instead.
type CachedProducts struct {
	next  port.ProductRepository
	cache ProductCache
	log   *slog.Logger

	lookupTimeout time.Duration

	sfg singleflight.Group
}

const defaultLookupTimeout = 5 * time.Second

type Option func(*CachedProducts)

// WithLookupTimeout bounds a shared repository lookup, which outlives
// the caller that started it.
func WithLookupTimeout(d time.Duration) Option {
	return func(c *CachedProducts) {
		if d > 0 {
			c.lookupTimeout = d
		}
	}
}

func NewCachedProducts(next port.ProductRepository, cache ProductCache, log *slog.Logger, opts ...Option) *CachedProducts {
	if log == nil {
		log = slog.Default()
	}

	c := &CachedProducts{
		next:          next,
		cache:         cache,
		log:           log,
		lookupTimeout: defaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type lookup struct {
	product domain.Product
	found   bool
}

func (c *CachedProducts) GetProduct(ctx context.Context, productID string) (domain.Product, bool, error) {
	product, err := c.cache.Get(ctx, productID)
	if err == nil {
		return product, true, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("product cache read failed",
			"method", "CachedProducts.GetProduct",
			"product_id", productID,
			"err", err)
	}

	// the lookup is shared by every caller waiting on productID,
	// so it must not die with whichever caller happened to start it
	ch := c.sfg.DoChan(productID, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.lookupTimeout)
		defer cancel()

		product, found, err := c.next.GetProduct(lookupCtx, productID)
		if err != nil {
			return nil, err
		}

		// misses are not cached, the product may be created any moment
		if found {
			if err := c.cache.Set(lookupCtx, product); err != nil {
				c.log.Warn("product cache write failed",
					"method", "CachedProducts.GetProduct",
					"product_id", productID,
					"err", err)
			}
		}

		return lookup{product: product, found: found}, nil
	})

	select {
	case <-ctx.Done():
		return domain.Product{}, false, fmt.Errorf("ctx.Done: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Product{}, false, fmt.Errorf("next.GetProduct: %w", res.Err)
		}

		l := res.Val.(lookup)
		return l.product, l.found, nil
	}
}

func (c *CachedProducts) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return c.next.ListProducts(ctx, filter)
}

func (c *CachedProducts) InsertProduct(ctx context.Context, product domain.Product) error {
	if err := c.next.InsertProduct(ctx, product); err != nil {
		return err
	}

	if err := c.cache.Delete(ctx, product.ID); err != nil {
		c.log.Warn("product cache invalidation failed",
			"method", "CachedProducts.InsertProduct",
			"product_id", product.ID,
			"err", err)
	}

	return nil
}

var _ port.ProductRepository = (*CachedProducts)(nil)
