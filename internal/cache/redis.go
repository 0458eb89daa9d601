package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/currency"
)

var ErrCacheMiss = errors.New("cache miss")

type ProductCache interface {
	Get(ctx context.Context, productID string) (domain.Product, error)
	Set(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, productID string) error
}

type RedisProductCache struct {
	client    redis.UniversalClient
	baseTTL   time.Duration
	maxJitter time.Duration
}

func NewRedisProductCache(client redis.UniversalClient, baseTTL time.Duration) *RedisProductCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}

	return &RedisProductCache{
		client:    client,
		baseTTL:   baseTTL,
		maxJitter: baseTTL / 3,
	}
}

// cachedProduct is the stored form, currency.Unit has no JSON encoding.
type cachedProduct struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category,omitempty"`
	Type        string    `json:"type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *RedisProductCache) Get(ctx context.Context, productID string) (domain.Product, error) {
	data, err := r.client.Get(ctx, cacheKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Product{}, ErrCacheMiss
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("redis get failed: %w", err)
	}

	var cp cachedProduct
	if err := json.Unmarshal(data, &cp); err != nil {
		return domain.Product{}, fmt.Errorf("unmarshal product failed: %w", err)
	}

	unit, err := currency.ParseISO(cp.Currency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency.ParseISO: %w", err)
	}

	return domain.Product{
		ID:          cp.ID,
		Name:        cp.Name,
		Description: cp.Description,
		Price:       domain.NewMoney(cp.Amount, unit),
		Image:       cp.Image,
		Category:    cp.Category,
		Type:        cp.Type,
		CreatedAt:   cp.CreatedAt,
	}, nil
}

func (r *RedisProductCache) Set(ctx context.Context, product domain.Product) error {
	data, err := json.Marshal(cachedProduct{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Amount:      product.Price.Amount,
		Currency:    product.Price.Currency.String(),
		Image:       product.Image,
		Category:    product.Category,
		Type:        product.Type,
		CreatedAt:   product.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}

	if err := r.client.Set(ctx, cacheKey(product.ID), data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (r *RedisProductCache) Delete(ctx context.Context, productID string) error {
	if err := r.client.Del(ctx, cacheKey(productID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func (r *RedisProductCache) ttl() time.Duration {
	if r.maxJitter <= 0 {
		return r.baseTTL
	}
	return r.baseTTL + rand.N(r.maxJitter)
}

func cacheKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}
