package cache_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nikolayk812/storefront/internal/cache"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

type countingProducts struct {
	port.ProductRepository
	calls atomic.Int32
	delay time.Duration
}

func (c *countingProducts) GetProduct(ctx context.Context, productID string) (domain.Product, bool, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	return c.ProductRepository.GetProduct(ctx, productID)
}

func newCached(t *testing.T, products ...domain.Product) (*cache.CachedProducts, *countingProducts, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	next := &countingProducts{ProductRepository: memory.NewProducts(products...)}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return cache.NewCachedProducts(next, cache.NewRedisProductCache(client, time.Minute), log), next, mr
}

func shoe(id string) domain.Product {
	return domain.Product{ID: id, Name: "shoe " + id, Price: domain.NewMoney(100, currency.INR)}
}

func TestCachedProducts_ReadThrough(t *testing.T) {
	cached, next, mr := newCached(t, shoe("p1"))
	ctx := t.Context()

	for range 3 {
		got, found, err := cached.GetProduct(ctx, "p1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "shoe p1", got.Name)
	}

	assert.Equal(t, int32(1), next.calls.Load())
	assert.True(t, mr.Exists("product:p1"))
}

func TestCachedProducts_MissIsNotCached(t *testing.T) {
	cached, next, mr := newCached(t)
	ctx := t.Context()

	_, found, err := cached.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("product:p1"))

	require.NoError(t, cached.InsertProduct(ctx, shoe("p1")))

	_, found, err = cached.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedProducts_InsertInvalidates(t *testing.T) {
	cached, _, mr := newCached(t)

	require.NoError(t, mr.Set("product:p1", `{"id":"p1","name":"stale","amount":1,"currency":"INR"}`))

	require.NoError(t, cached.InsertProduct(t.Context(), shoe("p1")))
	assert.False(t, mr.Exists("product:p1"))
}

func TestCachedProducts_SingleFlight(t *testing.T) {
	cached, next, _ := newCached(t, shoe("p1"))
	next.delay = 50 * time.Millisecond

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, found, err := cached.GetProduct(t.Context(), "p1")
			assert.NoError(t, err)
			assert.True(t, found)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), next.calls.Load())
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (domain.Product, error) {
	return domain.Product{}, errors.New("redis down")
}
func (brokenCache) Set(context.Context, domain.Product) error { return errors.New("redis down") }
func (brokenCache) Delete(context.Context, string) error     { return errors.New("redis down") }

func TestCachedProducts_CacheDown(t *testing.T) {
	next := memory.NewProducts(shoe("p1"))
	cached := cache.NewCachedProducts(next, brokenCache{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	got, found, err := cached.GetProduct(t.Context(), "p1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "p1", got.ID)

	require.NoError(t, cached.InsertProduct(t.Context(), shoe("p2")))
}

func TestCachedProducts_SharedLookupSurvivesCallerCancel(t *testing.T) {
	cached, next, _ := newCached(t, shoe("p1"))
	next.delay = 100 * time.Millisecond

	firstCtx, cancel := context.WithCancel(t.Context())
	defer cancel()

	firstErr := make(chan error, 1)
	go func() {
		_, _, err := cached.GetProduct(firstCtx, "p1")
		firstErr <- err
	}()

	// let the first caller start the shared lookup, then join it
	time.Sleep(10 * time.Millisecond)
	time.AfterFunc(10*time.Millisecond, cancel)

	got, found, err := cached.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "p1", got.ID)

	require.ErrorIs(t, <-firstErr, context.Canceled)
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCachedProducts_CallerDeadline(t *testing.T) {
	cached, next, _ := newCached(t, shoe("p1"))
	next.delay = 100 * time.Millisecond

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, _, err := cached.GetProduct(ctx, "p1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// the abandoned lookup still completes and fills the cache
	assert.Eventually(t, func() bool {
		_, found, err := cached.GetProduct(t.Context(), "p1")
		return err == nil && found
	}, time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), next.calls.Load())
}
