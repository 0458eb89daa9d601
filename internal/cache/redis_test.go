package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func setupTestRedis(t *testing.T) (*RedisProductCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisProductCache(client, 15*time.Minute), mr
}

func testProduct() domain.Product {
	return domain.Product{
		ID:        "p9",
		Name:      "Air Zoom",
		Price:     domain.NewMoney(7999, currency.INR),
		Category:  "men",
		Type:      "shoes",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSetGet(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := t.Context()

	require.NoError(t, c.Set(ctx, testProduct()))

	got, err := c.Get(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, "Air Zoom", got.Name)
	assert.Equal(t, int64(7999), got.Price.Amount)
	assert.Equal(t, "INR", got.Price.Currency.String())
	assert.True(t, got.CreatedAt.Equal(testProduct().CreatedAt))
}

func TestGet_CacheMiss(t *testing.T) {
	c, _ := setupTestRedis(t)

	_, err := c.Get(t.Context(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestGet_InvalidJSON(t *testing.T) {
	c, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(cacheKey("p1"), `{"id":`))

	_, err := c.Get(t.Context(), "p1")
	require.ErrorContains(t, err, "unmarshal product failed")
}

func TestSet_WithTTL(t *testing.T) {
	c, mr := setupTestRedis(t)

	require.NoError(t, c.Set(t.Context(), testProduct()))

	ttl := mr.TTL(cacheKey("p9"))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.Less(t, ttl, 20*time.Minute)
}

func TestDelete(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := t.Context()

	require.NoError(t, c.Set(ctx, testProduct()))
	assert.True(t, mr.Exists(cacheKey("p9")))

	require.NoError(t, c.Delete(ctx, "p9"))
	assert.False(t, mr.Exists(cacheKey("p9")))

	require.NoError(t, c.Delete(ctx, "nonexistent"))
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "product:p9", cacheKey("p9"))
}
