package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/coffeeshop-server/models"
)

func setupCache(t *testing.T) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCatalogCache(client, time.Minute), mr
}

func TestCatalogCacheRoundTrip(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	_, ok := cache.Products(ctx)
	assert.False(t, ok)

	products := []models.Product{
		{ID: 1, Name: "Latte", Price: dec("3.50"), Stock: 20},
		{ID: 2, Name: "Mocha", Price: dec("4.10"), Stock: 0},
	}
	cache.StoreProducts(ctx, cache.Version(ctx), products)
	assert.True(t, mr.Exists(catalogKey))
	assert.Equal(t, time.Minute, mr.TTL(catalogKey))

	got, ok := cache.Products(ctx)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "Latte", got[0].Name)
	assert.True(t, dec("4.10").Equal(got[1].Price))

	cache.Invalidate(ctx)
	assert.False(t, mr.Exists(catalogKey))
	_, ok = cache.Products(ctx)
	assert.False(t, ok)
}

func TestCatalogCacheSkipsStaleListing(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	version := cache.Version(ctx)
	assert.Equal(t, int64(0), version)
	stale := []models.Product{{ID: 1, Name: "Latte", Price: dec("3.50"), Stock: 20}}

	// a completion commits and invalidates while the listing is being read
	cache.Invalidate(ctx)
	cache.StoreProducts(ctx, version, stale)
	assert.False(t, mr.Exists(catalogKey))

	fresh := []models.Product{{ID: 1, Name: "Latte", Price: dec("3.50"), Stock: 18}}
	cache.StoreProducts(ctx, cache.Version(ctx), fresh)
	got, ok := cache.Products(ctx)
	require.True(t, ok)
	assert.Equal(t, 18, got[0].Stock)

	// unknown version never stores
	cache.Invalidate(ctx)
	cache.StoreProducts(ctx, -1, fresh)
	assert.False(t, mr.Exists(catalogKey))
}

func TestCatalogCacheIgnoresGarbage(t *testing.T) {
	cache, mr := setupCache(t)
	require.NoError(t, mr.Set(catalogKey, "not json"))

	_, ok := cache.Products(context.Background())
	assert.False(t, ok)
}

func TestNilCatalogCache(t *testing.T) {
	cache := NewCatalogCache(nil, time.Minute)
	assert.Nil(t, cache)

	ctx := context.Background()
	assert.Equal(t, int64(-1), cache.Version(ctx))
	cache.StoreProducts(ctx, 0, []models.Product{{ID: 1}})
	cache.Invalidate(ctx)
	_, ok := cache.Products(ctx)
	assert.False(t, ok)
}

func TestCompletedOrderInvalidatesCatalog(t *testing.T) {
	db := setupTestDB(t)
	cache, mr := setupCache(t)
	ctx := context.Background()

	latte := seedProduct(t, db, "Latte", "3.50", 20)
	cache.StoreProducts(ctx, cache.Version(ctx), []models.Product{latte})

	svc := NewOrderService(db, true, cache)
	order, err := svc.CreateOrder(ctx, 1, []LineItem{{ProductID: latte.ID, Quantity: 1, UnitPrice: dec("3.50")}})
	require.NoError(t, err)
	assert.True(t, mr.Exists(catalogKey), "creating an order keeps the listing")

	require.NoError(t, svc.TransitionStatus(ctx, order.ID, models.OrderStatusCompleted))
	assert.False(t, mr.Exists(catalogKey))
}
