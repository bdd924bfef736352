package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yeremiapane/coffeeshop-server/models"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

const (
	catalogKey        = "coffeeshop:catalog:products"
	catalogVersionKey = "coffeeshop:catalog:version"
)

var errStaleListing = errors.New("catalog changed since the listing was read")

// CatalogCache keeps the product listing in Redis. A nil *CatalogCache is
// valid and behaves as an always-missing cache.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache returns nil when client is nil.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if client == nil {
		return nil
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Products returns the cached listing and whether it was present.
func (c *CatalogCache) Products(ctx context.Context) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.ErrorLogger.Errorf("catalog cache read failed: %v", err)
		}
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(val, &products); err != nil {
		utils.ErrorLogger.Errorf("catalog cache holds invalid data: %v", err)
		return nil, false
	}
	return products, true
}

// Version returns the invalidation counter. Read it before loading the listing
// from the database and pass it to StoreProducts. -1 means unknown.
func (c *CatalogCache) Version(ctx context.Context) int64 {
	if c == nil {
		return -1
	}
	v, err := c.client.Get(ctx, catalogVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		utils.ErrorLogger.Errorf("catalog cache version read failed: %v", err)
		return -1
	}
	return v
}

// StoreProducts caches products unless an Invalidate ran after version was read.
func (c *CatalogCache) StoreProducts(ctx context.Context, version int64, products []models.Product) {
	if c == nil || version < 0 {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		utils.ErrorLogger.Errorf("catalog cache encode failed: %v", err)
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, catalogVersionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleListing
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, catalogKey, data, c.ttl)
			return nil
		})
		return err
	}, catalogVersionKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleListing), errors.Is(err, redis.TxFailedErr):
		utils.InfoLogger.Debug("catalog cache store skipped, listing changed meanwhile")
	default:
		utils.ErrorLogger.Errorf("catalog cache write failed: %v", err)
	}
}

// Invalidate drops the cached listing after any product or stock change has
// been committed, and bumps the version so in-flight reads do not store.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, catalogVersionKey)
		pipe.Del(ctx, catalogKey)
		return nil
	})
	if err != nil {
		utils.ErrorLogger.Errorf("catalog cache invalidate failed: %v", err)
	}
}
