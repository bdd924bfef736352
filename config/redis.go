package config

import "github.com/redis/go-redis/v9"

// NewRedisClient returns nil when no address is configured; callers treat a
// nil client as "cache disabled".
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
