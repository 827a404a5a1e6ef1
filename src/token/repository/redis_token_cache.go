package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MMN3003/bridgeswap/src/logger"
	"github.com/MMN3003/bridgeswap/src/token/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.TokenCache = (*RedisTokenCache)(nil)

const tokenCacheKey = "bridgeswap:tokens"

// RedisTokenCache shares the catalog between instances. Redis errors count as misses.
type RedisTokenCache struct {
	rdb redis.Cmdable
	ttl time.Duration
	log *logger.Logger
}

func NewRedisTokenCache(rdb redis.Cmdable, ttl time.Duration, log *logger.Logger) *RedisTokenCache {
	return &RedisTokenCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *RedisTokenCache) Get(ctx context.Context) ([]domain.Token, bool) {
	raw, err := c.rdb.Get(ctx, tokenCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("token cache read failed: %v", err)
		}
		return nil, false
	}
	var tokens []domain.Token
	if err := json.Unmarshal(raw, &tokens); err != nil {
		c.log.Warnf("token cache payload corrupt: %v", err)
		return nil, false
	}
	return tokens, true
}

func (c *RedisTokenCache) Set(ctx context.Context, tokens []domain.Token) {
	raw, err := json.Marshal(tokens)
	if err != nil {
		c.log.Errorf("token cache encode failed: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, tokenCacheKey, raw, c.ttl).Err(); err != nil {
		c.log.Warnf("token cache write failed: %v", err)
	}
}

func (c *RedisTokenCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, tokenCacheKey).Err(); err != nil {
		c.log.Warnf("token cache invalidate failed: %v", err)
	}
}

// DialRedis connects and pings; the caller falls back to the in-memory cache on error.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
