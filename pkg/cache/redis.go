package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"stayfinder/pkg/observability"
)

// Cache is a JSON cache over Redis, used for read-mostly recommendation
// results. A nil Cache is a valid no-op so services can run without Redis.
type Cache struct{ c *redis.Client }

func New(client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{c: client}
}

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if r == nil {
		return false, nil
	}
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if r == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, ttl).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	if r == nil {
		return nil
	}
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}
