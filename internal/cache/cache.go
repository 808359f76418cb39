package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Generation reads a counter; a missing counter is 0.
	Generation(ctx context.Context, key string) (int64, error)
	// Bump increments a counter and extends its expiry to ttl.
	Bump(ctx context.Context, key string, ttl time.Duration) error
}

// NewRedisClient accepts either a redis:// URL or a bare host:port and
// verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
