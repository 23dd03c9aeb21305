// Package cache is the process TTL cache. Callers receive a Cache through
// their constructor; there is no package-level instance.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache: miss")

type Cache interface {
	// Get decodes the cached value into dest. It returns ErrMiss when the key
	// is absent or expired.
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Clear(ctx context.Context) error
}

type Stats struct {
	TotalKeys   int `json:"total_keys"`
	ActiveKeys  int `json:"active_keys"`
	ExpiredKeys int `json:"expired_keys"`
}
