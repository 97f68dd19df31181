package interfaces

import (
	"context"
	"time"
)

// CacheProvider is the storage contract behind the render cache and the
// resolver's section cache. A miss is reported as a nil value with a non-nil
// error; callers treat every error as a miss.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
