package rediscache

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Incr bumps key and refreshes its TTL in one transaction. A zero ttl
// leaves the key without expiry.
func (r *RedisCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errors.Wrap(err, "redis incr")
	}
	return incr.Val(), nil
}
