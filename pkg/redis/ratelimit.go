package redis

import (
	"context"
	"time"
)

// FixedWindowAllow counts a hit against scope and reports whether the count is
// still within limit for the current window.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	count, err := c.incrWindow(ctx, c.RateLimitKey(scope), window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

// incrWindow bumps the counter and arms its expiry on the first hit. A counter
// left without a TTL (the EXPIRE after INCR was lost) is re-armed so it cannot
// lock a login out forever.
func (c *Client) incrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	store, err := c.conn()
	if err != nil {
		return 0, err
	}
	count, err := store.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if window <= 0 {
		return count, nil
	}

	arm := count == 1
	if !arm {
		ttl, err := store.TTL(ctx, key).Result()
		if err != nil {
			return count, err
		}
		arm = ttl < 0
	}
	if arm {
		if err := store.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
