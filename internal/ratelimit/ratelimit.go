// Package ratelimit throttles login attempts with a fixed window counter
// kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const fixedWindowLua = `
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`

const defaultPrefix = "factguard:login:"

// LoginLimiter allows at most limit attempts per key in each window. The
// window starts with the first attempt after the previous one expired.
type LoginLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
	script *redis.Script
}

func NewLoginLimiter(rdb *redis.Client, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		rdb:    rdb,
		prefix: defaultPrefix,
		limit:  int64(limit),
		window: window,
		script: redis.NewScript(fixedWindowLua),
	}
}

// Allow records one attempt for key and reports whether it is within the
// limit. A non-positive limit or window disables throttling.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.limit <= 0 || l.window <= 0 {
		return true, nil
	}

	n, err := l.script.Run(ctx, l.rdb, []string{l.prefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit eval: %w", err)
	}
	return n <= l.limit, nil
}
