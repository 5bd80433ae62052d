package middleware

import (
    "context"
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/bookfair-stall-reservation/internal/config"
)

// tokenBucketScript refills and consumes one token atomically so
// multiple server instances share the same budget per client.
var tokenBucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])
    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
    if intervals > 0 then
        tokens = math.min(capacity, tokens + intervals * refill_tokens)
        last_refill = last_refill + intervals * interval_ms
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)
    return { allowed, tokens, retry_after_ms }
`)

// RateLimit applies a Redis token bucket keyed by client identity and
// route.  Authenticated requests are keyed by user id, anonymous ones by
// remote IP.  When Redis is unavailable the middleware fails open: a
// limiter outage must not take the catalog down with it.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, clientID(c), c.Path())
            args := []interface{}{
                time.Now().UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL / time.Second),
            }
            ctx, cancel := contextWithTimeout(c.Request().Context(), time.Second)
            vals, err := tokenBucketScript.Run(ctx, rdb, []string{key}, args...).Int64Slice()
            cancel()
            if err != nil || len(vals) != 3 {
                return next(c)
            }
            if vals[0] != 1 {
                retryAfter := time.Duration(vals[2]) * time.Millisecond
                c.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+1)))
                return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
            }
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))
            return next(c)
        }
    }
}

// contextWithTimeout bounds auxiliary Redis calls so cache and limiter
// hiccups cannot stall a request.
func contextWithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
    return context.WithTimeout(parent, d)
}
