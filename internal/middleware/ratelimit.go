package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/config"
)

// tokenBucketScript refills the bucket continuously at refill/interval
// tokens per millisecond, then takes one token if a whole one is available.
// Reply: {allowed, whole tokens left, ms until the next token}.
var tokenBucketScript = redis.NewScript(`
local bucket = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local per_ms = tonumber(ARGV[3]) / tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local h = redis.call('HMGET', bucket, 'level', 'ts')
local level = tonumber(h[1]) or capacity
local ts = tonumber(h[2]) or now
level = math.min(capacity, level + math.max(0, now - ts) * per_ms)

local allowed, wait = 0, 0
if level >= 1 then
	allowed = 1
	level = level - 1
else
	wait = math.ceil((1 - level) / per_ms)
end

redis.call('HSET', bucket, 'level', tostring(level), 'ts', tostring(now))
redis.call('EXPIRE', bucket, ttl)
return {allowed, math.floor(level), wait}
`)

// NewTokenBucket limits requests per key with a Redis token bucket.  It is
// mounted on the OTP endpoints so a single client cannot trigger an
// unbounded number of SMS sends.  Without Redis, or when the script fails,
// requests pass through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}

			vals, err := tokenBucketScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("ratelimit: redis error, allowing request")
				return next(c)
			}
			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				log.Warn().Str("key", key).Interface("result", vals).Msg("ratelimit: unexpected script result")
				return next(c)
			}
			allowed := replyInt(arr[0]) == 1
			remaining := replyInt(arr[1])
			retryMs := replyInt(arr[2])

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				if secs < 0 {
					secs = 0
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				log.Debug().Str("key", key).Int64("retry_ms", retryMs).Msg("ratelimit: blocked")
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "Too many requests, please try again later",
					"status":      "false",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// replyInt reads an integer element of a script reply.
func replyInt(v interface{}) int64 {
	n, _ := v.(int64)
	return n
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := currentUserID(c)
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
