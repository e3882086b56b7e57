package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/config"
)

// cachedResponse is the Redis value of one cached lookup response.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// recorder mirrors writes to the client and keeps a copy of the body.  Once
// the copy would exceed max bytes it is dropped and overflow is set.
type recorder struct {
	http.ResponseWriter
	status   int
	body     bytes.Buffer
	max      int
	overflow bool
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.max > 0 && r.body.Len()+len(b) > r.max {
			r.overflow = true
			r.body.Reset()
		} else {
			r.body.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// responseKey identifies a response by concrete path and query string.
func responseKey(prefix string, req *http.Request) string {
	sum := sha1.Sum([]byte(req.Method + " " + req.URL.Path + "?" + req.URL.RawQuery))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// NewRedisCache serves repeated lookups from Redis.  Only 200 responses of
// the configured methods are stored, for cfg.TTL; replays carry
// X-Cache: HIT.  Without Redis the middleware is a no-op.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cfg.Methods[strings.ToUpper(req.Method)] {
				return next(c)
			}
			key := responseKey(cfg.Prefix, req)

			if raw, err := rdb.Get(req.Context(), key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(raw, &hit) == nil {
					return replay(c, hit)
				}
			} else if !errors.Is(err, redis.Nil) {
				log.Warn().Err(err).Msg("cache: redis get failed")
			}

			rec := &recorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, max: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}

			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			hdr.Del(echo.HeaderContentLength)
			raw, err := json.Marshal(cachedResponse{Status: rec.status, Header: hdr, Body: rec.body.Bytes()})
			if err == nil {
				err = rdb.Set(context.WithoutCancel(req.Context()), key, raw, ttl).Err()
			}
			if err != nil {
				log.Warn().Err(err).Msg("cache: store failed")
			}
			return nil
		}
	}
}

func replay(c echo.Context, hit cachedResponse) error {
	h := c.Response().Header()
	for k, vals := range hit.Header {
		h[k] = append([]string(nil), vals...)
	}
	h.Set("X-Cache", "HIT")
	return c.Blob(hit.Status, h.Get(echo.HeaderContentType), hit.Body)
}
