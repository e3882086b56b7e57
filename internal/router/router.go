package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/communet/communet-api/internal/config"
	"github.com/communet/communet-api/internal/handler"
	"github.com/communet/communet-api/internal/middleware"
)

// APIPrefix is the path prefix shared by every API route.
const APIPrefix = "/apis"

// API returns the single /apis group.  It carries no group middleware:
// echo registers a catch-all for groups with middleware, which would answer
// unknown paths with that middleware's 401/403 instead of 404.  Each route
// lists its own middleware.
func API(e *echo.Echo) *echo.Group {
	return e.Group(APIPrefix)
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the two login endpoints.  Each OTP request sends an
// SMS, so both sit behind the Redis token bucket.
func RegisterAuth(api *echo.Group, a *handler.AuthHandler, rl config.RateLimitConfig, rdb *redis.Client) {
	limit := middleware.NewTokenBucket(rl, rdb)
	api.POST("/authentication", a.RequestOtp, limit)
	api.POST("/verify-otp", a.VerifyOtp, limit)
}
