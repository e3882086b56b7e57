package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/communet/communet-api/internal/config"
	"github.com/communet/communet-api/internal/handler"
	"github.com/communet/communet-api/internal/middleware"
)

// RegisterMember registers endpoints open to any signed-in account.  The
// geography lookups change rarely and are served through the response cache.
func RegisterMember(api *echo.Group, auth middleware.Authenticator, u *handler.UserHandler, geo *handler.GeographyHandler, cc config.CacheConfig, rdb *redis.Client) {
	bearer := middleware.BearerAuth(auth)
	api.GET("/userdetails", u.Details, bearer)

	cached := middleware.NewRedisCache(cc, rdb)
	api.GET("/countries", geo.Countries, bearer, cached)
	api.GET("/states", geo.States, bearer, cached)
	api.GET("/states/:countryId", geo.States, bearer, cached)
	api.GET("/cities", geo.Cities, bearer, cached)
	api.GET("/cities/:stateId", geo.Cities, bearer, cached)
}
