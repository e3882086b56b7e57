package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/service"
	"github.com/communet/communet-api/internal/utils"
)

// Authenticator validates the raw Authorization header of a request.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (*utils.Claims, error)
}

// BearerAuth returns an Echo middleware that admits a request only when its
// bearer token verifies and is the token currently stored for the account.
// The account id and email claims are stored in the context under
// "user_id" (uint64) and "email" for downstream handlers.
func BearerAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := auth.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			switch {
			case err == nil:
			case errors.Is(err, service.ErrMissingToken):
				return fail(c, http.StatusUnauthorized, "Access token is missing")
			case errors.Is(err, service.ErrInvalidToken):
				return fail(c, http.StatusForbidden, "Invalid token")
			case errors.Is(err, service.ErrRevokedToken):
				return fail(c, http.StatusForbidden, "Token not found in the database")
			default:
				log.Error().Err(err).Str("path", c.Path()).Msg("token validation failed")
				return fail(c, http.StatusInternalServerError, "Database error")
			}

			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxEmail, claims.Email)
			return next(c)
		}
	}
}

// fail writes the API's error envelope.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg, "status": "false"})
}
