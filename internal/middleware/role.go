package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/service"
)

// RoleChecker decides whether an account holds one of the allowed roles.
type RoleChecker interface {
	RequireRole(ctx context.Context, accountID uint64, allowed ...string) error
}

// RequireRole returns a middleware that admits the request only when the
// authenticated account's user type is one of roles.  The user type is
// read from the directory on every request, so a role change takes effect
// without a new login.  It must run after BearerAuth.
func RequireRole(checker RoleChecker, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := UserID(c) // zero when BearerAuth did not run
			err := checker.RequireRole(c.Request().Context(), uid, roles...)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, service.ErrUnauthenticated):
				return fail(c, http.StatusUnauthorized, "Authentication required")
			case errors.Is(err, service.ErrNotFound):
				return fail(c, http.StatusNotFound, "User not found")
			case errors.Is(err, service.ErrForbidden):
				return fail(c, http.StatusForbidden, "Access denied: insufficient permissions")
			default:
				log.Error().Err(err).Uint64("user_id", uid).Msg("role lookup failed")
				return fail(c, http.StatusInternalServerError, "Database error")
			}
		}
	}
}
