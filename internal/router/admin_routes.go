package router

import (
	"github.com/labstack/echo/v4"

	"github.com/communet/communet-api/internal/handler"
	"github.com/communet/communet-api/internal/middleware"
	"github.com/communet/communet-api/internal/model"
)

// Access is what the protected routes need from the auth service.
type Access interface {
	middleware.Authenticator
	middleware.RoleChecker
}

// RegisterAdmin registers endpoints limited to admins and family heads.
// The bearer token is checked before the role gate.
func RegisterAdmin(api *echo.Group, access Access, u *handler.UserHandler) {
	api.GET("/allusers", u.List,
		middleware.BearerAuth(access),
		middleware.RequireRole(access, model.UserTypeAdmin, model.UserTypeFamilyHead),
	)
}
