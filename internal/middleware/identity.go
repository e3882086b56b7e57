package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Context keys set by BearerAuth.
const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
)

// UserID returns the authenticated account id stored by BearerAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// Email returns the email claim of the authenticated account.
func Email(c echo.Context) string {
	s, _ := c.Get(ctxEmail).(string)
	return s
}

// currentUserID renders the account id for rate-limit keys, "anon" for guests.
func currentUserID(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
