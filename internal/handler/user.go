package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/model"
	"github.com/communet/communet-api/internal/repository"
)

// AccountReader is the read side of the directory used by UserHandler.
type AccountReader interface {
	GetProfileByID(ctx context.Context, id uint64) (model.AccountProfile, error)
	ListActive(ctx context.Context, parentID *uint64) ([]model.AccountProfile, error)
}

// UserHandler serves account lookups for authenticated callers.
type UserHandler struct {
	Accounts AccountReader
}

func NewUserHandler(accounts AccountReader) *UserHandler {
	if accounts == nil {
		panic("nil account reader passed to NewUserHandler")
	}
	return &UserHandler{Accounts: accounts}
}

// Details: GET /apis/userdetails?userId=
func (h *UserHandler) Details(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("userId"))
	if raw == "" {
		return fail(c, http.StatusBadRequest, "Please Enter User ID")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusBadRequest, "Invalid User ID")
	}

	p, err := h.Accounts.GetProfileByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		log.Error().Err(err).Uint64("user_id", id).Msg("user details")
		return fail(c, http.StatusInternalServerError, "Database error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User Details", "status": "true", "user": newUserView(p)})
}

// List: GET /apis/allusers[?parentId=]
func (h *UserHandler) List(c echo.Context) error {
	var parentID *uint64
	if raw := strings.TrimSpace(c.QueryParam("parentId")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid parentId")
		}
		parentID = &n
	}

	profiles, err := h.Accounts.ListActive(c.Request().Context(), parentID)
	if err != nil {
		log.Error().Err(err).Msg("list users")
		return fail(c, http.StatusInternalServerError, "Database error")
	}
	users := make([]userView, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, newUserView(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "true", "users": users})
}
