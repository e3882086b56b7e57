package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/service"
)

// AuthFlow is the phone-OTP login flow served by AuthHandler.
type AuthFlow interface {
	RequestOtp(ctx context.Context, contactNumber string) error
	VerifyOtp(ctx context.Context, contactNumber, otp string) (service.Session, error)
}

// AuthHandler serves the two unauthenticated login endpoints.
type AuthHandler struct {
	Auth AuthFlow
}

func NewAuthHandler(auth AuthFlow) *AuthHandler {
	if auth == nil {
		panic("nil auth flow passed to NewAuthHandler")
	}
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type requestOtpReq struct {
	ContactNumber looseString `json:"contactNumber"`
}

type verifyOtpReq struct {
	ContactNumber looseString `json:"contactNumber"`
	OTP           looseString `json:"otp"`
}

// RequestOtp: POST /apis/authentication
func (h *AuthHandler) RequestOtp(c echo.Context) error {
	var req requestOtpReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Please enter a contact number")
	}

	err := h.Auth.RequestOtp(c.Request().Context(), req.ContactNumber.Value)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent and stored successfully", "status": "true"})
	case errors.Is(err, service.ErrValidation):
		return fail(c, http.StatusBadRequest, "Please enter a contact number")
	case errors.Is(err, service.ErrNotFound):
		return fail(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrDelivery):
		return fail(c, http.StatusInternalServerError, "Failed to send OTP: "+strings.TrimPrefix(err.Error(), service.ErrDelivery.Error()+": "))
	case errors.Is(err, service.ErrStorage):
		return fail(c, http.StatusInternalServerError, "Failed to store OTP")
	default:
		log.Error().Err(err).Msg("request otp")
		return fail(c, http.StatusInternalServerError, "Failed to send OTP")
	}
}

// VerifyOtp: POST /apis/verify-otp
func (h *AuthHandler) VerifyOtp(c echo.Context) error {
	var req verifyOtpReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Please enter contact number and OTP")
	}

	sess, err := h.Auth.VerifyOtp(c.Request().Context(), req.ContactNumber.Value, otpText(req.OTP))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Authentication successful",
			"status":  "true",
			"token":   sess.Token,
			"user":    newUserView(sess.Profile),
		})
	case errors.Is(err, service.ErrValidation):
		return fail(c, http.StatusBadRequest, "Please enter contact number and OTP")
	case errors.Is(err, service.ErrNotFound):
		return fail(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidOtp):
		return fail(c, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, service.ErrExpiredOtp):
		return fail(c, http.StatusBadRequest, "OTP expired")
	case errors.Is(err, service.ErrStorage):
		return fail(c, http.StatusInternalServerError, "Failed to store token")
	default:
		log.Error().Err(err).Msg("verify otp")
		return fail(c, http.StatusInternalServerError, "Authentication failed")
	}
}
