package service

import "errors"

// Failure taxonomy of the auth flows.  Every error returned by AuthService
// wraps exactly one of these; the HTTP layer maps them to status codes with
// errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("account not found")
	ErrInvalidOtp      = errors.New("invalid otp")
	ErrExpiredOtp      = errors.New("otp expired")
	ErrDelivery        = errors.New("otp delivery failed")
	ErrStorage         = errors.New("storage failure")
	ErrMissingToken    = errors.New("access token is missing")
	ErrInvalidToken    = errors.New("invalid token")
	ErrRevokedToken    = errors.New("token revoked")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)
