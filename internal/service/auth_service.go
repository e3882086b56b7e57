// Package service holds the phone-OTP authentication flow and the event
// publisher it reports to.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/config"
	"github.com/communet/communet-api/internal/metrics"
	"github.com/communet/communet-api/internal/model"
	"github.com/communet/communet-api/internal/queue"
	"github.com/communet/communet-api/internal/repository"
	"github.com/communet/communet-api/internal/utils"
)

// Directory is the account store the auth flow reads and updates.
type Directory interface {
	GetByContactNumber(ctx context.Context, contactNumber string) (model.Account, error)
	GetProfileByContactNumber(ctx context.Context, contactNumber string) (model.AccountProfile, error)
	SetOTP(ctx context.Context, contactNumber, otp string, expiry time.Time) error
	UserType(ctx context.Context, id uint64) (string, error)
}

// TokenStore keeps the single live bearer token of each account.
type TokenStore interface {
	Upsert(ctx context.Context, userID uint64, token string) error
	Get(ctx context.Context, userID uint64) (string, error)
}

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// EventPublisher receives audit events.  Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

const otpMessage = "OTP for Community Application login is: %s. Please use this OTP to complete your verification process. Thanks, Aasma Technology Solutions"

// OTPMessage renders the SMS body carrying otp.
func OTPMessage(otp string) string { return fmt.Sprintf(otpMessage, otp) }

// Session is the result of a successful OTP verification.
type Session struct {
	Token   string
	Profile model.AccountProfile
}

// AuthService issues and verifies OTPs and validates bearer tokens.  Steps
// of one call run strictly in order; concurrent calls for the same account
// are not serialised and the last write of the OTP or token row wins.
type AuthService struct {
	Directory Directory
	Tokens    TokenStore
	SMS       SMSSender
	Events    EventPublisher

	Secret     string
	OTPTTL     time.Duration
	SMSTimeout time.Duration

	Now    func() time.Time
	NewOTP func() (string, error)
}

// NewAuthService wires the service with production defaults for the clock
// and OTP source.
func NewAuthService(cfg config.Config, dir Directory, tokens TokenStore, sms SMSSender, events EventPublisher) *AuthService {
	return &AuthService{
		Directory:  dir,
		Tokens:     tokens,
		SMS:        sms,
		Events:     events,
		Secret:     cfg.TokenSecret,
		OTPTTL:     cfg.OTPTTL,
		SMSTimeout: cfg.SMS.Timeout,
		Now:        time.Now,
		NewOTP:     utils.NewOTP,
	}
}

// RequestOtp generates a fresh OTP for the account owning contactNumber,
// texts it, and only after the gateway acknowledged stores it with its
// expiry.  A failed dispatch leaves the stored OTP untouched.
func (s *AuthService) RequestOtp(ctx context.Context, contactNumber string) error {
	contactNumber = strings.TrimSpace(contactNumber)
	if contactNumber == "" {
		return fmt.Errorf("%w: contact number required", ErrValidation)
	}

	acc, err := s.Directory.GetByContactNumber(ctx, contactNumber)
	if err != nil {
		metrics.OTPRequestsTotal.WithLabelValues(lookupResult(err)).Inc()
		return lookupError(err)
	}

	otp, err := s.NewOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	// DATETIME keeps whole seconds; truncate so the stored expiry is exact.
	expiry := s.Now().Truncate(time.Second).Add(s.otpTTL())

	sendCtx, cancel := context.WithTimeout(ctx, s.smsTimeout())
	err = s.SMS.Send(sendCtx, contactNumber, OTPMessage(otp))
	cancel()
	if err != nil {
		metrics.OTPRequestsTotal.WithLabelValues("delivery_failed").Inc()
		log.Error().Err(err).Uint64("user_id", acc.ID).Msg("otp dispatch failed")
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	if err := s.Directory.SetOTP(ctx, contactNumber, otp, expiry); err != nil {
		metrics.OTPRequestsTotal.WithLabelValues("storage_failed").Inc()
		log.Error().Err(err).Uint64("user_id", acc.ID).Msg("otp store failed")
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	metrics.OTPRequestsTotal.WithLabelValues("sent").Inc()
	s.publish(ctx, queue.NewAuthEvent(queue.EventOTPRequested, acc.ID, contactNumber, s.Now()))
	return nil
}

// VerifyOtp checks otp against the stored value and expiry and, on a match,
// mints a new bearer token that replaces any earlier token of the account.
// The stored OTP is not consumed, so it keeps working until it expires or
// is overwritten by the next RequestOtp.
func (s *AuthService) VerifyOtp(ctx context.Context, contactNumber, otp string) (Session, error) {
	contactNumber = strings.TrimSpace(contactNumber)
	otp = strings.TrimSpace(otp)
	if contactNumber == "" || otp == "" {
		return Session{}, fmt.Errorf("%w: contact number and otp required", ErrValidation)
	}

	p, err := s.Directory.GetProfileByContactNumber(ctx, contactNumber)
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues(lookupResult(err)).Inc()
		return Session{}, lookupError(err)
	}

	now := s.Now()
	if p.OTP == nil || *p.OTP != otp {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return Session{}, ErrInvalidOtp
	}
	if p.OTPExpiry == nil || now.After(*p.OTPExpiry) {
		metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		return Session{}, ErrExpiredOtp
	}

	token, err := utils.NewBearerToken(s.Secret, p.ID, p.EmailClaim(), now)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	if err := s.Tokens.Upsert(ctx, p.ID, token); err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("storage_failed").Inc()
		log.Error().Err(err).Uint64("user_id", p.ID).Msg("token store failed")
		return Session{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	s.publish(ctx, queue.NewAuthEvent(queue.EventUserAuthenticated, p.ID, contactNumber, now))
	return Session{Token: token, Profile: p}, nil
}

// Authenticate validates an Authorization header value.  The token must
// verify against the signing secret and be the one currently stored for
// its account.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (*utils.Claims, error) {
	raw, ok := bearerToken(authorization)
	if !ok {
		return nil, ErrMissingToken
	}
	claims, err := utils.ParseBearerToken(s.Secret, raw)
	if err != nil {
		metrics.TokenChecksTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	stored, err := s.Tokens.Get(ctx, claims.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		metrics.TokenChecksTotal.WithLabelValues("revoked").Inc()
		return nil, ErrRevokedToken
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	case stored != raw:
		metrics.TokenChecksTotal.WithLabelValues("revoked").Inc()
		return nil, ErrRevokedToken
	}
	metrics.TokenChecksTotal.WithLabelValues("ok").Inc()
	return claims, nil
}

// RequireRole passes when the account's user type is one of allowed.
func (s *AuthService) RequireRole(ctx context.Context, accountID uint64, allowed ...string) error {
	if accountID == 0 {
		return ErrUnauthenticated
	}
	role, err := s.Directory.UserType(ctx, accountID)
	if err != nil {
		return lookupError(err)
	}
	if !slices.Contains(allowed, role) {
		return ErrForbidden
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, ev queue.AuthEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event", ev.Type).Uint64("user_id", ev.UserID).Msg("auth event not published")
	}
}

func (s *AuthService) otpTTL() time.Duration {
	if s.OTPTTL <= 0 {
		return 10 * time.Minute
	}
	return s.OTPTTL
}

func (s *AuthService) smsTimeout() time.Duration {
	if s.SMSTimeout <= 0 {
		return 10 * time.Second
	}
	return s.SMSTimeout
}

// bearerToken extracts the token of a "Bearer <token>" header value.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func lookupResult(err error) string {
	if errors.Is(err, repository.ErrNotFound) {
		return "not_found"
	}
	return "storage_failed"
}
