package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OTPRequestsTotal counts RequestOtp outcomes.
	// result: sent, not_found, delivery_failed, storage_failed
	OTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communet_otp_requests_total",
		Help: "Total number of OTP issuance attempts by outcome.",
	}, []string{"result"})

	// OTPVerificationsTotal counts VerifyOtp outcomes.
	// result: success, invalid, expired, not_found, storage_failed
	OTPVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communet_otp_verifications_total",
		Help: "Total number of OTP verification attempts by outcome.",
	}, []string{"result"})

	// TokenChecksTotal counts bearer token validations.
	// result: ok, invalid, revoked
	TokenChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "communet_token_checks_total",
		Help: "Total number of bearer token validations by outcome.",
	}, []string{"result"})
)
