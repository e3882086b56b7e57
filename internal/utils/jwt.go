package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of a bearer token.  UserID and Email keep the claim
// names the mobile clients already decode.  There is deliberately no
// expiry: a token stays valid until the next login replaces it in the
// token store.
type Claims struct {
	UserID uint64 `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ErrMalformedToken is returned by ParseBearerToken for any token that does
// not verify: bad encoding, wrong algorithm or wrong signature.
var ErrMalformedToken = errors.New("malformed or unverifiable token")

// NewBearerToken signs an HS256 token for the user.  iat is set to now and
// jti to a random UUID so two logins within the same second still yield
// distinct tokens.
func NewBearerToken(secret string, userID uint64, email string, now time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseBearerToken verifies the signature of raw and returns its claims.
// Only HS256 is accepted.  A missing exp claim is not an error.
func ParseBearerToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
