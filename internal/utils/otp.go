package utils

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// OTPLength is the number of digits in a one-time password.
const OTPLength = 4

var ten = big.NewInt(10)

// NewOTP returns OTPLength independent uniform digits.  Leading zeros are
// kept, so the value space is 0000-9999.
func NewOTP() (string, error) {
	return newOTPFrom(rand.Reader)
}

func newOTPFrom(r io.Reader) (string, error) {
	var b strings.Builder
	b.Grow(OTPLength)
	for i := 0; i < OTPLength; i++ {
		d, err := rand.Int(r, ten)
		if err != nil {
			return "", fmt.Errorf("draw otp digit: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
