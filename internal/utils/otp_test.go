package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTP_Shape(t *testing.T) {
	for i := 0; i < 500; i++ {
		otp, err := NewOTP()
		require.NoError(t, err)
		require.Len(t, otp, OTPLength)
		for _, c := range otp {
			assert.True(t, c >= '0' && c <= '9', "non digit in %q", otp)
		}
	}
}

func TestNewOTPFrom_KeepsLeadingZeros(t *testing.T) {
	// rand.Int reads one byte per digit for max=10 and masks it to 4 bits.
	otp, err := newOTPFrom(bytes.NewReader([]byte{0x00, 0x00, 0x04, 0x02}))
	require.NoError(t, err)
	assert.Equal(t, "0042", otp)
}

func TestNewOTPFrom_RejectsOutOfRangeDraws(t *testing.T) {
	// 0x0f masks to 15 which is >= 10 and must be redrawn.
	otp, err := newOTPFrom(bytes.NewReader([]byte{0x0f, 0x09, 0x08, 0x02, 0x01}))
	require.NoError(t, err)
	assert.Equal(t, "9821", otp)
}

func TestNewOTPFrom_ShortReader(t *testing.T) {
	_, err := newOTPFrom(bytes.NewReader([]byte{0x01}))
	assert.Error(t, err)
}
