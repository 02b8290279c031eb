package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_SixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeDigits)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
		}
	}
}

func TestVerify_SuccessConsumes(t *testing.T) {
	now := time.Now()
	otp := NewOtp(uuid.New(), HashCode("123456"), now)

	require.NoError(t, otp.Verify("123456", now))
	require.True(t, otp.Consumed)

	require.ErrorIs(t, otp.Verify("123456", now), ErrConsumed)
}

func TestVerify_MismatchBurnsAttempt(t *testing.T) {
	now := time.Now()
	otp := NewOtp(uuid.New(), HashCode("123456"), now)

	require.ErrorIs(t, otp.Verify("654321", now), ErrMismatch)
	require.Equal(t, DefaultAttempts-1, otp.AttemptsRemaining)
	require.False(t, otp.Consumed)

	// The right code still works after a failed attempt.
	require.NoError(t, otp.Verify("123456", now))
}

func TestVerify_AttemptsExhausted(t *testing.T) {
	now := time.Now()
	otp := NewOtp(uuid.New(), HashCode("123456"), now)

	for i := 0; i < DefaultAttempts-1; i++ {
		require.ErrorIs(t, otp.Verify("000000", now), ErrMismatch)
	}
	// The final wrong attempt reports exhaustion.
	require.ErrorIs(t, otp.Verify("000000", now), ErrAttemptsExhausted)
	// Even the correct code is dead now.
	require.ErrorIs(t, otp.Verify("123456", now), ErrAttemptsExhausted)
}

func TestVerify_Expired(t *testing.T) {
	now := time.Now()
	otp := NewOtp(uuid.New(), HashCode("123456"), now)

	late := now.Add(DefaultTTL + time.Second)
	require.ErrorIs(t, otp.Verify("123456", late), ErrExpired)
	require.Equal(t, DefaultAttempts, otp.AttemptsRemaining)
}

func TestVerify_ValidThroughTTLBoundary(t *testing.T) {
	now := time.Now()
	otp := NewOtp(uuid.New(), HashCode("123456"), now)
	require.NoError(t, otp.Verify("123456", now.Add(DefaultTTL)))
}

func TestHashCode_Deterministic(t *testing.T) {
	require.Equal(t, HashCode("123456"), HashCode("123456"))
	require.NotEqual(t, HashCode("123456"), HashCode("123457"))
	require.Len(t, HashCode("123456"), 64)
}
