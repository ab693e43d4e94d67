package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseAuthToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	raw, err := SignAuthToken(42, "landlord")
	require.NoError(t, err)

	claims, err := ParseAuthToken(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "landlord", claims.Role)
}

func TestParseAuthTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	raw, err := SignAuthToken(42, "tenant")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ParseAuthToken(raw)
	assert.Error(t, err)
}

func TestParseAuthTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := AuthClaims{
		UserID: 42,
		Role:   "tenant",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseAuthToken(raw)
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 4)
		for _, c := range otp {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestGenerateSecureToken(t *testing.T) {
	tok, err := GenerateSecureToken(24)
	require.NoError(t, err)
	assert.Len(t, tok, 48)

	other, err := GenerateSecureToken(24)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)

	_, err = GenerateSecureToken(0)
	assert.Error(t, err)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***n@g****.com", MaskEmail("jodan@gmail.com"))
	assert.Equal(t, "a*@b*.io", MaskEmail("ab@bz.io"))
	assert.Equal(t, "not-an-email", MaskEmail("not-an-email"))
}
