package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-secret-key-for-testing-purposes", 15*time.Minute)
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	service := newTestTokenService()

	token, expiresAt, err := service.Issue("user-123", "student@mec.edu.in", "Asha")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))

	claims, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "student@mec.edu.in", claims.Email)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestTokenService_Validate_Expired(t *testing.T) {
	service := NewTokenService("test-secret", 1*time.Millisecond)

	token, _, err := service.Issue("user-123", "student@mec.edu.in", "Asha")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	claims, err := service.Validate(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokenService_Validate_Invalid(t *testing.T) {
	service := newTestTokenService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenService_Validate_WrongSignature(t *testing.T) {
	service1 := NewTokenService("secret-key-1", 15*time.Minute)
	service2 := NewTokenService("secret-key-2", 15*time.Minute)

	token, _, err := service1.Issue("user-123", "student@mec.edu.in", "Asha")
	require.NoError(t, err)

	claims, err := service2.Validate(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestTokenService_Validate_WrongAlgorithm(t *testing.T) {
	service := newTestTokenService()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "user-123",
		Email:  "student@mec.edu.in",
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := service.Validate(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
