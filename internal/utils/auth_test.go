package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey = "app-key-123"
	testSecret = "shhh-secret"
)

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateSessionToken(t *testing.T) {
	valid := signToken(t, jwt.MapClaims{
		"aud":  testAPIKey,
		"dest": "https://shop.example.com",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}, testSecret)

	claims, err := ValidateSessionToken(valid, testAPIKey, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", ShopFromClaims(claims))
}

func TestValidateSessionTokenRejectsWrongSecret(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"aud": testAPIKey,
		"exp": time.Now().Add(time.Minute).Unix(),
	}, "other-secret")

	_, err := ValidateSessionToken(token, testAPIKey, testSecret)
	assert.Error(t, err)
}

func TestValidateSessionTokenRejectsWrongAudience(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"aud": "someone-else",
		"exp": time.Now().Add(time.Minute).Unix(),
	}, testSecret)

	_, err := ValidateSessionToken(token, testAPIKey, testSecret)
	assert.Error(t, err)
}

func TestValidateSessionTokenRejectsExpired(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"aud": testAPIKey,
		"exp": time.Now().Add(-time.Minute).Unix(),
	}, testSecret)

	_, err := ValidateSessionToken(token, testAPIKey, testSecret)
	assert.Error(t, err)
}

func TestIsDuplicate(t *testing.T) {
	assert.False(t, IsDuplicate(""))
	assert.False(t, IsDuplicate("evt-1"))
	assert.True(t, IsDuplicate("evt-1"))
	assert.False(t, IsDuplicate("evt-2"))
}
