package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed signing token with error: %s", err)
	}
	return raw
}

func TestVerify(t *testing.T) {
	secret := "secret"

	t.Run("given valid token should verify", func(t *testing.T) {
		raw := signToken(t, secret, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		assert.NoError(t, Verify(raw, secret))
	})

	t.Run("given wrong secret should fail", func(t *testing.T) {
		raw := signToken(t, "other-secret", jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		assert.Error(t, Verify(raw, secret))
	})

	t.Run("given expired token should fail", func(t *testing.T) {
		raw := signToken(t, secret, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})

		assert.Error(t, Verify(raw, secret))
	})

	t.Run("given token without expiration should fail", func(t *testing.T) {
		raw := signToken(t, secret, jwt.RegisteredClaims{Subject: "user-1"})

		assert.Error(t, Verify(raw, secret))
	})
}

func TestSubject(t *testing.T) {
	raw := signToken(t, "secret", jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	assert.Equal(t, "user-1", Subject(raw))
	assert.Empty(t, Subject("not-a-token"))
}
