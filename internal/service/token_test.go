package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("test-secret"), time.Hour)

	token, err := svc.Generate("account-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "account-123", accountID)
}

func TestTokenService_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("test-secret"), time.Hour)
	// Negative TTL is normalized away by the constructor, so mint the
	// expired token from a service built around a past expiry.
	expired := &TokenService{secret: []byte("test-secret"), ttl: -time.Minute}

	token, err := expired.Generate("account-123")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenService([]byte("right-secret"), time.Hour).Generate("account-123")
	require.NoError(t, err)

	_, err = NewTokenService([]byte("wrong-secret"), time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("test-secret"), time.Hour)

	for _, token := range []string{"", "garbage", "not.a.jwt"} {
		_, err := svc.Verify(token)
		assert.Error(t, err, "token %q should be rejected", token)
	}
}

func TestTokenService_DistinctTokensPerMint(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("test-secret"), time.Hour)

	first, err := svc.Generate("account-123")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // IssuedAt has second precision

	second, err := svc.Generate("account-123")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
