package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"stockroom-api/internal/repository"
	"stockroom-api/pkg/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAccountService() *AccountService {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	return NewAccountService(repository.NewMemoryStore(), tokens)
}

func TestAccountService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAccountService()

	account, token, err := svc.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "Alice", account.Name)
	assert.Equal(t, "a@x.com", account.Email)
	assert.NotEmpty(t, token)

	// The credential is stored only as a salted hash.
	assert.NotEqual(t, "secret1", account.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret1")))
}

func TestAccountService_RegisterNormalizesEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAccountService()

	account, _, err := svc.Register(ctx, "Alice", "  Alice@Example.COM ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", account.Email)
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAccountService()

	_, _, err := svc.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	// Any case variant of the email must conflict.
	_, _, err = svc.Register(ctx, "Mallory", "A@X.Com", "other")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestAccountService_RegisterValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAccountService()

	_, _, err := svc.Register(ctx, "  ", "", "")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	// All violated fields are reported in one response.
	assert.Contains(t, apiErr.Fields, "name")
	assert.Contains(t, apiErr.Fields, "email")
	assert.Contains(t, apiErr.Fields, "password")
}

func TestAccountService_RegisterMalformedEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAccountService()

	_, _, err := svc.Register(ctx, "Alice", "not-an-email", "secret1")
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Fields, "email")
	assert.NotContains(t, apiErr.Fields, "name")
}

func TestAccountService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAccountService()

	registered, _, err := svc.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	account, token, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, account.ID)
	assert.NotEmpty(t, token)
}

func TestAccountService_LoginDoesNotLeakExistence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAccountService()

	_, _, err := svc.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "a@x.com", "wrong")
	_, _, unknownEmail := svc.Login(ctx, "nobody@x.com", "wrong")

	// Wrong password and unknown email must be indistinguishable.
	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestAccountService_Verify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAccountService()

	registered, token, err := svc.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	account, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, account.ID)
}

func TestAccountService_VerifyRejectsBadTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAccountService()

	for _, token := range []string{"", "garbage", "eyJhbGciOiJIUzI1NiJ9.e30.bad"} {
		_, err := svc.Verify(ctx, token)
		var apiErr *apierror.Error
		require.ErrorAs(t, err, &apiErr, "token %q", token)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	}
}

func TestAccountService_VerifyUnknownSubject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	svc := NewAccountService(repository.NewMemoryStore(), tokens)

	// Signed correctly but for an account the store has never seen.
	token, err := tokens.Generate("ghost-account")
	require.NoError(t, err)

	_, err = svc.Verify(ctx, token)
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
