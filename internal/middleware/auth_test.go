package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockroom-api/internal/repository"
	"stockroom-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedRequest(t *testing.T) (func(http.Handler) http.Handler, string) {
	t.Helper()

	tokens := service.NewTokenService([]byte("test-secret"), time.Hour)
	accounts := service.NewAccountService(repository.NewMemoryStore(), tokens)

	_, token, err := accounts.Register(context.Background(), "Alice", "a@x.com", "secret1")
	require.NoError(t, err)

	return NewAuthMiddleware(accounts), token
}

func TestAuthMiddleware_ResolvesPrincipal(t *testing.T) {
	t.Parallel()

	mw, token := newAuthedRequest(t)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := GetAccountFromContext(r.Context())
		require.NotNil(t, account)
		assert.Equal(t, "a@x.com", account.Email)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_RejectsMissingAndBadTokens(t *testing.T) {
	t.Parallel()

	mw, _ := newAuthedRequest(t)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	cases := map[string]string{
		"no header":     "",
		"wrong scheme":  "Basic abc",
		"garbage token": "Bearer garbage",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Contains(t, rec.Body.String(), `"success":false`, name)
	}
}

func TestGetAccountFromContext_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, GetAccountFromContext(context.Background()))
}
