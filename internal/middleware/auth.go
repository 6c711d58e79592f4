package middleware

import (
	"context"
	"net/http"
	"strings"

	"stockroom-api/internal/model"
	"stockroom-api/internal/service"
	"stockroom-api/pkg/apierror"
)

// AccountKey is the key for storing the authenticated account in request
// context.
const AccountKey contextKey = "account"

// NewAuthMiddleware returns a middleware that resolves the bearer token to
// an account and injects it into the request context. Requests without a
// valid token are rejected with 401 before reaching any handler.
func NewAuthMiddleware(accounts *service.AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, apierror.Unauthorized("Authentication required"))
				return
			}

			account, err := accounts.Verify(r.Context(), token)
			if err != nil {
				if apiErr, ok := err.(*apierror.Error); ok {
					writeError(w, apiErr)
				} else {
					writeError(w, apierror.Unauthorized("Invalid or expired token"))
				}
				return
			}

			ctx := context.WithValue(r.Context(), AccountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// GetAccountFromContext retrieves the authenticated account from request
// context. Returns nil outside the auth middleware.
func GetAccountFromContext(ctx context.Context) *model.Account {
	if account, ok := ctx.Value(AccountKey).(*model.Account); ok {
		return account
	}
	return nil
}
