package service

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"stockroom-api/internal/model"
	"stockroom-api/internal/repository"
	"stockroom-api/pkg/apierror"
	"stockroom-api/pkg/uid"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when login hits an unknown email, so that
// the unknown-email and wrong-password paths cost the same.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AccountService handles registration, login, and token verification.
type AccountService struct {
	accounts repository.AccountRepository
	tokens   *TokenService
}

// NewAccountService creates a new account service.
func NewAccountService(accounts repository.AccountRepository, tokens *TokenService) *AccountService {
	return &AccountService{
		accounts: accounts,
		tokens:   tokens,
	}
}

// Register creates an account, hashes the password, and mints a session
// token. The email is normalized to lower case before storage so that
// uniqueness is case-insensitive.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*model.Account, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	fields := map[string]string{}
	if name == "" {
		fields["name"] = "Name is required"
	}
	switch {
	case email == "":
		fields["email"] = "Email is required"
	default:
		if _, err := mail.ParseAddress(email); err != nil {
			fields["email"] = "Email is invalid"
		}
	}
	if password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return nil, "", apierror.Validation(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apierror.InternalError("")
	}

	account := &model.Account{
		ID:           uid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", apierror.Conflict("Email already registered")
		}
		log.Printf("[AccountService] create account failed: %v", err)
		return nil, "", apierror.InternalError("")
	}

	token, err := s.tokens.Generate(account.ID)
	if err != nil {
		log.Printf("[AccountService] token generation failed: %v", err)
		return nil, "", apierror.InternalError("")
	}

	log.Printf("[AccountService] registered account id=%s", account.ID)
	return account, token, nil
}

// Login verifies the credentials and mints a session token. Unknown email
// and wrong password produce the same generic error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, "", apierror.Unauthorized("Invalid email or password")
		}
		log.Printf("[AccountService] lookup failed: %v", err)
		return nil, "", apierror.InternalError("")
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, "", apierror.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Generate(account.ID)
	if err != nil {
		log.Printf("[AccountService] token generation failed: %v", err)
		return nil, "", apierror.InternalError("")
	}

	return account, token, nil
}

// Verify resolves a bearer token to the acting account. Any token problem
// (missing, malformed, bad signature, expired) yields a 401.
func (s *AccountService) Verify(ctx context.Context, token string) (*model.Account, error) {
	accountID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apierror.Unauthorized("Invalid or expired token")
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.Unauthorized("Invalid or expired token")
		}
		log.Printf("[AccountService] lookup failed: %v", err)
		return nil, apierror.InternalError("")
	}

	return account, nil
}
