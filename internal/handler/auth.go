package handler

import (
	"encoding/json"
	"net/http"

	"stockroom-api/internal/model"
	"stockroom-api/internal/service"
	"stockroom-api/pkg/apierror"
	"stockroom-api/pkg/response"
)

// AuthHandler handles registration and login HTTP requests.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the session token and the account (sans password
// hash) at the top level of the envelope.
type AuthResponse struct {
	Success bool           `json:"success"`
	Token   string         `json:"token"`
	User    *model.Account `json:"user"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	account, token, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Raw(w, http.StatusCreated, AuthResponse{
		Success: true,
		Token:   token,
		User:    account,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	account, token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Raw(w, http.StatusOK, AuthResponse{
		Success: true,
		Token:   token,
		User:    account,
	})
}
