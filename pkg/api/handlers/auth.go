package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ren-ben/HelikonProject/pkg/api/middleware"
	"github.com/ren-ben/HelikonProject/pkg/authflow"
	"github.com/ren-ben/HelikonProject/pkg/metrics"
	"github.com/ren-ben/HelikonProject/pkg/models"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

// AuthHandler handles authentication-related API endpoints.
type AuthHandler struct {
	flow        *authflow.Service
	store       store.AccountStore
	authMetrics *metrics.AuthMetrics
}

// NewAuthHandler creates a new AuthHandler. authMetrics may be nil when
// metrics are disabled.
func NewAuthHandler(flow *authflow.Service, s store.AccountStore, authMetrics *metrics.AuthMetrics) *AuthHandler {
	return &AuthHandler{
		flow:        flow,
		store:       s,
		authMetrics: authMetrics,
	}
}

// AccountResponse is a sanitized account representation for API responses.
type AccountResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Roles     []string   `json:"roles"`
	Approved  bool       `json:"approved"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func accountToResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Roles:     models.RoleNames(a.RoleSet()),
		Approved:  a.Approved,
		CreatedAt: a.CreatedAt,
		LastLogin: a.LastLogin,
	}
}

// RegisterResponse is the response body for POST /api/v1/auth/register.
// No tokens are issued: the account awaits admin approval.
type RegisterResponse struct {
	Message string          `json:"message"`
	Account AccountResponse `json:"account"`
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the response body for successful login and refresh.
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	ExpiresAt    time.Time       `json:"expires_at"`
	Account      AccountResponse `json:"account"`
}

// RefreshRequest is the request body for POST /api/v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register handles POST /api/v1/auth/register.
// Creates an unapproved account with the USER role and returns an
// acknowledgement without tokens.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req authflow.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.flow.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateUsername):
			h.authMetrics.RecordRegistration("duplicate")
			Conflict(w, "Username already taken")
		case errors.Is(err, models.ErrDuplicateEmail):
			h.authMetrics.RecordRegistration("duplicate")
			Conflict(w, "Email already registered")
		case errors.Is(err, models.ErrPasswordTooShort), errors.Is(err, models.ErrPasswordTooLong):
			h.authMetrics.RecordRegistration("error")
			BadRequest(w, err.Error())
		default:
			h.authMetrics.RecordRegistration("error")
			InternalServerError(w, "Registration failed")
		}
		return
	}

	h.authMetrics.RecordRegistration("success")
	WriteJSONCreated(w, RegisterResponse{
		Message: "Registration successful. An administrator must approve your account before you can log in.",
		Account: accountToResponse(account),
	})
}

// Login handles POST /api/v1/auth/login.
// Authenticates credentials and returns a JWT token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		BadRequest(w, "Username and password are required")
		return
	}

	result, err := h.flow.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			h.authMetrics.RecordLogin("invalid_credentials")
			Unauthorized(w, "Invalid username or password")
		case errors.Is(err, models.ErrAccountNotApproved):
			h.authMetrics.RecordLogin("not_approved")
			Forbidden(w, "Account has not been approved yet")
		default:
			h.authMetrics.RecordLogin("error")
			InternalServerError(w, "Authentication failed")
		}
		return
	}

	h.authMetrics.RecordLogin("success")
	WriteJSONOK(w, TokenResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		TokenType:    result.Tokens.TokenType,
		ExpiresIn:    result.Tokens.ExpiresIn,
		ExpiresAt:    result.Tokens.ExpiresAt,
		Account:      accountToResponse(result.Account),
	})
}

// Refresh handles POST /api/v1/auth/refresh.
// Returns a new token pair using a valid refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		BadRequest(w, "Refresh token is required")
		return
	}

	result, err := h.flow.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, authflow.ErrInvalidRefreshToken):
			h.authMetrics.RecordRefresh("invalid_token")
			Unauthorized(w, "Invalid or expired refresh token")
		case errors.Is(err, models.ErrAccountNotApproved):
			h.authMetrics.RecordRefresh("not_approved")
			Forbidden(w, "Account has not been approved yet")
		default:
			h.authMetrics.RecordRefresh("error")
			InternalServerError(w, "Token refresh failed")
		}
		return
	}

	h.authMetrics.RecordRefresh("success")
	WriteJSONOK(w, TokenResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		TokenType:    result.Tokens.TokenType,
		ExpiresIn:    result.Tokens.ExpiresIn,
		ExpiresAt:    result.Tokens.ExpiresAt,
		Account:      accountToResponse(result.Account),
	})
}

// Me handles GET /api/v1/auth/me.
// Returns the current account, reloaded from the store so role and
// approval changes show up immediately.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return
	}

	account, err := h.store.GetAccountByUsername(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			Unauthorized(w, "Account no longer exists")
			return
		}
		InternalServerError(w, "Failed to fetch account")
		return
	}

	WriteJSONOK(w, accountToResponse(account))
}
