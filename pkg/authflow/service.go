// Package authflow implements the registration, login and token refresh
// flows on top of the account store and the token service.
package authflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/ren-ben/HelikonProject/internal/logger"
	"github.com/ren-ben/HelikonProject/pkg/api/auth"
	"github.com/ren-ben/HelikonProject/pkg/models"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

// ErrInvalidRefreshToken is returned when a refresh token is rejected for
// any reason: malformed, expired, bad signature, wrong type, or the
// account behind it no longer exists. The causes are collapsed so the
// response does not leak which check failed.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// Service implements the authentication flows.
type Service struct {
	store  store.AccountStore
	tokens *auth.TokenService
}

// NewService creates a new authentication flow service.
func NewService(s store.AccountStore, tokens *auth.TokenService) *Service {
	return &Service{
		store:  s,
		tokens: tokens,
	}
}

// RegisterRequest carries the fields of a registration attempt.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new unapproved account with the USER role.
//
// No tokens are issued: the account cannot log in until an administrator
// approves it. Username collisions are reported before email collisions
// when both are taken.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.Account, error) {
	if _, err := s.store.GetAccountByUsername(ctx, req.Username); err == nil {
		return nil, models.ErrDuplicateUsername
	} else if !errors.Is(err, models.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.store.GetAccountByEmail(ctx, req.Email); err == nil {
		return nil, models.ErrDuplicateEmail
	} else if !errors.Is(err, models.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Approved:     false,
	}
	account.SetRoles([]models.Role{models.RoleUser})

	// The existence checks above race against concurrent registrations;
	// the unique indexes are the authoritative guard.
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// LoginResult is the outcome of a successful login or refresh.
type LoginResult struct {
	Account *models.Account
	Tokens  *auth.TokenPair
}

// Login authenticates the given credentials and issues a token pair.
//
// An unknown username and a wrong password both yield
// models.ErrInvalidCredentials, so a caller cannot probe which usernames
// exist. An unapproved account with correct credentials yields
// models.ErrAccountNotApproved instead: at that point the caller has
// already proven they own the account.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	account, err := s.store.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !models.VerifyPassword(password, account.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}

	if !account.Approved {
		return nil, models.ErrAccountNotApproved
	}

	tokens, err := s.tokens.IssuePair(account)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	// Non-critical; a failed timestamp update must not fail the login.
	if err := s.store.UpdateLastLogin(ctx, account.ID); err != nil {
		logger.WarnCtx(ctx, "failed to update last login time",
			"username", account.Username, "error", err)
	}

	return &LoginResult{Account: account, Tokens: tokens}, nil
}

// Refresh redeems a refresh token for a fresh token pair.
//
// The token must verify, carry the refresh type discriminator and still
// name an existing account. The new access token embeds the account's
// current role set, not the one from login time, so role changes take
// effect at the next refresh at the latest.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}

	account, err := s.store.GetAccountByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	// Re-check against the reloaded account; covers subject mismatch and
	// expiry racing the verification above.
	if !s.tokens.IsValidFor(refreshToken, account.Username) {
		return nil, ErrInvalidRefreshToken
	}

	if !account.Approved {
		return nil, models.ErrAccountNotApproved
	}

	tokens, err := s.tokens.IssuePair(account)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &LoginResult{Account: account, Tokens: tokens}, nil
}
